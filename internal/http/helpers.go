package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookdb/internal/provider"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context
}

// Machine-readable error codes, one per provider error.
const (
	CodeInvalidAddress       = "invalid_address"
	CodeUnsupportedOperation = "unsupported_operation"
	CodeMissingField         = "missing_field"
	CodeInvalidEnum          = "invalid_enum"
	CodeImmutableField       = "immutable_field"
	CodePersistenceFailure   = "persistence_failure"
	CodeInvalidRequest       = "invalid_request"
)

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: CodeInvalidRequest})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: CodePersistenceFailure})
}

// respondProviderError maps a provider error onto a status and error code.
func respondProviderError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, provider.ErrMissingField):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: CodeMissingField})
	case errors.Is(err, provider.ErrInvalidEnum):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: CodeInvalidEnum})
	case errors.Is(err, provider.ErrImmutableField):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: CodeImmutableField})
	case errors.Is(err, provider.ErrUnsupportedOperation):
		c.JSON(http.StatusMethodNotAllowed, ErrorResponse{Error: err.Error(), Code: CodeUnsupportedOperation})
	case errors.Is(err, provider.ErrInvalidAddress):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: CodeInvalidAddress})
	default:
		respondInternalError(c, err, context)
	}
}

// --- Success Response Helpers ---

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// respondAccepted sends a 202 Accepted response (for async operations).
func respondAccepted(c *gin.Context, data any) {
	c.JSON(http.StatusAccepted, data)
}

// --- Parameter Parsing ---

// parseIDParam extracts and validates a book id from URL parameters.
// Returns the parsed ID or responds with a 400 error and returns 0, false.
func parseIDParam(c *gin.Context, paramName string) (int64, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id < 0 {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return id, true
}
