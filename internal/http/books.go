package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookdb/internal/contract"
	"github.com/mrlokans/bookdb/internal/entities"
	"github.com/mrlokans/bookdb/internal/provider"
)

// sortableColumns maps the sort query parameter to a column.
var sortableColumns = map[string]string{
	"id":     contract.ColumnID,
	"title":  contract.ColumnTitle,
	"author": contract.ColumnAuthor,
	"type":   contract.ColumnType,
}

type BooksController struct {
	provider *provider.BooksProvider
	contract contract.Contract
}

func NewBooksController(p *provider.BooksProvider) *BooksController {
	return &BooksController{
		provider: p,
		contract: p.Contract(),
	}
}

// TypeInfo describes one book type code.
type TypeInfo struct {
	Code  int    `json:"code"`
	Label string `json:"label"`
}

// CreateBookResponse is returned by POST /api/books.
type CreateBookResponse struct {
	URI  string        `json:"uri"`
	ID   int64         `json:"id"`
	Book entities.Book `json:"book"`
}

// RowsResponse reports how many rows an update or delete touched.
type RowsResponse struct {
	Rows int64 `json:"rows"`
}

// ListBooks handles GET /api/books?sort=title&order=desc&type=1
func (bc *BooksController) ListBooks(c *gin.Context) {
	sortOrder, ok := parseSortOrder(c)
	if !ok {
		return
	}

	var selection string
	var selectionArgs []any
	if raw := c.Query("type"); raw != "" {
		bookType, err := strconv.Atoi(raw)
		if err != nil || !contract.IsValidType(bookType) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid type filter: " + raw, Code: CodeInvalidEnum})
			return
		}
		selection = contract.ColumnType + " = ?"
		selectionArgs = []any{bookType}
	}

	cursor, err := bc.provider.Query(c.Request.Context(), bc.contract.CollectionURI(), contract.Columns, selection, selectionArgs, sortOrder)
	if err != nil {
		respondProviderError(c, err, "list books")
		return
	}

	books := cursor.Books()
	c.IndentedJSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

// GetBook handles GET /api/books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	cursor, err := bc.provider.Query(c.Request.Context(), bc.contract.ItemURI(id), contract.Columns, "", nil, "")
	if err != nil {
		respondProviderError(c, err, "get book")
		return
	}
	if cursor.Len() == 0 {
		respondNotFound(c, "book")
		return
	}

	c.IndentedJSON(http.StatusOK, cursor.Books()[0])
}

// CreateBook handles POST /api/books
func (bc *BooksController) CreateBook(c *gin.Context) {
	values, ok := bindValues(c)
	if !ok {
		return
	}

	uri, err := bc.provider.Insert(c.Request.Context(), bc.contract.CollectionURI(), values)
	if err != nil {
		respondProviderError(c, err, "create book")
		return
	}

	id, _ := contract.ParseID(uri)
	book := entities.Book{ID: id}
	book.Title, _ = values.AsString(contract.ColumnTitle)
	book.Author, _ = values.AsString(contract.ColumnAuthor)
	book.Type, _ = values.AsInt(contract.ColumnType)

	c.Header("Location", "/api/books/"+strconv.FormatInt(id, 10))
	respondCreated(c, CreateBookResponse{URI: uri, ID: id, Book: book})
}

// UpdateBook handles PATCH and PUT /api/books/:id. Both are partial updates.
func (bc *BooksController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	values, ok := bindValues(c)
	if !ok {
		return
	}

	rows, err := bc.provider.Update(c.Request.Context(), bc.contract.ItemURI(id), values, "", nil)
	if err != nil {
		respondProviderError(c, err, "update book")
		return
	}

	c.JSON(http.StatusOK, RowsResponse{Rows: rows})
}

// DeleteBook handles DELETE /api/books/:id
func (bc *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	rows, err := bc.provider.Delete(c.Request.Context(), bc.contract.ItemURI(id), "", nil)
	if err != nil {
		respondProviderError(c, err, "delete book")
		return
	}

	c.JSON(http.StatusOK, RowsResponse{Rows: rows})
}

// DeleteAllBooks handles DELETE /api/books
func (bc *BooksController) DeleteAllBooks(c *gin.Context) {
	rows, err := bc.provider.Delete(c.Request.Context(), bc.contract.CollectionURI(), "", nil)
	if err != nil {
		respondProviderError(c, err, "delete all books")
		return
	}

	c.JSON(http.StatusOK, RowsResponse{Rows: rows})
}

// ListTypes handles GET /api/types
func (bc *BooksController) ListTypes(c *gin.Context) {
	types := make([]TypeInfo, 0, len(contract.Types))
	for _, t := range contract.Types {
		types = append(types, TypeInfo{Code: t, Label: contract.TypeLabel(t)})
	}
	c.JSON(http.StatusOK, gin.H{"types": types})
}

// parseSortOrder builds an ORDER BY clause from whitelisted parameters.
func parseSortOrder(c *gin.Context) (string, bool) {
	sortParam := c.DefaultQuery("sort", "id")
	column, ok := sortableColumns[sortParam]
	if !ok {
		respondBadRequest(c, "invalid sort column: "+sortParam)
		return "", false
	}

	switch strings.ToLower(c.DefaultQuery("order", "asc")) {
	case "asc":
		return column + " ASC", true
	case "desc":
		return column + " DESC", true
	default:
		respondBadRequest(c, "order must be asc or desc")
		return "", false
	}
}

// bindValues decodes a JSON object into a partial record. Integral numbers
// become int64; any other number keeps its text so a fractional type code
// fails validation instead of being truncated.
func bindValues(c *gin.Context) (entities.Values, bool) {
	decoder := json.NewDecoder(c.Request.Body)
	decoder.UseNumber()

	var values entities.Values
	if err := decoder.Decode(&values); err != nil {
		respondBadRequest(c, "request body must be a JSON object")
		return nil, false
	}
	if values == nil {
		values = entities.Values{}
	}
	for key, raw := range values {
		if n, ok := raw.(json.Number); ok {
			if i, err := n.Int64(); err == nil {
				values[key] = i
			} else {
				values[key] = n.String()
			}
		}
	}
	return values, true
}
