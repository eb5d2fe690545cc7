package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookdb/internal/scheduler"
	"github.com/mrlokans/bookdb/internal/tasks"
)

// ExportController exposes the catalogue export.
type ExportController struct {
	scheduler  *scheduler.ExportScheduler
	taskClient *tasks.Client
}

// NewExportController creates a controller. With a task client, exports
// requested over HTTP are queued instead of run in the request.
func NewExportController(s *scheduler.ExportScheduler, taskClient *tasks.Client) *ExportController {
	return &ExportController{
		scheduler:  s,
		taskClient: taskClient,
	}
}

// GetStatus handles GET /api/export
func (ec *ExportController) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, ec.scheduler.Status())
}

// RunExport handles POST /api/export
func (ec *ExportController) RunExport(c *gin.Context) {
	if ec.taskClient != nil {
		ids, err := ec.taskClient.Add(tasks.ExportCatalogTask{}).Save()
		if err != nil {
			respondInternalError(c, err, "queue export")
			return
		}
		respondAccepted(c, gin.H{"task_id": ids[0], "message": "export enqueued"})
		return
	}

	result, err := ec.scheduler.RunNow(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "run export")
		return
	}
	c.JSON(http.StatusOK, result)
}
