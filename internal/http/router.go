package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	resolver := cfg.Resolver
	if resolver == nil {
		resolver = cfg.Provider.Resolver()
	}

	health := NewHealthController(cfg.Store, cfg.Version)
	booksController := NewBooksController(cfg.Provider)
	eventsController := NewEventsController(resolver, cfg.Provider.Contract())

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Books API endpoints
	router.GET("/api/books", booksController.ListBooks)
	router.POST("/api/books", booksController.CreateBook)
	router.DELETE("/api/books", booksController.DeleteAllBooks)
	router.GET("/api/books/:id", booksController.GetBook)
	router.PATCH("/api/books/:id", booksController.UpdateBook)
	router.PUT("/api/books/:id", booksController.UpdateBook)
	router.DELETE("/api/books/:id", booksController.DeleteBook)
	router.GET("/api/types", booksController.ListTypes)

	// Change notifications
	router.GET("/api/events", eventsController.Stream)
	router.GET("/api/books/:id/events", eventsController.Stream)

	// Catalogue export endpoints
	if cfg.ExportScheduler != nil {
		exportController := NewExportController(cfg.ExportScheduler, cfg.TaskClient)
		router.GET("/api/export", exportController.GetStatus)
		router.POST("/api/export", exportController.RunExport)
	}

	// Task management endpoints
	if cfg.TaskClient != nil {
		tasksController := NewTasksController(cfg.TaskClient)
		router.GET("/api/tasks/:id", tasksController.GetTaskStatus)
	}

	return router
}
