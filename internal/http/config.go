package http

import (
	"github.com/mrlokans/bookdb/internal/notify"
	"github.com/mrlokans/bookdb/internal/provider"
	"github.com/mrlokans/bookdb/internal/scheduler"
	"github.com/mrlokans/bookdb/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Provider *provider.BooksProvider
	Store    HealthChecker

	// Change stream; defaults to the provider's resolver
	Resolver *notify.Resolver

	// Catalogue export (optional)
	ExportScheduler *scheduler.ExportScheduler

	// Task queue client (optional)
	TaskClient *tasks.Client

	// Application info
	Version string
}
