package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/bookdb/internal/database"
	"github.com/mrlokans/bookdb/internal/exporters"
	"github.com/mrlokans/bookdb/internal/http"
	"github.com/mrlokans/bookdb/internal/notify"
	"github.com/mrlokans/bookdb/internal/scheduler"
	"github.com/mrlokans/bookdb/internal/tasks"
)

// =============================================================================
// Storage
// =============================================================================

// HealthChecker implementations
var _ http.HealthChecker = (*database.Helper)(nil)

// =============================================================================
// Change Notification
// =============================================================================

// Dispatcher implementations
var _ notify.Dispatcher = (*notify.Inline)(nil)
var _ notify.Dispatcher = (*notify.Async)(nil)
var _ notify.Dispatcher = (*tasks.NotifyDispatcher)(nil)

// =============================================================================
// Export Pipeline
// =============================================================================

// BookExporter implementations
var _ exporters.BookExporter = (*exporters.MarkdownExporter)(nil)

// CatalogRunner implementations
var _ scheduler.CatalogRunner = (*exporters.CatalogExporter)(nil)
var _ tasks.CatalogRunner = (*exporters.CatalogExporter)(nil)
var _ tasks.CatalogRunner = tasks.CatalogRunnerFunc(nil)
