// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Storage
//
//   - HealthChecker: liveness and schema version of the store (internal/http/health.go)
//
// ## Change Notification
//
//   - notify.Observer: receives changes for an address (internal/notify/resolver.go)
//   - notify.Dispatcher: decides when observers run (internal/notify/dispatch.go)
//
// Three dispatchers exist. Inline delivers before the write returns, Async
// hands changes to one goroutine and tasks.NotifyDispatcher persists each
// change in the task queue. NOTIFY_MODE selects one in entrypoint.go.
//
// ## Export Pipeline
//
//   - BookExporter: writes a list of books somewhere (internal/exporters/generic.go)
//   - CatalogRunner: reads the catalogue and exports it (internal/scheduler/export.go,
//     internal/tasks/export_catalog.go)
//
// # Adding a New Export Format
//
//  1. Implement BookExporter in internal/exporters/
//
//     type CSVExporter struct {
//         ExportDir string
//     }
//
//     func (e *CSVExporter) Export(books []entities.Book) (ExportResult, error)
//
//     var _ BookExporter = (*CSVExporter)(nil)
//
//  2. Pass it to exporters.NewCatalogExporter in entrypoint.go
//
// # Adding a New Observer
//
// Observers are plain values registered on the resolver:
//
//	resolver.RegisterObserver(c.CollectionURI(), true, notify.ObserverFunc(func(ch notify.Change) {
//	    log.Printf("changed: %s", ch.URI)
//	}))
//
// OnChange runs on the dispatcher's goroutine and must not block.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// This pattern is used throughout the codebase. See checks.go for examples.
package interfaces
