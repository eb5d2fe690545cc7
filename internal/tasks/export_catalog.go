package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/bookdb/internal/exporters"
	"github.com/mrlokans/bookdb/internal/notify"
)

// CatalogRunner produces one catalogue export.
type CatalogRunner interface {
	Run(ctx context.Context) (exporters.ExportResult, error)
}

// CatalogRunnerFunc adapts a function to CatalogRunner.
type CatalogRunnerFunc func(ctx context.Context) (exporters.ExportResult, error)

func (f CatalogRunnerFunc) Run(ctx context.Context) (exporters.ExportResult, error) {
	return f(ctx)
}

// ExportCatalogTask rewrites the catalogue file.
type ExportCatalogTask struct {
	// Reason is the change that caused the export, empty for manual runs.
	Reason string `json:"reason,omitempty"`
}

// Config returns the queue configuration for catalogue exports.
func (t ExportCatalogTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "export_catalog",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ExportCatalogProcessor creates a processor function for ExportCatalogTask.
func ExportCatalogProcessor(runner CatalogRunner) backlite.QueueProcessor[ExportCatalogTask] {
	return func(ctx context.Context, task ExportCatalogTask) error {
		if runner == nil {
			return fmt.Errorf("catalogue exporter not configured")
		}

		result, err := runner.Run(ctx)
		if err != nil {
			return fmt.Errorf("export catalogue: %w", err)
		}

		log.Printf("[TASK] Exported %d books to %s", result.BooksProcessed, result.Path)
		return nil
	}
}

// NewExportCatalogQueue creates a backlite queue for catalogue exports.
func NewExportCatalogQueue(runner CatalogRunner) backlite.Queue {
	return backlite.NewQueue(ExportCatalogProcessor(runner))
}

// ExportOnChange returns an observer that enqueues a catalogue export for
// every change it sees.
func ExportOnChange(client *Client) notify.Observer {
	return notify.ObserverFunc(func(c notify.Change) {
		if _, err := client.Add(ExportCatalogTask{Reason: c.URI}).Save(); err != nil {
			log.Printf("[TASK ERROR] Failed to queue catalogue export after %s: %v", c.URI, err)
		}
	})
}
