package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/bookdb/internal/config"
	"github.com/mrlokans/bookdb/internal/exporters"
)

// CatalogRunner produces one catalogue export.
type CatalogRunner interface {
	Run(ctx context.Context) (exporters.ExportResult, error)
}

// ExportStatus describes the most recent export.
type ExportStatus struct {
	LastRun    time.Time              `json:"last_run"`
	LastResult exporters.ExportResult `json:"last_result"`
	LastError  string                 `json:"last_error,omitempty"`
	Running    bool                   `json:"running"`
	NextRun    *time.Time             `json:"next_run,omitempty"`
}

// ExportScheduler manages periodic catalogue exports
type ExportScheduler struct {
	runner CatalogRunner
	config config.Export

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc

	// exportMu keeps runs from overlapping
	exportMu  sync.Mutex
	statusMu  sync.RWMutex
	status    ExportStatus
	exporting bool
}

// NewExportScheduler creates a new scheduler instance
func NewExportScheduler(runner CatalogRunner, cfg config.Export) *ExportScheduler {
	return &ExportScheduler{
		runner: runner,
		config: cfg,
	}
}

// Start begins the scheduler if export is enabled
func (s *ExportScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.config.Enabled {
		log.Printf("Export scheduler: disabled")
		return nil
	}

	if s.config.Dir == "" {
		log.Printf("Export scheduler: export directory not configured, skipping")
		return nil
	}

	if err := ValidateCronSchedule(s.config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.config.Schedule, err)
	}

	s.cron = cron.New(cron.WithParser(cronParser))
	entryID, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.runExport(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule export job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := GetNextRunTime(s.config.Schedule, time.Now())
	log.Printf("Export scheduler: started with schedule '%s' (%s). Next run: %v",
		s.config.Schedule,
		GetCronDescription(s.config.Schedule),
		nextRun)

	// Monitor for context cancellation
	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler
func (s *ExportScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Stop accepting new jobs and wait for running jobs to complete
	ctx := s.cron.Stop()
	<-ctx.Done()

	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Export scheduler: stopped")
}

// RunNow exports the catalogue immediately and waits for the result
func (s *ExportScheduler) RunNow(ctx context.Context) (exporters.ExportResult, error) {
	return s.runExport(ctx)
}

// IsRunning returns whether the scheduler is active
func (s *ExportScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next export will occur
func (s *ExportScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// Status returns the outcome of the last export
func (s *ExportScheduler) Status() ExportStatus {
	s.statusMu.RLock()
	status := s.status
	status.Running = s.exporting
	s.statusMu.RUnlock()

	status.NextRun = s.GetNextRunTime()
	return status
}

func (s *ExportScheduler) runExport(ctx context.Context) (exporters.ExportResult, error) {
	s.exportMu.Lock()
	defer s.exportMu.Unlock()

	s.setExporting(true)
	defer s.setExporting(false)

	log.Printf("Export: starting export to %s", s.config.Dir)
	startTime := time.Now()

	result, err := s.runner.Run(ctx)

	s.statusMu.Lock()
	s.status.LastRun = startTime
	s.status.LastResult = result
	s.status.LastError = ""
	if err != nil {
		s.status.LastError = err.Error()
	}
	s.statusMu.Unlock()

	if err != nil {
		log.Printf("Export: failed: %v", err)
		return result, err
	}

	log.Printf("Export: exported %d books in %v", result.BooksProcessed, time.Since(startTime).Round(time.Millisecond))
	return result, nil
}

func (s *ExportScheduler) setExporting(v bool) {
	s.statusMu.Lock()
	s.exporting = v
	s.statusMu.Unlock()
}
