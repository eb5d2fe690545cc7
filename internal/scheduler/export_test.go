package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookdb/internal/config"
	"github.com/mrlokans/bookdb/internal/exporters"
)

type fakeRunner struct {
	calls atomic.Int32
	err   error
}

func (r *fakeRunner) Run(ctx context.Context) (exporters.ExportResult, error) {
	r.calls.Add(1)
	if r.err != nil {
		return exporters.ExportResult{}, r.err
	}
	return exporters.ExportResult{Path: "/tmp/catalog.md", BooksProcessed: 3}, nil
}

func TestValidateCronSchedule(t *testing.T) {
	assert.NoError(t, ValidateCronSchedule("0 * * * *"))
	assert.NoError(t, ValidateCronSchedule("*/15 * * * *"))
	assert.Error(t, ValidateCronSchedule("every hour"))
	assert.Error(t, ValidateCronSchedule("0 0 * * * *"), "seconds field is not accepted")
}

func TestGetNextRunTime(t *testing.T) {
	from := time.Date(2024, 1, 1, 10, 15, 0, 0, time.UTC)

	next, err := GetNextRunTime("0 * * * *", from)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC), next)

	_, err = GetNextRunTime("nope", from)
	assert.Error(t, err)
}

func TestGetCronDescription(t *testing.T) {
	assert.Equal(t, "Every hour at :00", GetCronDescription("0 * * * *"))
	assert.Equal(t, "Custom schedule: 5 4 * * *", GetCronDescription("5 4 * * *"))
}

func TestExportScheduler_Disabled(t *testing.T) {
	s := NewExportScheduler(&fakeRunner{}, config.Export{Enabled: false, Dir: "/tmp", Schedule: "0 * * * *"})

	require.NoError(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.GetNextRunTime())
}

func TestExportScheduler_NoDirectory(t *testing.T) {
	s := NewExportScheduler(&fakeRunner{}, config.Export{Enabled: true, Schedule: "0 * * * *"})

	require.NoError(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
}

func TestExportScheduler_InvalidSchedule(t *testing.T) {
	s := NewExportScheduler(&fakeRunner{}, config.Export{Enabled: true, Dir: "/tmp", Schedule: "bad"})

	err := s.Start(context.Background())
	assert.ErrorContains(t, err, "invalid cron schedule")
	assert.False(t, s.IsRunning())
}

func TestExportScheduler_StartStop(t *testing.T) {
	s := NewExportScheduler(&fakeRunner{}, config.Export{Enabled: true, Dir: "/tmp", Schedule: "0 * * * *"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx))
	assert.True(t, s.IsRunning())
	require.NotNil(t, s.GetNextRunTime())
	assert.True(t, s.GetNextRunTime().After(time.Now()))

	// Starting twice is a no-op
	require.NoError(t, s.Start(ctx))

	s.Stop()
	assert.False(t, s.IsRunning())
	s.Stop()
}

func TestExportScheduler_StopsOnContextCancel(t *testing.T) {
	s := NewExportScheduler(&fakeRunner{}, config.Export{Enabled: true, Dir: "/tmp", Schedule: "0 * * * *"})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))
	cancel()

	assert.Eventually(t, func() bool { return !s.IsRunning() }, 2*time.Second, 10*time.Millisecond)
}

func TestExportScheduler_RunNow(t *testing.T) {
	runner := &fakeRunner{}
	s := NewExportScheduler(runner, config.Export{Dir: "/tmp"})

	result, err := s.RunNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, result.BooksProcessed)
	assert.Equal(t, int32(1), runner.calls.Load())

	status := s.Status()
	assert.False(t, status.LastRun.IsZero())
	assert.Equal(t, 3, status.LastResult.BooksProcessed)
	assert.Empty(t, status.LastError)
	assert.False(t, status.Running)
	assert.Nil(t, status.NextRun)
}

func TestExportScheduler_RunNowFailure(t *testing.T) {
	runner := &fakeRunner{err: errors.New("boom")}
	s := NewExportScheduler(runner, config.Export{Dir: "/tmp"})

	_, err := s.RunNow(context.Background())
	assert.Error(t, err)
	assert.Equal(t, "boom", s.Status().LastError)
}
