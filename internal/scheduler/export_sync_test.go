package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/shelf/internal/export"
)

type stubRunner struct {
	calls   atomic.Int32
	release chan struct{}
	started chan struct{}
	err     error
}

func (r *stubRunner) Run(ctx context.Context) (export.Result, error) {
	r.calls.Add(1)
	if r.started != nil {
		r.started <- struct{}{}
	}
	if r.release != nil {
		select {
		case <-r.release:
		case <-ctx.Done():
			return export.Result{}, ctx.Err()
		}
	}
	if r.err != nil {
		return export.Result{}, r.err
	}
	return export.Result{Processed: 3, OutputFile: "books.json"}, nil
}

func TestValidateCronSchedule(t *testing.T) {
	tests := []struct {
		schedule string
		valid    bool
	}{
		{"0 * * * *", true},
		{"*/15 * * * *", true},
		{"0 0 * * 0", true},
		{"* * * *", false},
		{"0 0 * * * *", false},
		{"not a schedule", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.schedule, func(t *testing.T) {
			err := ValidateCronSchedule(tt.schedule)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestGetCronDescription(t *testing.T) {
	assert.Equal(t, "Every 6 hours", GetCronDescription("0 */6 * * *"))
	assert.Equal(t, "Custom schedule: 5 4 * * *", GetCronDescription("5 4 * * *"))
}

func TestExportScheduler_Disabled(t *testing.T) {
	s := NewExportScheduler(&stubRunner{}, "")
	require.NoError(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.GetNextRunTime())
}

func TestExportScheduler_InvalidSchedule(t *testing.T) {
	s := NewExportScheduler(&stubRunner{}, "every tuesday")
	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cron schedule")
	assert.False(t, s.IsRunning())
}

func TestExportScheduler_StartStop(t *testing.T) {
	s := NewExportScheduler(&stubRunner{}, "0 * * * *")
	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())

	next := s.GetNextRunTime()
	require.NotNil(t, next)
	assert.True(t, next.After(time.Now()))
	assert.Equal(t, 0, next.Minute())

	// Starting twice is a no-op.
	require.NoError(t, s.Start(context.Background()))

	s.Stop()
	assert.False(t, s.IsRunning())
	s.Stop()
}

func TestExportScheduler_StopsWhenContextIsCancelled(t *testing.T) {
	s := NewExportScheduler(&stubRunner{}, "0 * * * *")
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))

	cancel()
	assert.Eventually(t, func() bool { return !s.IsRunning() }, time.Second, 10*time.Millisecond)
}

func TestExportScheduler_SkipsOverlappingRuns(t *testing.T) {
	runner := &stubRunner{release: make(chan struct{}), started: make(chan struct{}, 1)}
	s := NewExportScheduler(runner, "0 * * * *")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.runExport(context.Background())
	}()
	<-runner.started

	s.runExport(context.Background())
	assert.Equal(t, int32(1), runner.calls.Load())

	close(runner.release)
	wg.Wait()

	result, err := s.LastResult()
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 3, result.Processed)
}

func TestExportScheduler_RecordsFailures(t *testing.T) {
	runner := &stubRunner{err: errors.New("disk full")}
	s := NewExportScheduler(runner, "0 * * * *")

	s.runExport(context.Background())

	result, err := s.LastResult()
	assert.Nil(t, result)
	assert.EqualError(t, err, "disk full")
}
