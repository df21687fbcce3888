package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/shelf/internal/export"
)

// Runner performs one export run.
type Runner interface {
	Run(ctx context.Context) (export.Result, error)
}

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule validates a 5-field cron schedule string.
func ValidateCronSchedule(schedule string) error {
	_, err := parser.Parse(schedule)
	return err
}

// GetCronDescription returns a human-readable description of a cron schedule
func GetCronDescription(schedule string) string {
	switch schedule {
	case "0 * * * *":
		return "Every hour at :00"
	case "*/15 * * * *":
		return "Every 15 minutes"
	case "*/30 * * * *":
		return "Every 30 minutes"
	case "0 */6 * * *":
		return "Every 6 hours"
	case "0 0 * * *":
		return "Daily at midnight"
	case "0 0 * * 0":
		return "Weekly on Sunday at midnight"
	default:
		return "Custom schedule: " + schedule
	}
}

// ExportScheduler regenerates books.json periodically while the server runs.
type ExportScheduler struct {
	runner   Runner
	schedule string

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc

	exportMu    sync.Mutex
	isExporting bool
	lastResult  *export.Result
	lastErr     error
}

// NewExportScheduler creates a scheduler; an empty schedule disables it.
func NewExportScheduler(runner Runner, schedule string) *ExportScheduler {
	return &ExportScheduler{
		runner:   runner,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(parser)),
	}
}

// Start validates the schedule and begins running exports. It returns an
// error for an invalid schedule and is a no-op when the schedule is empty.
func (s *ExportScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.schedule == "" {
		slog.Info("Export scheduler: disabled")
		return nil
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	runCtx, cancel := context.WithCancel(ctx)

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runExport(runCtx)
	})
	if err != nil {
		cancel()
		return fmt.Errorf("failed to schedule export job: %w", err)
	}
	s.entryID = entryID
	s.cancelFunc = cancel

	s.cron.Start()
	s.isRunning = true

	slog.Info("Export scheduler: started",
		"schedule", s.schedule,
		"description", GetCronDescription(s.schedule),
		"next_run", s.nextRunLocked())

	go func() {
		<-runCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop cancels a running export and waits for it to return.
func (s *ExportScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	s.cancelFunc()
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	slog.Info("Export scheduler: stopped")
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
	return s.nextRunLocked()
}

func (s *ExportScheduler) nextRunLocked() *time.Time {
	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// LastResult returns the outcome of the most recent completed export.
func (s *ExportScheduler) LastResult() (*export.Result, error) {
	s.exportMu.Lock()
	defer s.exportMu.Unlock()
	return s.lastResult, s.lastErr
}

// runExport performs one export, skipping when another is in progress.
func (s *ExportScheduler) runExport(ctx context.Context) {
	s.exportMu.Lock()
	if s.isExporting {
		s.exportMu.Unlock()
		slog.Warn("Export scheduler: previous export still running, skipping")
		return
	}
	s.isExporting = true
	s.exportMu.Unlock()

	result, err := s.runner.Run(ctx)

	s.exportMu.Lock()
	s.isExporting = false
	if err != nil {
		s.lastErr = err
	} else {
		s.lastResult = &result
		s.lastErr = nil
	}
	s.exportMu.Unlock()

	if err != nil {
		slog.Error("Export scheduler: export failed", "error", err)
		return
	}
	slog.Info("Export scheduler: export finished",
		"processed", result.Processed,
		"skipped", result.Skipped,
		"output", result.OutputFile)
}
