package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"churchevents/internal/domain"

	"github.com/robfig/cron/v3"
)

// ReminderJob runs ReminderService.SendUpcomingReminders on a cron schedule.
type ReminderJob struct {
	cron    *cron.Cron
	service domain.ReminderService
	logger  *slog.Logger
	timeout time.Duration
}

// NewReminderJob parses spec (standard 5-field cron, evaluated in loc) and registers the run.
func NewReminderJob(spec string, loc *time.Location, service domain.ReminderService, logger *slog.Logger, timeout time.Duration) (*ReminderJob, error) {
	if loc == nil {
		loc = time.UTC
	}
	j := &ReminderJob{
		cron:    cron.New(cron.WithLocation(loc)),
		service: service,
		logger:  logger,
		timeout: timeout,
	}
	if _, err := j.cron.AddFunc(spec, func() { j.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("reminder schedule %q: %w", spec, err)
	}
	return j, nil
}

// RunOnce sends one batch of reminders and returns how many went out.
func (j *ReminderJob) RunOnce(ctx context.Context) int {
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}
	start := time.Now()
	sent, err := j.service.SendUpcomingReminders(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "reminder run failed", "err", err, "sent", sent)
		return sent
	}
	j.logger.InfoContext(ctx, "reminder run finished", "sent", sent, "duration_ms", time.Since(start).Milliseconds())
	return sent
}

// Start runs the schedule in its own goroutine.
func (j *ReminderJob) Start() {
	j.cron.Start()
}

// Stop halts the schedule and waits for a running batch to finish or ctx to end.
func (j *ReminderJob) Stop(ctx context.Context) {
	done := j.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		j.logger.Warn("reminder run still in progress at shutdown")
	}
}

// Next reports when the schedule fires next, or the zero time if it is not running.
func (j *ReminderJob) Next() time.Time {
	entries := j.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}
