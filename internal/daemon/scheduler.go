package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/gtmdocs/internal/logfields"
)

// Scheduler wraps gocron scheduler for managing periodic tasks. Jobs run in
// singleton mode: a run that is still going when the next tick fires causes
// that tick to be skipped.
type Scheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler creates a new scheduler instance.
func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Scheduler{scheduler: s}, nil
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	slog.Info("Starting scheduler")
	s.scheduler.Start()
}

// Stop gracefully shuts down the scheduler, waiting for running jobs.
func (s *Scheduler) Stop(context.Context) error {
	slog.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}

// ScheduleCron runs task on a five-field cron expression and returns the job id.
func (s *Scheduler) ScheduleCron(name, expr string, task func()) (string, error) {
	return s.schedule(name, gocron.CronJob(expr, false), task)
}

// ScheduleEvery runs task at a fixed interval and returns the job id.
func (s *Scheduler) ScheduleEvery(name string, interval time.Duration, task func()) (string, error) {
	if interval <= 0 {
		return "", fmt.Errorf("interval must be positive, got %s", interval)
	}
	return s.schedule(name, gocron.DurationJob(interval), task)
}

func (s *Scheduler) schedule(name string, def gocron.JobDefinition, task func()) (string, error) {
	job, err := s.scheduler.NewJob(
		def,
		gocron.NewTask(task),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create job %s: %w", name, err)
	}
	slog.Debug("Scheduled job", slog.String("job", name), slog.String("id", job.ID().String()))
	return job.ID().String(), nil
}

// RunNow runs every scheduled job immediately, outside its schedule.
func (s *Scheduler) RunNow() {
	for _, job := range s.scheduler.Jobs() {
		if err := job.RunNow(); err != nil {
			slog.Warn("Failed to run job", slog.String("job", job.Name()), logfields.Error(err))
		}
	}
}

// NextRun reports when the job with the given name fires next.
func (s *Scheduler) NextRun(name string) (time.Time, bool) {
	for _, job := range s.scheduler.Jobs() {
		if job.Name() != name {
			continue
		}
		next, err := job.NextRun()
		if err != nil {
			return time.Time{}, false
		}
		return next, true
	}
	return time.Time{}, false
}
