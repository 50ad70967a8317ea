package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
)

// Refresher is the part of the board service the scheduler drives.
type Refresher interface {
	RefreshWeather(ctx context.Context) error
	RefreshDepartures(ctx context.Context) error
}

// Intervals configures how often each feed is refreshed.
type Intervals struct {
	Weather    time.Duration
	Departures time.Duration
	// Timeout bounds a single refresh run.
	Timeout time.Duration
}

// Scheduler periodically refreshes the weather and departure feeds.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   Refresher
	intervals Intervals
	log       *slog.Logger
}

// New creates a new Scheduler.
func New(service Refresher, intervals Intervals, log *slog.Logger) *Scheduler {
	if intervals.Timeout <= 0 {
		intervals.Timeout = 30 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		service:   service,
		intervals: intervals,
		log:       log,
	}
}

// Start schedules both jobs and starts the underlying scheduler. Each job
// runs once immediately, then at its interval.
func (s *Scheduler) Start() error {
	if s.intervals.Weather <= 0 || s.intervals.Departures <= 0 {
		return errors.New("scheduler: refresh intervals must be positive")
	}

	if _, err := s.scheduler.Every(s.intervals.Weather).Tag("weather").Do(s.run, "weather", s.service.RefreshWeather); err != nil {
		return err
	}
	if _, err := s.scheduler.Every(s.intervals.Departures).Tag("departures").Do(s.run, "departures", s.service.RefreshDepartures); err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunNow triggers both refreshes once, synchronously.
func (s *Scheduler) RunNow() {
	s.run("weather", s.service.RefreshWeather)
	s.run("departures", s.service.RefreshDepartures)
}

func (s *Scheduler) run(job string, refresh func(context.Context) error) {
	log := s.log.With("job", job, "run_id", uuid.NewString())
	start := time.Now()
	log.Debug("scheduler: running refresh job")

	ctx, cancel := context.WithTimeout(context.Background(), s.intervals.Timeout)
	defer cancel()

	if err := refresh(ctx); err != nil {
		log.Warn("scheduler: refresh failed", "error", err, "duration", time.Since(start))
		return
	}
	log.Info("scheduler: completed refresh job", "duration", time.Since(start))
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
