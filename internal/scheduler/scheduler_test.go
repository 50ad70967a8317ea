package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

type countingRefresher struct {
	weather    atomic.Int32
	departures atomic.Int32
	fail       bool
}

func (r *countingRefresher) RefreshWeather(ctx context.Context) error {
	r.weather.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("expected a deadline")
	}
	if r.fail {
		return errors.New("boom")
	}
	return nil
}

func (r *countingRefresher) RefreshDepartures(context.Context) error {
	r.departures.Add(1)
	if r.fail {
		return errors.New("boom")
	}
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStartRunsBothJobsImmediately(t *testing.T) {
	r := &countingRefresher{}
	s := New(r, Intervals{Weather: time.Hour, Departures: time.Hour}, quietLogger())
	if err := s.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if r.weather.Load() >= 1 && r.departures.Load() >= 1 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected initial runs, got weather=%d departures=%d", r.weather.Load(), r.departures.Load())
}

func TestStartRejectsInvalidIntervals(t *testing.T) {
	s := New(&countingRefresher{}, Intervals{Weather: time.Minute}, quietLogger())
	if err := s.Start(); err == nil {
		t.Fatalf("expected error for missing departures interval")
	}
}

func TestRunNowSurvivesFailures(t *testing.T) {
	r := &countingRefresher{fail: true}
	s := New(r, Intervals{Weather: time.Hour, Departures: time.Hour}, quietLogger())

	s.RunNow()
	s.RunNow()

	if r.weather.Load() != 2 || r.departures.Load() != 2 {
		t.Fatalf("expected two runs each, got weather=%d departures=%d", r.weather.Load(), r.departures.Load())
	}
}
