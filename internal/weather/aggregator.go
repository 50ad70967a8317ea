package weather

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/i474232898/commute-dashboard/internal/apperr"
	"github.com/i474232898/commute-dashboard/internal/clock"
)

// forecast is an immutable snapshot published by Ingest.
type forecast struct {
	hourly    []HourlySample
	daily     []DailySummary
	updatedAt time.Time
}

var emptyForecast = &forecast{}

// Aggregator owns the hourly samples and daily summaries for one location.
// Ingest builds a complete new snapshot and swaps it in, so readers never
// block and never observe a half-built collection.
type Aggregator struct {
	clock clock.Clock

	mu    sync.Mutex // serializes Ingest
	state atomic.Pointer[forecast]
}

// NewAggregator creates an empty Aggregator. A nil clock means the system clock.
func NewAggregator(c clock.Clock) *Aggregator {
	if c == nil {
		c = clock.System{}
	}
	a := &Aggregator{clock: c}
	a.state.Store(emptyForecast)
	return a
}

// Ingest replaces the aggregator's state with the content of raw. On a
// document-level failure the state is cleared and the error returned.
func (a *Aggregator) Ingest(raw []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	hourly, err := ParseHourly(raw)
	if err != nil {
		a.state.Store(emptyForecast)
		return err
	}

	a.state.Store(&forecast{
		hourly:    hourly,
		daily:     RollupDays(hourly),
		updatedAt: a.clock.Now(),
	})
	return nil
}

// Hourly returns the hourly samples in feed order.
func (a *Aggregator) Hourly() []HourlySample {
	return slices.Clone(a.state.Load().hourly)
}

// Daily returns the daily summaries in ascending date order.
func (a *Aggregator) Daily() []DailySummary {
	return slices.Clone(a.state.Load().daily)
}

// UpdatedAt returns when the current snapshot was ingested (zero if never).
func (a *Aggregator) UpdatedAt() time.Time {
	return a.state.Load().updatedAt
}

// SummaryFor returns the summary whose date equals date exactly.
func (a *Aggregator) SummaryFor(date string) (DailySummary, error) {
	for _, d := range a.state.Load().daily {
		if d.Date == date {
			return d, nil
		}
	}
	return DailySummary{}, fmt.Errorf("daily summary for %q: %w", date, apperr.ErrNotFound)
}

// Forecast returns every daily summary except the one for excludeDate.
func (a *Aggregator) Forecast(excludeDate string) []DailySummary {
	days := a.state.Load().daily
	out := make([]DailySummary, 0, len(days))
	for _, d := range days {
		if d.Date != excludeDate {
			out = append(out, d)
		}
	}
	return out
}

// CurrentSample returns the first sample, in feed order, at or after now.
// The feed is trusted to be chronological.
func (a *Aggregator) CurrentSample(now time.Time) (HourlySample, error) {
	for _, h := range a.state.Load().hourly {
		if !h.Timestamp.Before(now) {
			return h, nil
		}
	}
	return HourlySample{}, fmt.Errorf("no sample at or after %s: %w", now.UTC().Format(time.RFC3339), apperr.ErrNotFound)
}

// TodaySummary describes the first hourly sample in one line.
func (a *Aggregator) TodaySummary() string {
	hourly := a.state.Load().hourly
	if len(hourly) == 0 {
		return "No forecast available."
	}
	first := hourly[0]
	return fmt.Sprintf("Temp: %v°C, Wind: %v m/s, Weather code: %d", first.Temperature, first.WindSpeed, first.Category)
}
