package weather

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/i474232898/commute-dashboard/internal/apperr"
	"github.com/i474232898/commute-dashboard/internal/clock"
)

// entry renders one SMHI timeSeries element.
func entry(validTime string, temp, wind float64, code int) string {
	return fmt.Sprintf(`{"validTime":%q,"parameters":[
		{"name":"t","levelType":"hl","values":[%v]},
		{"name":"ws","values":[%v]},
		{"name":"Wsymb2","values":[%d]}]}`, validTime, temp, wind, code)
}

func document(entries ...string) []byte {
	return []byte(`{"approvedTime":"2025-12-20T10:00:00Z","timeSeries":[` + strings.Join(entries, ",") + `]}`)
}

func newTestAggregator() *Aggregator {
	return NewAggregator(clock.Fixed(time.Date(2025, 12, 20, 10, 0, 0, 0, time.UTC)))
}

func TestIngestBuildsHourlyAndDaily(t *testing.T) {
	agg := newTestAggregator()

	raw := document(
		entry("2025-12-20T11:00:00Z", 1.5, 4, 3),
		entry("2025-12-20T12:00:00Z", -0.5, 6, 3),
		entry("2025-12-21T00:00:00Z", 2.0, 1, 18),
		entry("2025-12-20T13:00:00Z", 3.0, 2, 6),
	)
	if err := agg.Ingest(raw); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	hourly := agg.Hourly()
	if len(hourly) != 4 {
		t.Fatalf("expected 4 samples, got %d", len(hourly))
	}
	// Feed order is preserved.
	if hourly[2].Date() != "2025-12-21" {
		t.Fatalf("expected third sample to be 2025-12-21, got %s", hourly[2].Date())
	}

	daily := agg.Daily()
	if len(daily) != 2 {
		t.Fatalf("expected 2 days, got %d", len(daily))
	}
	if daily[0].Date != "2025-12-20" || daily[1].Date != "2025-12-21" {
		t.Fatalf("days not in ascending order: %+v", daily)
	}

	d := daily[0]
	if d.MinTemperature != -0.5 || d.MaxTemperature != 3.0 {
		t.Fatalf("unexpected min/max: %+v", d)
	}
	if math.Abs(d.AvgWindSpeed-4) > 1e-9 {
		t.Fatalf("expected avg wind 4, got %v", d.AvgWindSpeed)
	}
	if d.DominantCategory != 3 {
		t.Fatalf("expected dominant category 3, got %d", d.DominantCategory)
	}
	if agg.UpdatedAt().IsZero() {
		t.Fatalf("expected UpdatedAt to be set")
	}
}

func TestDominantCategoryTieBreak(t *testing.T) {
	agg := newTestAggregator()

	// Codes [5,2,5,2]: the tie goes to the smaller code regardless of feed order.
	raw := document(
		entry("2025-12-20T00:00:00Z", 0, 0, 5),
		entry("2025-12-20T01:00:00Z", 0, 0, 2),
		entry("2025-12-20T02:00:00Z", 0, 0, 5),
		entry("2025-12-20T03:00:00Z", 0, 0, 2),
	)
	if err := agg.Ingest(raw); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	day, err := agg.SummaryFor("2025-12-20")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if day.DominantCategory != 2 {
		t.Fatalf("expected category 2, got %d", day.DominantCategory)
	}
}

func TestRollupInvariants(t *testing.T) {
	samples := make([]HourlySample, 0)
	base := time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC)
	winds := map[string][]float64{}
	for i := 0; i < 72; i++ {
		ts := base.Add(time.Duration(i) * time.Hour)
		s := HourlySample{
			Timestamp:   ts,
			Temperature: math.Sin(float64(i)) * 10,
			WindSpeed:   float64(i%7) + 0.3,
			Category:    i%4 + 1,
		}
		samples = append(samples, s)
		winds[s.Date()] = append(winds[s.Date()], s.WindSpeed)
	}

	days := RollupDays(samples)
	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}
	for _, d := range days {
		if d.MinTemperature > d.MaxTemperature {
			t.Errorf("%s: min %v > max %v", d.Date, d.MinTemperature, d.MaxTemperature)
		}
		var sum float64
		for _, w := range winds[d.Date] {
			sum += w
		}
		want := sum / float64(len(winds[d.Date]))
		if math.Abs(d.AvgWindSpeed-want) > 1e-9 {
			t.Errorf("%s: avg wind %v; want %v", d.Date, d.AvgWindSpeed, want)
		}
	}
}

func TestIngestMissingMeasurementsDefaultToZero(t *testing.T) {
	agg := newTestAggregator()

	raw := []byte(`{"timeSeries":[
		{"validTime":"2025-12-20T11:00:00Z","parameters":[{"name":"t","values":[4.5]}]},
		{"validTime":"2025-12-20T12:00:00Z","parameters":[
			{"name":"ws","values":[]},
			{"name":"Wsymb2","values":["seven"]},
			{"name":"ws"},
			{"name":42,"values":[1]},
			{"name":"t","values":[2.0]}]}
	]}`)
	if err := agg.Ingest(raw); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	hourly := agg.Hourly()
	if len(hourly) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(hourly))
	}
	if hourly[0].Temperature != 4.5 || hourly[0].WindSpeed != 0 || hourly[0].Category != 0 {
		t.Fatalf("unexpected first sample: %+v", hourly[0])
	}
	if hourly[1].Temperature != 2.0 || hourly[1].Category != 0 {
		t.Fatalf("unexpected second sample: %+v", hourly[1])
	}
}

func TestIngestSkipsEntriesWithoutTimestamp(t *testing.T) {
	agg := newTestAggregator()

	raw := document(
		entry("", 10, 10, 1),
		entry("2025-12-20T11:00:00.500Z", 10, 10, 1),
		`{"parameters":[{"name":"t","values":[1]}]}`,
		`"not an object"`,
		entry("2025-12-20T11:00:00Z", 1, 1, 1),
	)
	if err := agg.Ingest(raw); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n := len(agg.Hourly()); n != 1 {
		t.Fatalf("expected 1 sample, got %d", n)
	}
	for _, d := range agg.Daily() {
		if d.Date == "" {
			t.Fatalf("no day bucket should be keyed by an empty date")
		}
	}
}

func TestIngestDocumentFailuresClearState(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"syntax error", `{"timeSeries":[`},
		{"missing timeSeries", `{"approvedTime":"2025-12-20T10:00:00Z"}`},
		{"null timeSeries", `{"timeSeries":null}`},
		{"timeSeries not an array", `{"timeSeries":{}}`},
		{"not an object", `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := newTestAggregator()
			if err := agg.Ingest(document(entry("2025-12-20T11:00:00Z", 1, 1, 1))); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			err := agg.Ingest([]byte(tt.raw))
			if !errors.Is(err, apperr.ErrParse) {
				t.Fatalf("expected ErrParse, got %v", err)
			}
			if len(agg.Hourly()) != 0 || len(agg.Daily()) != 0 {
				t.Fatalf("expected state to be cleared")
			}
		})
	}
}

func TestIngestEmptyTimeSeries(t *testing.T) {
	agg := newTestAggregator()
	if err := agg.Ingest([]byte(`{"timeSeries":[]}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(agg.Daily()) != 0 {
		t.Fatalf("expected no days")
	}
	if got := agg.TodaySummary(); got != "No forecast available." {
		t.Fatalf("unexpected summary %q", got)
	}
}

func TestReingestReplacesState(t *testing.T) {
	agg := newTestAggregator()

	if err := agg.Ingest(document(entry("2025-12-20T11:00:00Z", 1, 1, 1))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := agg.Ingest(document(entry("2025-12-22T11:00:00Z", 5, 5, 5))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := agg.SummaryFor("2025-12-20"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected old day to be gone, got %v", err)
	}
	if _, err := agg.SummaryFor("2025-12-22"); err != nil {
		t.Fatalf("expected new day, got %v", err)
	}
}

func TestCurrentSample(t *testing.T) {
	agg := newTestAggregator()
	if err := agg.Ingest(document(
		entry("2025-12-20T10:00:00Z", 1, 1, 1),
		entry("2025-12-20T11:00:00Z", 2, 2, 2),
		entry("2025-12-20T12:00:00Z", 3, 3, 3),
	)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		now  time.Time
		want float64
	}{
		{time.Date(2025, 12, 20, 9, 0, 0, 0, time.UTC), 1},
		{time.Date(2025, 12, 20, 11, 0, 0, 0, time.UTC), 2},
		{time.Date(2025, 12, 20, 11, 0, 1, 0, time.UTC), 3},
	}
	for _, tt := range tests {
		got, err := agg.CurrentSample(tt.now)
		if err != nil {
			t.Fatalf("unexpected error at %v: %v", tt.now, err)
		}
		if got.Temperature != tt.want {
			t.Errorf("CurrentSample(%v) temp = %v; want %v", tt.now, got.Temperature, tt.want)
		}
	}

	if _, err := agg.CurrentSample(time.Date(2025, 12, 21, 0, 0, 0, 0, time.UTC)); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound past the last sample, got %v", err)
	}
}

func TestForecastAndTodaySummary(t *testing.T) {
	agg := newTestAggregator()
	if err := agg.Ingest(document(
		entry("2025-12-20T10:00:00Z", 1.5, 3.2, 4),
		entry("2025-12-21T10:00:00Z", 2, 2, 2),
		entry("2025-12-22T10:00:00Z", 3, 3, 3),
	)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	days := agg.Forecast("2025-12-20")
	if len(days) != 2 || days[0].Date != "2025-12-21" {
		t.Fatalf("unexpected forecast: %+v", days)
	}

	want := "Temp: 1.5°C, Wind: 3.2 m/s, Weather code: 4"
	if got := agg.TodaySummary(); got != want {
		t.Fatalf("TodaySummary = %q; want %q", got, want)
	}
}

func TestQueriesReturnCopies(t *testing.T) {
	agg := newTestAggregator()
	if err := agg.Ingest(document(entry("2025-12-20T10:00:00Z", 1, 1, 1))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	daily := agg.Daily()
	daily[0].MaxTemperature = 99

	if d, _ := agg.SummaryFor("2025-12-20"); d.MaxTemperature == 99 {
		t.Fatalf("mutating a query result must not change aggregator state")
	}
}

func TestCategoryCondition(t *testing.T) {
	tests := map[int]Condition{
		0:  ConditionUnknown,
		1:  ConditionClear,
		5:  ConditionCloudy,
		7:  ConditionMist,
		19: ConditionRain,
		21: ConditionStorm,
		26: ConditionSnow,
		99: ConditionUnknown,
	}
	for code, want := range tests {
		if got := CategoryCondition(code); got != want {
			t.Errorf("CategoryCondition(%d) = %s; want %s", code, got, want)
		}
	}
}
