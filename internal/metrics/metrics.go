package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Ingest results.
const (
	ResultOK         = "ok"
	ResultFetchError = "fetch_error"
	ResultParseError = "parse_error"
	ResultError      = "error"
)

// Metrics groups the dashboard's Prometheus collectors.
type Metrics struct {
	IngestTotal   *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec
	Departures    *prometheus.GaugeVec
	WeatherDays   prometheus.Gauge
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		IngestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_ingest_total",
				Help: "Feed ingestions by feed and result.",
			},
			[]string{"feed", "result"},
		),
		FetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dashboard_fetch_duration_seconds",
				Help:    "Duration of upstream feed fetches.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"feed"},
		),
		Departures: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "dashboard_departures",
				Help: "Departures currently held per station pair.",
			},
			[]string{"pair"},
		),
		WeatherDays: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "dashboard_weather_days",
				Help: "Daily summaries currently held.",
			},
		),
	}

	reg.MustRegister(m.IngestTotal, m.FetchDuration, m.Departures, m.WeatherDays)
	return m
}

// ObserveIngest counts one ingestion attempt.
func (m *Metrics) ObserveIngest(feed, result string) {
	m.IngestTotal.WithLabelValues(feed, result).Inc()
}

// ObserveFetch records how long a fetch of feed took since start.
func (m *Metrics) ObserveFetch(feed string, start time.Time) {
	m.FetchDuration.WithLabelValues(feed).Observe(time.Since(start).Seconds())
}
