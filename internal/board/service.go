package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/i474232898/commute-dashboard/internal/apperr"
	"github.com/i474232898/commute-dashboard/internal/clock"
	"github.com/i474232898/commute-dashboard/internal/feeds"
	"github.com/i474232898/commute-dashboard/internal/locale"
	"github.com/i474232898/commute-dashboard/internal/metrics"
	"github.com/i474232898/commute-dashboard/internal/store"
	"github.com/i474232898/commute-dashboard/internal/transit"
	"github.com/i474232898/commute-dashboard/internal/weather"
)

// Fetcher retrieves a raw feed document.
type Fetcher interface {
	Fetch(ctx context.Context, feed, url string) ([]byte, error)
}

// Options configures a Service.
type Options struct {
	WeatherURL            string
	JourneyPlannerBaseURL string
	TripsPerQuery         int
	TopN                  int

	Routes   []transit.Pair
	Stations transit.Stations
	Locale   locale.Locale
	Timezone *time.Location
}

// Service runs fetch then ingest for the weather feed and every configured
// station pair, and answers the dashboard's read queries.
type Service struct {
	fetcher  Fetcher
	weather  *weather.Aggregator
	groups   *store.MemoryStore
	clock    clock.Clock
	calendar *clock.Calendar
	metrics  *metrics.Metrics
	log      *slog.Logger
	opts     Options
}

// NewService creates a Service and registers one departure group per route.
func NewService(fetcher Fetcher, groups *store.MemoryStore, c clock.Clock, m *metrics.Metrics, log *slog.Logger, opts Options) *Service {
	if c == nil {
		c = clock.System{}
	}
	if log == nil {
		log = slog.Default()
	}
	if opts.TopN <= 0 {
		opts.TopN = 5
	}
	if opts.TripsPerQuery <= 0 {
		opts.TripsPerQuery = 3
	}

	for _, pair := range opts.Routes {
		groups.Add(transit.NewGroup(pair, opts.Stations, opts.Locale))
	}

	return &Service{
		fetcher:  fetcher,
		weather:  weather.NewAggregator(c),
		groups:   groups,
		clock:    c,
		calendar: clock.NewCalendar(opts.Timezone, opts.Locale),
		metrics:  m,
		log:      log,
		opts:     opts,
	}
}

// RefreshWeather fetches the forecast and replaces the weather state. A
// failed fetch leaves the previous state in place.
func (s *Service) RefreshWeather(ctx context.Context) error {
	start := time.Now()
	raw, err := s.fetcher.Fetch(ctx, feeds.FeedWeather, s.opts.WeatherURL)
	s.metrics.ObserveFetch(feeds.FeedWeather, start)
	if err != nil {
		s.metrics.ObserveIngest(feeds.FeedWeather, metrics.ResultFetchError)
		s.log.Warn("weather fetch failed; keeping last forecast", "error", err)
		return fmt.Errorf("refresh weather: %w", err)
	}

	if err := s.weather.Ingest(raw); err != nil {
		s.metrics.ObserveIngest(feeds.FeedWeather, resultFor(err))
		s.metrics.WeatherDays.Set(0)
		s.log.Error("weather ingest failed; forecast cleared", "error", err)
		return fmt.Errorf("refresh weather: %w", err)
	}

	days := len(s.weather.Daily())
	s.metrics.ObserveIngest(feeds.FeedWeather, metrics.ResultOK)
	s.metrics.WeatherDays.Set(float64(days))
	s.log.Debug("weather refreshed", "hours", len(s.weather.Hourly()), "days", days)
	return nil
}

// RefreshDepartures refreshes every departure group concurrently. The
// returned error joins the failures of individual groups.
func (s *Service) RefreshDepartures(ctx context.Context) error {
	groups := s.groups.List()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, g := range groups {
		wg.Add(1)
		go func(g *transit.Group) {
			defer wg.Done()
			if err := s.refreshGroup(ctx, g); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(g)
	}
	wg.Wait()

	return errors.Join(errs...)
}

func (s *Service) refreshGroup(ctx context.Context, g *transit.Group) error {
	key := g.Pair().Key()

	fromID, toID, err := g.StationIDs()
	if err != nil {
		g.Reset()
		s.metrics.ObserveIngest(feeds.FeedTransit, metrics.ResultError)
		s.metrics.Departures.WithLabelValues(key).Set(0)
		s.log.Error("departure group has an unknown station", "pair", key, "error", err)
		return fmt.Errorf("refresh %s: %w", g.Name(), err)
	}

	start := time.Now()
	raw, err := s.fetcher.Fetch(ctx, feeds.FeedTransit, feeds.TripsURL(s.opts.JourneyPlannerBaseURL, fromID, toID, s.opts.TripsPerQuery))
	s.metrics.ObserveFetch(feeds.FeedTransit, start)
	if err != nil {
		s.metrics.ObserveIngest(feeds.FeedTransit, metrics.ResultFetchError)
		s.log.Warn("departures fetch failed; keeping last departures", "pair", key, "error", err)
		return fmt.Errorf("refresh %s: %w", g.Name(), err)
	}

	res, err := g.Ingest(raw, s.clock.Now())
	s.metrics.Departures.WithLabelValues(key).Set(float64(g.Len()))
	if err != nil {
		s.metrics.ObserveIngest(feeds.FeedTransit, resultFor(err))
		s.log.Error("departures ingest failed; departures cleared", "pair", key, "error", err)
		return fmt.Errorf("refresh %s: %w", g.Name(), err)
	}

	s.metrics.ObserveIngest(feeds.FeedTransit, metrics.ResultOK)
	s.log.Debug("departures refreshed", "pair", key, "departures", res.Departures, "skipped", res.Skipped)
	return nil
}

func resultFor(err error) string {
	switch {
	case errors.Is(err, apperr.ErrParse):
		return metrics.ResultParseError
	case errors.Is(err, apperr.ErrFetch):
		return metrics.ResultFetchError
	default:
		return metrics.ResultError
	}
}

// Weather returns the weather aggregator.
func (s *Service) Weather() *weather.Aggregator { return s.weather }

// Groups returns the departure groups in route order.
func (s *Service) Groups() []*transit.Group { return s.groups.List() }

// Group returns the departure group for a station pair.
func (s *Service) Group(from, to string) (*transit.Group, error) {
	return s.groups.Get(transit.Pair{From: from, To: to})
}

// Now reads the service clock.
func (s *Service) Now() time.Time { return s.clock.Now() }

// TopN is the number of departures shown per group.
func (s *Service) TopN() int { return s.opts.TopN }

// Clock returns the current calendar read model.
func (s *Service) Clock() clock.Snapshot {
	return s.calendar.Snapshot(s.clock.Now())
}

// Weekday names the weekday of a YYYY-MM-DD date in the configured locale.
func (s *Service) Weekday(date string) string {
	return s.calendar.WeekdayFromDate(date)
}

// WeatherView is the dashboard's weather panel.
type WeatherView struct {
	Today    *weather.DailySummary  `json:"today,omitempty"`
	Forecast []weather.DailySummary `json:"forecast"`
}

// WeatherBoard returns today's summary, if any, and the other days.
func (s *Service) WeatherBoard() WeatherView {
	today := s.calendar.Date(s.clock.Now())
	view := WeatherView{Forecast: s.weather.Forecast(today)}
	if d, err := s.weather.SummaryFor(today); err == nil {
		view.Today = &d
	}
	return view
}

// DepartureBoard is one group's display lines.
type DepartureBoard struct {
	Name       string   `json:"name"`
	Departures []string `json:"departures"`
}

// DepartureBoards renders the top departures of every group.
func (s *Service) DepartureBoards() []DepartureBoard {
	groups := s.groups.List()
	boards := make([]DepartureBoard, 0, len(groups))
	for _, g := range groups {
		boards = append(boards, DepartureBoard{Name: g.Name(), Departures: g.Display(s.opts.TopN)})
	}
	return boards
}
