package config

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/i474232898/commute-dashboard/internal/feeds"
	"github.com/i474232898/commute-dashboard/internal/locale"
	"github.com/i474232898/commute-dashboard/internal/transit"
	"github.com/i474232898/commute-dashboard/internal/weather"
)

const (
	defaultStations = "Huvudsta=9091001000009327,Kista=9091001000009302," +
		"T-Centralen=9091001000009001,Tekniska Högskolan=9091001000009204"
	defaultRoutes = "Huvudsta>T-Centralen,Huvudsta>Kista,Huvudsta>Tekniska Högskolan"
)

var validate = validator.New()

type AppConfig struct {
	Port     string     `validate:"required,numeric"`
	AppEnv   string     `validate:"oneof=dev prod test"`
	LogLevel slog.Level `validate:"-"`

	HTTPTimeout time.Duration `validate:"gt=0"`

	// Weather pipeline.
	WeatherLat      float64       `validate:"gte=-90,lte=90"`
	WeatherLon      float64       `validate:"gte=-180,lte=180"`
	WeatherInterval time.Duration `validate:"gt=0"`
	SMHIBaseURL     string        `validate:"required,url"`

	// Departure pipeline.
	DeparturesInterval    time.Duration `validate:"gt=0"`
	JourneyPlannerBaseURL string        `validate:"required,url"`
	TripsPerQuery         int           `validate:"min=1,max=10"`
	DeparturesTopN        int           `validate:"min=1"`

	// Stations maps display names to journey planner stop ids.
	Stations map[string]string `validate:"required,min=1,dive,keys,required,endkeys,required,numeric"`
	Routes   []transit.Pair    `validate:"required,min=1,dive"`

	Locale    locale.Locale  `validate:"-"`
	Timezone  *time.Location `validate:"required"`
	StaticDir string
}

// WeatherLocation is the point the forecast is requested for.
func (c *AppConfig) WeatherLocation() weather.Location {
	return weather.Location{Lat: c.WeatherLat, Lon: c.WeatherLon}
}

// StationTable returns the immutable station table built from Stations.
func (c *AppConfig) StationTable() transit.Stations {
	return transit.NewStations(c.Stations)
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}
	var err error

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.AppEnv = getenvDefault("APP_ENV", "dev")
	cfg.StaticDir = getenvDefault("STATIC_DIR", "frontend")

	if cfg.LogLevel, err = parseLogLevel(getenvDefault("LOG_LEVEL", "info")); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	if cfg.WeatherLat, err = getenvFloat("WEATHER_LAT", 59.34297); err != nil {
		return nil, err
	}
	if cfg.WeatherLon, err = getenvFloat("WEATHER_LON", 17.98466); err != nil {
		return nil, err
	}
	if cfg.WeatherInterval, err = getenvDuration("WEATHER_INTERVAL", 15*time.Minute); err != nil {
		return nil, err
	}
	cfg.SMHIBaseURL = getenvDefault("SMHI_BASE_URL", feeds.DefaultSMHIBaseURL)

	if cfg.DeparturesInterval, err = getenvDuration("DEPARTURES_INTERVAL", 30*time.Second); err != nil {
		return nil, err
	}
	cfg.JourneyPlannerBaseURL = getenvDefault("JOURNEY_PLANNER_BASE_URL", feeds.DefaultJourneyPlannerBaseURL)
	if cfg.TripsPerQuery, err = getenvInt("TRIPS_PER_QUERY", 3); err != nil {
		return nil, err
	}
	if cfg.DeparturesTopN, err = getenvInt("DEPARTURES_TOP_N", 5); err != nil {
		return nil, err
	}

	if cfg.Stations, err = parseStations(getenvDefault("STATIONS", defaultStations)); err != nil {
		return nil, err
	}
	if cfg.Routes, err = parseRoutes(getenvDefault("ROUTES", defaultRoutes)); err != nil {
		return nil, err
	}

	if cfg.Locale, err = locale.Lookup(getenvDefault("LOCALE", "sv")); err != nil {
		return nil, fmt.Errorf("invalid LOCALE: %w", err)
	}
	if cfg.Timezone, err = time.LoadLocation(getenvDefault("TIMEZONE", "Europe/Stockholm")); err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// parseStations reads "Name=id,Name=id".
func parseStations(s string) (map[string]string, error) {
	stations := make(map[string]string)
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, id, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("invalid STATIONS entry %q: expected Name=id", entry)
		}
		stations[strings.TrimSpace(name)] = strings.TrimSpace(id)
	}
	return stations, nil
}

// parseRoutes reads "From>To,From>To". Order is kept.
func parseRoutes(s string) ([]transit.Pair, error) {
	var routes []transit.Pair
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		from, to, ok := strings.Cut(entry, ">")
		if !ok {
			return nil, fmt.Errorf("invalid ROUTES entry %q: expected From>To", entry)
		}
		routes = append(routes, transit.Pair{From: strings.TrimSpace(from), To: strings.TrimSpace(to)})
	}
	return routes, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return level, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
