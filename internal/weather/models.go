package weather

import (
	"time"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// Location is the fixed point the forecast is requested for.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// HourlySample is one forecast step. Measurements missing from the feed stay 0.
type HourlySample struct {
	Timestamp   time.Time `json:"timestamp"` // always UTC
	Temperature float64   `json:"temperature"`
	WindSpeed   float64   `json:"wind_speed"`
	Category    int       `json:"weather_category"`
}

// Date returns the calendar-date bucket key of the sample.
func (h HourlySample) Date() string {
	return h.Timestamp.UTC().Format(time.DateOnly)
}

// DailySummary is the per-day rollup of hourly samples.
type DailySummary struct {
	Date             string  `json:"date"`
	MinTemperature   float64 `json:"min_temperature"`
	MaxTemperature   float64 `json:"max_temperature"`
	AvgWindSpeed     float64 `json:"avg_wind_speed"`
	DominantCategory int     `json:"dominant_weather_category"`
}

// CategoryCondition maps an SMHI Wsymb2 symbol code to a Condition.
func CategoryCondition(code int) Condition {
	switch {
	case code >= 1 && code <= 2:
		return ConditionClear
	case code >= 3 && code <= 6:
		return ConditionCloudy
	case code == 7:
		return ConditionMist
	case (code >= 8 && code <= 10) || (code >= 18 && code <= 20):
		return ConditionRain
	case code == 11 || code == 21:
		return ConditionStorm
	case (code >= 12 && code <= 17) || (code >= 22 && code <= 27):
		return ConditionSnow
	default:
		return ConditionUnknown
	}
}
