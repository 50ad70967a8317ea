package weather

import (
	"encoding/json"

	"github.com/i474232898/commute-dashboard/internal/apperr"
	"github.com/i474232898/commute-dashboard/internal/clock"
)

const feedName = "weather"

// SMHI parameter names.
const (
	paramTemperature = "t"
	paramWindSpeed   = "ws"
	paramSymbol      = "Wsymb2"
)

type forecastDocument struct {
	TimeSeries *[]json.RawMessage `json:"timeSeries"`
}

type timeSeriesEntry struct {
	ValidTime  string            `json:"validTime"`
	Parameters []json.RawMessage `json:"parameters"`
}

type parameter struct {
	Name   string            `json:"name"`
	Values []json.RawMessage `json:"values"`
}

// ParseHourly reads the SMHI point forecast document into hourly samples in
// feed order. Only a syntax error or a missing timeSeries array fails the
// document; bad entries and parameters are skipped.
func ParseHourly(raw []byte) ([]HourlySample, error) {
	var doc forecastDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, apperr.NewParseError(feedName, "invalid forecast document", err)
	}
	if doc.TimeSeries == nil {
		return nil, apperr.NewParseError(feedName, "missing timeSeries", nil)
	}

	samples := make([]HourlySample, 0, len(*doc.TimeSeries))
	for _, entry := range *doc.TimeSeries {
		if s, ok := parseEntry(entry); ok {
			samples = append(samples, s)
		}
	}
	return samples, nil
}

// parseEntry rejects entries without a readable validTime.
func parseEntry(raw json.RawMessage) (HourlySample, bool) {
	var entry timeSeriesEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return HourlySample{}, false
	}

	ts, err := clock.ParseTimestamp(entry.ValidTime)
	if err != nil {
		return HourlySample{}, false
	}

	sample := HourlySample{Timestamp: ts}
	for _, rawParam := range entry.Parameters {
		var p parameter
		if err := json.Unmarshal(rawParam, &p); err != nil || len(p.Values) == 0 {
			continue
		}

		var v float64
		if err := json.Unmarshal(p.Values[0], &v); err != nil {
			continue
		}

		switch p.Name {
		case paramTemperature:
			sample.Temperature = v
		case paramWindSpeed:
			sample.WindSpeed = v
		case paramSymbol:
			sample.Category = int(v)
		}
	}
	return sample, true
}
