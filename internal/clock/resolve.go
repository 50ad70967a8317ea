package clock

import (
	"math"
	"time"

	"github.com/i474232898/commute-dashboard/internal/apperr"
)

// TimestampLayout is the only accepted timestamp grammar. A single trailing "Z"
// is tolerated; fractional seconds and numeric offsets are rejected.
const TimestampLayout = "2006-01-02T15:04:05"

// epoch is what ToInstant returns for timestamps it cannot read.
var epoch = time.Unix(0, 0).UTC()

// ParseTimestamp reads s as a UTC instant.
func ParseTimestamp(s string) (time.Time, error) {
	body := s
	if len(body) == len(TimestampLayout)+1 && body[len(body)-1] == 'Z' {
		body = body[:len(body)-1]
	}
	// time.Parse silently accepts fractional seconds, so length is checked first.
	if len(body) != len(TimestampLayout) {
		return time.Time{}, apperr.NewParseError("timestamp", "invalid timestamp "+quote(s), nil)
	}

	ts, err := time.ParseInLocation(TimestampLayout, body, time.UTC)
	if err != nil {
		return time.Time{}, apperr.NewParseError("timestamp", "invalid timestamp "+quote(s), err)
	}
	return ts, nil
}

// MinutesUntil returns the whole minutes from now until the timestamp, rounded
// down. Past timestamps give negative values.
func MinutesUntil(s string, now time.Time) (int, error) {
	ts, err := ParseTimestamp(s)
	if err != nil {
		return 0, err
	}
	return int(math.Floor(ts.Sub(now).Minutes())), nil
}

// ToInstant is ParseTimestamp for ordering: unreadable input yields the Unix
// epoch, which sorts first.
func ToInstant(s string) time.Time {
	ts, err := ParseTimestamp(s)
	if err != nil {
		return epoch
	}
	return ts
}

// IsEpoch reports whether t is the sentinel returned by ToInstant on failure.
func IsEpoch(t time.Time) bool {
	return t.Equal(epoch)
}

func quote(s string) string {
	return "\"" + s + "\""
}
