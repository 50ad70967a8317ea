package clock

import (
	"fmt"
	"time"

	"github.com/i474232898/commute-dashboard/internal/locale"
)

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// System is the wall clock, always reported in UTC.
type System struct{}

func (System) Now() time.Time { return time.Now().UTC() }

// Fixed always returns the same instant. Used by tests and replays.
type Fixed time.Time

func (f Fixed) Now() time.Time { return time.Time(f).UTC() }

// Calendar formats instants for display in a fixed time zone and locale.
type Calendar struct {
	loc    *time.Location
	locale locale.Locale
}

// Snapshot is the clock read model served to the frontend.
type Snapshot struct {
	CurrentDate string `json:"current_date"`
	CurrentDay  string `json:"current_day"`
	CurrentTime string `json:"current_time"`
	WeekNumber  int    `json:"week_number"`
}

// NewCalendar builds a Calendar. A nil location means UTC.
func NewCalendar(loc *time.Location, l locale.Locale) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return &Calendar{loc: loc, locale: l}
}

// Date returns the local calendar date of now as YYYY-MM-DD.
func (c *Calendar) Date(now time.Time) string {
	return now.In(c.loc).Format(time.DateOnly)
}

// Snapshot reads date, weekday, time of day and ISO week for now.
func (c *Calendar) Snapshot(now time.Time) Snapshot {
	local := now.In(c.loc)
	_, week := local.ISOWeek()
	return Snapshot{
		CurrentDate: local.Format(time.DateOnly),
		CurrentDay:  c.locale.Weekdays[local.Weekday()],
		CurrentTime: fmt.Sprintf("%02d:%02d", local.Hour(), local.Minute()),
		WeekNumber:  week,
	}
}

// WeekdayFromDate names the weekday of a YYYY-MM-DD date, or the locale's
// unknown label when the date cannot be read.
func (c *Calendar) WeekdayFromDate(date string) string {
	d, err := time.ParseInLocation(time.DateOnly, date, c.loc)
	if err != nil {
		return c.locale.Unknown
	}
	return c.locale.Weekdays[d.Weekday()]
}
