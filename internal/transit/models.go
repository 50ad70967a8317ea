package transit

import (
	"fmt"
	"strings"
	"time"

	"github.com/i474232898/commute-dashboard/internal/locale"
)

// Departure is one upcoming journey between a station pair, ready for display.
type Departure struct {
	// RouteSummary is "<origin> - <first leg destination>", even when the
	// journey continues past the first leg.
	RouteSummary string `json:"route_summary"`
	// MinutesUntil is negative when the journey has already left.
	MinutesUntil int `json:"minutes_until"`
	// ArrivalMinutes is nil when the last leg has no readable arrival time.
	ArrivalMinutes *int      `json:"arrival_minutes"`
	Delayed        bool      `json:"delayed"`
	TransferInfo   string    `json:"transfer_info"`
	DepartsAt      time.Time `json:"departs_at"`
}

// ArrivalKnown reports whether an arrival estimate exists.
func (d Departure) ArrivalKnown() bool {
	return d.ArrivalMinutes != nil
}

// Line renders the departure as a single display line.
func (d Departure) Line(l locale.Locale) string {
	var b strings.Builder
	b.WriteString(d.RouteSummary)

	if d.MinutesUntil >= 0 {
		b.WriteString(" | ")
		if d.MinutesUntil == 0 {
			b.WriteString(l.DepartsNow)
		} else {
			fmt.Fprintf(&b, l.DepartsIn, d.MinutesUntil)
		}
	}

	if d.ArrivalMinutes != nil && *d.ArrivalMinutes >= 0 {
		b.WriteString(" | ")
		fmt.Fprintf(&b, l.Arrival, *d.ArrivalMinutes)
	}

	if d.TransferInfo != "" {
		b.WriteString(" | ")
		b.WriteString(d.TransferInfo)
	}

	if d.Delayed {
		b.WriteString(" | ")
		b.WriteString(l.Delayed)
	}

	return b.String()
}

// Pair identifies the origin and destination stations of a departure group.
type Pair struct {
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`
}

// Key returns a canonical string key for indexing this pair in stores.
func (p Pair) Key() string {
	return p.From + ">" + p.To
}

// Name is the display name of the pair.
func (p Pair) Name() string {
	return p.From + " - " + p.To
}
