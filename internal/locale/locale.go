package locale

import (
	"fmt"
	"strings"
)

// Locale holds the display strings used by the dashboard.
type Locale struct {
	Code string

	// Weekdays is indexed by time.Weekday (Sunday first).
	Weekdays [7]string
	Unknown  string

	TransferTo   string // "Transfer to %s"
	TransferDest string // " towards %s"
	DepartsNow   string
	DepartsIn    string // "Departs in %d min"
	Arrival      string // "Arrival %d min"
	Delayed      string
}

var (
	Swedish = Locale{
		Code:         "sv",
		Weekdays:     [7]string{"Söndag", "Måndag", "Tisdag", "Onsdag", "Torsdag", "Fredag", "Lördag"},
		Unknown:      "Unknown",
		TransferTo:   "Byt till %s",
		TransferDest: " mot %s",
		DepartsNow:   "Avgår nu",
		DepartsIn:    "Avgår om %d min",
		Arrival:      "Ankomsttid %d min",
		Delayed:      "Delayed",
	}

	English = Locale{
		Code:         "en",
		Weekdays:     [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
		Unknown:      "Unknown",
		TransferTo:   "Transfer to %s",
		TransferDest: " towards %s",
		DepartsNow:   "Departs now",
		DepartsIn:    "Departs in %d min",
		Arrival:      "Arrival %d min",
		Delayed:      "Delayed",
	}
)

// Lookup returns the locale for a code such as "sv" or "en".
func Lookup(code string) (Locale, error) {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "sv", "sv-se":
		return Swedish, nil
	case "en", "en-us", "en-gb":
		return English, nil
	default:
		return Locale{}, fmt.Errorf("unsupported locale %q (allowed: sv, en)", code)
	}
}

// Transfer renders a transfer narration. dest may be empty.
func (l Locale) Transfer(mode, dest string) string {
	s := fmt.Sprintf(l.TransferTo, mode)
	if dest != "" {
		s += fmt.Sprintf(l.TransferDest, dest)
	}
	return s
}
