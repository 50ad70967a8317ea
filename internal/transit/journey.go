package transit

import (
	"strings"
	"time"

	"github.com/i474232898/commute-dashboard/internal/clock"
	"github.com/i474232898/commute-dashboard/internal/common"
	"github.com/i474232898/commute-dashboard/internal/locale"
)

// statusOnSchedule is the realtime status of a leg running to plan.
const statusOnSchedule = "MONITORED"

// transferSeparator joins transfer narrations.
const transferSeparator = " | "

// modePrefixes are stripped from transportation names ("Tunnelbana 17" -> "17").
var modePrefixes = []string{"Tunnelbana ", "Subway "}

type journey struct {
	Legs []leg `json:"legs"`
}

type leg struct {
	Origin struct {
		Name                 string `json:"name"`
		DepartureTimePlanned string `json:"departureTimePlanned"`
	} `json:"origin"`
	Destination struct {
		Name                 string `json:"name"`
		ArrivalTimePlanned   string `json:"arrivalTimePlanned"`
		ArrivalTimeEstimated string `json:"arrivalTimeEstimated"`
	} `json:"destination"`
	Transportation *struct {
		Name        string `json:"name"`
		Destination struct {
			Name string `json:"name"`
		} `json:"destination"`
	} `json:"transportation"`
	RealtimeStatus []string `json:"realtimeStatus"`
}

// parseJourney walks the legs of j. ok is false when the journey has no legs,
// no readable start time or no first-leg destination.
func parseJourney(j journey, origin string, now time.Time, l locale.Locale) (Departure, bool) {
	if len(j.Legs) == 0 {
		return Departure{}, false
	}

	var (
		d         Departure
		transfers []string
	)

	for i, lg := range j.Legs {
		if i == 0 {
			start, err := clock.MinutesUntil(lg.Origin.DepartureTimePlanned, now)
			if err != nil {
				return Departure{}, false
			}
			dest := cleanStationName(lg.Destination.Name)
			if dest == "" {
				return Departure{}, false
			}
			d.MinutesUntil = start
			d.DepartsAt = clock.ToInstant(lg.Origin.DepartureTimePlanned)
			d.RouteSummary = origin + " - " + dest
		}

		if i+1 < len(j.Legs) {
			if t := j.Legs[i+1].Transportation; t != nil && t.Name != "" {
				mode := common.TrimAnyPrefix(t.Name, modePrefixes...)
				transfers = append(transfers, l.Transfer(mode, t.Destination.Name))
			}
		}

		if len(lg.RealtimeStatus) > 0 && lg.RealtimeStatus[0] != statusOnSchedule {
			d.Delayed = true
		}

		if i == len(j.Legs)-1 {
			arrival := common.FirstNonEmpty(lg.Destination.ArrivalTimeEstimated, lg.Destination.ArrivalTimePlanned)
			if m, err := clock.MinutesUntil(arrival, now); err == nil {
				d.ArrivalMinutes = &m
			}
		}
	}

	d.TransferInfo = strings.Join(transfers, transferSeparator)
	return d, true
}

// cleanStationName drops the municipality suffix ("Kista, Stockholm" -> "Kista").
func cleanStationName(name string) string {
	return strings.TrimSpace(common.CutAt(name, ","))
}
