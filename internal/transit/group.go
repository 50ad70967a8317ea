package transit

import (
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/i474232898/commute-dashboard/internal/apperr"
	"github.com/i474232898/commute-dashboard/internal/locale"
)

const feedName = "transit"

type tripsDocument struct {
	Journeys *[]json.RawMessage `json:"journeys"`
}

// board is an immutable snapshot published by Ingest.
type board struct {
	departures []Departure
	skipped    int
	updatedAt  time.Time
}

var emptyBoard = &board{}

// IngestResult reports how a document was consumed.
type IngestResult struct {
	Departures int
	Skipped    int
}

// Group aggregates the departures for one station pair. Ingest replaces the
// whole departure list with a single atomic swap; readers never block.
type Group struct {
	pair     Pair
	stations Stations
	locale   locale.Locale

	mu    sync.Mutex // serializes Ingest
	state atomic.Pointer[board]
}

// NewGroup creates an empty group. Unknown station names are only reported
// when the group is ingested.
func NewGroup(pair Pair, stations Stations, l locale.Locale) *Group {
	g := &Group{pair: pair, stations: stations, locale: l}
	g.state.Store(emptyBoard)
	return g
}

// Pair returns the station pair of the group.
func (g *Group) Pair() Pair { return g.pair }

// Name returns "<from> - <to>".
func (g *Group) Name() string { return g.pair.Name() }

// StationIDs resolves both ends of the pair against the station table.
func (g *Group) StationIDs() (fromID, toID string, err error) {
	return g.stations.ResolvePair(g.pair)
}

// Ingest rebuilds the departure list from a journey planner trips document.
// Journeys that cannot be read are skipped. An unknown station, a syntax
// error or a missing journeys key clears the list and returns the error.
func (g *Group) Ingest(raw []byte, now time.Time) (IngestResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, _, err := g.StationIDs(); err != nil {
		g.state.Store(emptyBoard)
		return IngestResult{}, fmt.Errorf("ingest %s: %w", g.Name(), err)
	}

	var doc tripsDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		g.state.Store(emptyBoard)
		return IngestResult{}, apperr.NewParseError(feedName, "invalid trips document", err)
	}
	if doc.Journeys == nil {
		g.state.Store(emptyBoard)
		return IngestResult{}, apperr.NewParseError(feedName, "missing journeys", nil)
	}

	next := &board{
		departures: make([]Departure, 0, len(*doc.Journeys)),
		updatedAt:  now,
	}
	for _, rawJourney := range *doc.Journeys {
		var j journey
		if err := json.Unmarshal(rawJourney, &j); err != nil {
			next.skipped++
			continue
		}
		d, ok := parseJourney(j, g.pair.From, now, g.locale)
		if !ok {
			next.skipped++
			continue
		}
		next.departures = append(next.departures, d)
	}

	g.state.Store(next)
	return IngestResult{Departures: len(next.departures), Skipped: next.skipped}, nil
}

// Reset drops every departure, as a failed document ingestion does.
func (g *Group) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state.Store(emptyBoard)
}

// Top returns the first n departures in feed order.
func (g *Group) Top(n int) []Departure {
	deps := g.state.Load().departures
	if n <= 0 || len(deps) == 0 {
		return []Departure{}
	}
	return slices.Clone(deps[:min(n, len(deps))])
}

// Display renders the first n departures as display lines.
func (g *Group) Display(n int) []string {
	top := g.Top(n)
	lines := make([]string, 0, len(top))
	for _, d := range top {
		lines = append(lines, d.Line(g.locale))
	}
	return lines
}

// Len returns the number of departures currently held.
func (g *Group) Len() int {
	return len(g.state.Load().departures)
}

// UpdatedAt returns the "now" of the last successful ingestion.
func (g *Group) UpdatedAt() time.Time {
	return g.state.Load().updatedAt
}
