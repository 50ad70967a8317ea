package transit

import (
	"maps"
	"slices"

	"github.com/i474232898/commute-dashboard/internal/apperr"
)

// Stations maps human station names to journey planner stop ids. It is
// copied on construction and never modified afterwards.
type Stations struct {
	ids map[string]string
}

// NewStations copies ids into an immutable station table.
func NewStations(ids map[string]string) Stations {
	return Stations{ids: maps.Clone(ids)}
}

// DefaultStations returns the stations served by the hallway dashboard.
func DefaultStations() Stations {
	return NewStations(map[string]string{
		"Huvudsta":           "9091001000009327",
		"Kista":              "9091001000009302",
		"T-Centralen":        "9091001000009001",
		"Tekniska Högskolan": "9091001000009204",
	})
}

// Resolve returns the stop id for name.
func (s Stations) Resolve(name string) (string, error) {
	id, ok := s.ids[name]
	if !ok {
		return "", &apperr.UnknownLocationError{Name: name}
	}
	return id, nil
}

// ResolvePair returns the stop ids of both ends of p.
func (s Stations) ResolvePair(p Pair) (fromID, toID string, err error) {
	if fromID, err = s.Resolve(p.From); err != nil {
		return "", "", err
	}
	if toID, err = s.Resolve(p.To); err != nil {
		return "", "", err
	}
	return fromID, toID, nil
}

// Names lists the known station names in sorted order.
func (s Stations) Names() []string {
	names := make([]string, 0, len(s.ids))
	for name := range s.ids {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
