// Package filter derives the visible room list from the snapshot and the
// current facet selection.
package filter

import (
	"strings"

	"roomdir/internal/directory"
	"roomdir/internal/facets"
)

// Criteria is the conjunction of four facets. Zero values are unset and
// match every room.
type Criteria struct {
	Building directory.ID    `json:"building,omitempty"`
	Floor    directory.Floor `json:"floor,omitempty"`
	Features []string        `json:"features,omitempty"`
	Query    string          `json:"query,omitempty"`
}

func (c Criteria) IsZero() bool {
	return c.Building.IsZero() &&
		c.Floor.IsZero() &&
		len(facets.NormalizeCodes(c.Features)) == 0 &&
		strings.TrimSpace(c.Query) == ""
}

// Apply returns the rooms that satisfy every predicate of c, in their
// original order. rooms is never modified.
func Apply(c Criteria, rooms []directory.Room) []directory.Room {
	if c.IsZero() {
		return rooms
	}

	codes := facets.NormalizeCodes(c.Features)
	query := loweredQuery(c.Query)

	out := make([]directory.Room, 0, len(rooms))
	for _, r := range rooms {
		if !matchesQuery(r, query) {
			continue
		}
		if !c.Building.IsZero() && !r.BuildingKey().Equal(c.Building) {
			continue
		}
		if !c.Floor.IsZero() && !r.Floor.Equal(c.Floor) {
			continue
		}
		if !hasAllFeatures(r, codes) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// MatchesQuery is the free-text predicate: a case-insensitive substring of
// the room name or id. Surrounding spaces are part of the query. An empty or
// whitespace-only query matches everything.
func MatchesQuery(r directory.Room, query string) bool {
	return matchesQuery(r, loweredQuery(query))
}

func loweredQuery(q string) string {
	if strings.TrimSpace(q) == "" {
		return ""
	}
	return strings.ToLower(q)
}

func matchesQuery(r directory.Room, lowered string) bool {
	if lowered == "" {
		return true
	}
	if strings.Contains(strings.ToLower(r.Name), lowered) {
		return true
	}
	return strings.Contains(strings.ToLower(r.ID.String()), lowered)
}

func hasAllFeatures(r directory.Room, codes []string) bool {
	if len(codes) == 0 {
		return true
	}
	have := r.FeatureCodes()
	for _, c := range codes {
		if _, ok := have[c]; !ok {
			return false
		}
	}
	return true
}
