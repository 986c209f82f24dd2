package facets

import (
	"sort"
	"strconv"
	"strings"

	"roomdir/internal/directory"
)

// Option is one selectable value of a facet.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Set holds the options for every facet, as shown in the filter panel.
type Set struct {
	Buildings []Option `json:"buildings"`
	Floors    []Option `json:"floors"`
	Features  []Option `json:"features"`
}

func Build(snap directory.Snapshot) Set {
	return Set{
		Buildings: BuildingOptions(snap.Buildings),
		Floors:    FloorOptions(snap.Rooms),
		Features:  FeatureOptions(snap.Features),
	}
}

// BuildingOptions keeps catalog order.
func BuildingOptions(buildings []directory.Building) []Option {
	out := make([]Option, 0, len(buildings))
	for _, b := range buildings {
		if b.ID.IsZero() {
			continue
		}
		label := strings.TrimSpace(b.Name)
		if label == "" {
			label = b.ID.String()
		}
		out = append(out, Option{Value: b.ID.String(), Label: label})
	}
	return out
}

// FloorOptions returns the distinct floors present in rooms. Numeric floors
// come first in ascending order, then the rest lexically.
func FloorOptions(rooms []directory.Room) []Option {
	type floor struct {
		raw     string
		num     float64
		numeric bool
	}

	var floors []floor
	for _, r := range rooms {
		if r.Floor.IsZero() {
			continue
		}
		dup := false
		for _, f := range floors {
			if directory.LooseEqual(f.raw, r.Floor.String()) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		raw := strings.TrimSpace(r.Floor.String())
		n, err := strconv.ParseFloat(raw, 64)
		floors = append(floors, floor{raw: raw, num: n, numeric: err == nil})
	}

	sort.SliceStable(floors, func(i, j int) bool {
		a, b := floors[i], floors[j]
		switch {
		case a.numeric && b.numeric:
			return a.num < b.num
		case a.numeric:
			return true
		case b.numeric:
			return false
		default:
			return a.raw < b.raw
		}
	})

	out := make([]Option, 0, len(floors))
	for _, f := range floors {
		out = append(out, Option{Value: f.raw, Label: f.raw})
	}
	return out
}

// FeatureOptions drops catalog entries without a code, since rooms
// reference features by code only.
func FeatureOptions(features []directory.Feature) []Option {
	out := make([]Option, 0, len(features))
	seen := make(map[string]struct{}, len(features))
	for _, f := range features {
		code := NormalizeCode(f.Code)
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		label := strings.TrimSpace(f.Name)
		if label == "" {
			label = code
		}
		out = append(out, Option{Value: code, Label: label})
	}
	return out
}
