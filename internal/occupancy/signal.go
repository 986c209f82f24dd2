// Package occupancy decides how each room outline on the floor plan is
// highlighted. The decision is a pure function of a per-room occupancy
// signal; where the signal comes from is injected.
package occupancy

import (
	"math/rand"
	"sync"

	"roomdir/internal/directory"
)

// Fills used for room outlines.
const (
	FillDefault = "rgba(13, 110, 253, 0.25)"
	FillFlagged = "rgba(220, 53, 69, 0.45)"
)

// Fill is the highlight decision for one room.
func Fill(occupied bool) string {
	if occupied {
		return FillFlagged
	}
	return FillDefault
}

// Signal reports whether a room should be flagged as occupied.
type Signal interface {
	Occupied(r directory.Room) bool
}

// FieldSignal reads the occupied field the backend sends with each room.
// Rooms without the field count as free.
type FieldSignal struct{}

func (FieldSignal) Occupied(r directory.Room) bool {
	return r.Occupied != nil && *r.Occupied
}

// RandomSignal is a placeholder that flags each room independently with
// probability P. It stands in for a real feed in demos and carries no
// meaning.
type RandomSignal struct {
	P   float64
	mu  sync.Mutex
	rng *rand.Rand
}

// DefaultRandomP is the flag probability of the placeholder feed.
const DefaultRandomP = 0.2

func NewRandomSignal(seed int64, p float64) *RandomSignal {
	return &RandomSignal{P: p, rng: rand.New(rand.NewSource(seed))}
}

func (s *RandomSignal) Occupied(directory.Room) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64() < s.P
}

// Snapshot is a room id → occupied map, replaced wholesale on each refresh.
// Ids are keyed by directory.CanonicalKey so "01" and 1 name the same room.
type Snapshot struct {
	mu    sync.RWMutex
	state map[string]bool
}

func NewSnapshot() *Snapshot {
	return &Snapshot{state: map[string]bool{}}
}

// Replace swaps in a fresh reading.
func (s *Snapshot) Replace(state map[string]bool) {
	next := make(map[string]bool, len(state))
	for k, v := range state {
		next[directory.CanonicalKey(k)] = v
	}
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
}

func (s *Snapshot) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state)
}

// Occupied falls back to the room's own field when the feed has no reading
// for it.
func (s *Snapshot) Occupied(r directory.Room) bool {
	s.mu.RLock()
	v, ok := s.state[directory.CanonicalKey(r.ID.String())]
	s.mu.RUnlock()
	if ok {
		return v
	}
	return FieldSignal{}.Occupied(r)
}
