package directory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID is an upstream identifier. The backend emits ids as JSON numbers or
// strings depending on the table, so both decode into the same form.
type ID string

// Floor is a floor value, decoded the same way as ID.
type Floor string

// Capacity is a seat count. Backends send it as an integer, a float such
// as 30.0 or a string; all of them decode to the same text.
type Capacity string

// CapacityOf returns a pointer to the capacity n.
func CapacityOf(n int) *Capacity {
	c := Capacity(strconv.Itoa(n))
	return &c
}

func (c Capacity) String() string { return string(c) }

func (id *ID) UnmarshalJSON(b []byte) error {
	s, err := decodeLoose(b)
	if err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*id = ID(s)
	return nil
}

func (f *Floor) UnmarshalJSON(b []byte) error {
	s, err := decodeLoose(b)
	if err != nil {
		return fmt.Errorf("decode floor: %w", err)
	}
	*f = Floor(s)
	return nil
}

func (id ID) String() string { return string(id) }

func (id ID) IsZero() bool { return strings.TrimSpace(string(id)) == "" }

func (id ID) Equal(o ID) bool { return LooseEqual(string(id), string(o)) }

func (c *Capacity) UnmarshalJSON(b []byte) error {
	s, err := decodeLoose(b)
	if err != nil {
		return fmt.Errorf("decode capacity: %w", err)
	}
	*c = Capacity(s)
	return nil
}

// MarshalJSON writes numeric capacities as JSON numbers.
func (c Capacity) MarshalJSON() ([]byte, error) {
	s := strings.TrimSpace(string(c))
	if _, err := strconv.ParseFloat(s, 64); err == nil && json.Valid([]byte(s)) {
		return []byte(s), nil
	}
	return json.Marshal(string(c))
}

func (f Floor) String() string { return string(f) }

func (f Floor) IsZero() bool { return strings.TrimSpace(string(f)) == "" }

func (f Floor) Equal(o Floor) bool { return LooseEqual(string(f), string(o)) }

// LooseEqual compares two scalar values the way the browser widget did:
// numeric forms compare by value ("01" == "1" == "1.0"), anything else by
// exact (trimmed) text.
func LooseEqual(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == b {
		return true
	}
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA != nil || errB != nil {
		return false
	}
	return fa == fb
}

// CanonicalKey maps a scalar to the form LooseEqual treats as identical, so
// it can key a map: numbers print in shortest form, anything else is
// trimmed.
func CanonicalKey(s string) string {
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return s
}

func decodeLoose(b []byte) (string, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return "", nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	case 't', 'f':
		var v bool
		if err := json.Unmarshal(b, &v); err != nil {
			return "", err
		}
		return strconv.FormatBool(v), nil
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return "", err
		}
		f, err := n.Float64()
		if err != nil {
			return n.String(), nil
		}
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	}
}

// BuildingRef is the building summary embedded in a room record.
type BuildingRef struct {
	ID   ID     `json:"id"`
	Name string `json:"name,omitempty"`
}

type Building struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

type Feature struct {
	ID   ID     `json:"id,omitempty"`
	Code string `json:"code,omitempty"`
	Name string `json:"name,omitempty"`
}

// Room is one record from GET rooms or GET rooms/{id}. The detail endpoint
// returns a superset of the list fields; both decode into Room.
type Room struct {
	ID         ID           `json:"id"`
	Name       string       `json:"name,omitempty"`
	Floor      Floor        `json:"floor,omitempty"`
	Building   *BuildingRef `json:"building,omitempty"`
	BuildingID ID           `json:"building_id,omitempty"`
	Capacity   *Capacity    `json:"capacity,omitempty"`
	Features   []Feature    `json:"features,omitempty"`
	IsOpen     bool         `json:"is_open"`
	Path       string       `json:"path,omitempty"`
	Occupied   *bool        `json:"occupied,omitempty"`
}

// BuildingKey returns the owning building id from whichever field the
// backend populated.
func (r Room) BuildingKey() ID {
	if r.Building != nil && !r.Building.ID.IsZero() {
		return r.Building.ID
	}
	return r.BuildingID
}

// FeatureCodes returns the set of feature codes attached to the room.
func (r Room) FeatureCodes() map[string]struct{} {
	out := make(map[string]struct{}, len(r.Features))
	for _, f := range r.Features {
		code := strings.TrimSpace(f.Code)
		if code == "" {
			continue
		}
		out[code] = struct{}{}
	}
	return out
}

// Label is the text shown for a room in lists: name, then id, then the raw
// record.
func (r Room) Label() string {
	if name := strings.TrimSpace(r.Name); name != "" {
		return name
	}
	if !r.ID.IsZero() {
		return r.ID.String()
	}
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Sprintf("%+v", r)
	}
	return string(b)
}

// InputText is what the search box shows after a room is selected.
func (r Room) InputText() string {
	if name := strings.TrimSpace(r.Name); name != "" {
		return name
	}
	return r.ID.String()
}

// Snapshot is the read-only data set held for one session.
type Snapshot struct {
	Rooms     []Room
	Buildings []Building
	Features  []Feature
}

// Room looks up a room by id.
func (s Snapshot) Room(id ID) (Room, bool) {
	for _, r := range s.Rooms {
		if r.ID.Equal(id) {
			return r, true
		}
	}
	return Room{}, false
}
