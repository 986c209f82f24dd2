// Package search implements the incremental autocomplete over the room
// snapshot: typing produces up to MaxSuggestions matches, arrow keys move a
// clamped cursor and Enter or a click selects.
package search

import (
	"strings"

	"roomdir/internal/directory"
	"roomdir/internal/filter"
)

const (
	MaxSuggestions = 6
	NoCursor       = -1
)

// Key is a keyboard event the controller reacts to.
type Key string

const (
	KeyDown   Key = "down"
	KeyUp     Key = "up"
	KeyEnter  Key = "enter"
	KeyEscape Key = "escape"
)

// ParseKey maps user-facing key names to a Key.
func ParseKey(s string) (Key, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "down", "arrowdown":
		return KeyDown, true
	case "up", "arrowup":
		return KeyUp, true
	case "enter", "return":
		return KeyEnter, true
	case "esc", "escape":
		return KeyEscape, true
	default:
		return "", false
	}
}

// Input is the text field the controller writes the chosen room into.
type Input interface {
	SetValue(text string)
}

// Controller is the autocomplete state machine for one input field.
type Controller struct {
	rooms       []directory.Room
	input       Input
	navigate    func(id directory.ID)
	onChange    func()
	query       string
	suggestions []directory.Room
	cursor      int
	open        bool
}

// New builds a controller over rooms. navigate is invoked with the id of a
// selected room; input may be nil.
func New(rooms []directory.Room, input Input, navigate func(id directory.ID)) *Controller {
	return &Controller{
		rooms:    rooms,
		input:    input,
		navigate: navigate,
		cursor:   NoCursor,
	}
}

// OnChange registers a callback run after every state transition.
func (c *Controller) OnChange(fn func()) {
	c.onChange = fn
}

// SetRooms replaces the snapshot the suggestions are drawn from and resets
// to idle.
func (c *Controller) SetRooms(rooms []directory.Room) {
	c.rooms = rooms
	c.reset()
}

func (c *Controller) Query() string { return c.query }

func (c *Controller) Cursor() int { return c.cursor }

// Suggestions returns a copy of the current suggestion list.
func (c *Controller) Suggestions() []directory.Room {
	out := make([]directory.Room, len(c.suggestions))
	copy(out, c.suggestions)
	return out
}

// Active reports whether the suggestion panel is open. A non-empty query
// with zero matches still counts as open.
func (c *Controller) Active() bool {
	return c.open
}

// Type handles a change of the input text.
func (c *Controller) Type(query string) {
	c.query = query
	c.cursor = NoCursor
	c.open = strings.TrimSpace(query) != ""
	c.suggestions = Suggest(c.rooms, query, MaxSuggestions)
	c.changed()
}

// Key handles one keyboard event. It reports whether the key was consumed.
func (c *Controller) Key(k Key) bool {
	switch k {
	case KeyDown:
		return c.move(1)
	case KeyUp:
		return c.move(-1)
	case KeyEnter:
		if len(c.suggestions) == 0 {
			return false
		}
		idx := c.cursor
		if idx == NoCursor {
			idx = 0
		}
		return c.Pick(idx)
	case KeyEscape:
		c.reset()
		return true
	default:
		return false
	}
}

// Pick selects the suggestion at index i, as a pointer click would.
func (c *Controller) Pick(i int) bool {
	if i < 0 || i >= len(c.suggestions) {
		return false
	}
	room := c.suggestions[i]
	if c.input != nil {
		c.input.SetValue(room.InputText())
	}
	c.query = room.InputText()
	c.suggestions = nil
	c.cursor = NoCursor
	c.open = false
	c.changed()
	if c.navigate != nil {
		c.navigate(room.ID)
	}
	return true
}

// Blur handles a pointer interaction outside the input and the panel.
func (c *Controller) Blur() {
	c.reset()
}

func (c *Controller) move(delta int) bool {
	n := len(c.suggestions)
	if n == 0 {
		return false
	}
	next := c.cursor + delta
	if next < 0 {
		next = 0
	}
	if next > n-1 {
		next = n - 1
	}
	c.cursor = next
	c.changed()
	return true
}

func (c *Controller) reset() {
	c.suggestions = nil
	c.cursor = NoCursor
	c.open = false
	c.changed()
}

func (c *Controller) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}

// Suggest returns at most limit rooms matching query by name or id, in
// snapshot order. An empty query yields no suggestions.
func Suggest(rooms []directory.Room, query string, limit int) []directory.Room {
	if strings.TrimSpace(query) == "" || limit <= 0 {
		return nil
	}
	out := make([]directory.Room, 0, limit)
	for _, r := range rooms {
		if !filter.MatchesQuery(r, query) {
			continue
		}
		out = append(out, r)
		if len(out) == limit {
			break
		}
	}
	return out
}
