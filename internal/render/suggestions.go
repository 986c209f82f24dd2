package render

import (
	"strconv"

	"golang.org/x/net/html"

	"roomdir/internal/directory"
	"roomdir/internal/view"
)

const (
	ClassSuggestion = "suggestion-item"
	ClassActive     = "active"
)

// Suggestions draws the autocomplete panel.
type Suggestions struct {
	container *html.Node
	events    *view.Events
	pick      func(i int) bool
}

// NewSuggestions wires clicks on an item to pick with the item index.
func NewSuggestions(container *html.Node, events *view.Events, pick func(i int) bool) *Suggestions {
	return &Suggestions{container: container, events: events, pick: pick}
}

// Render shows items with the cursor entry marked active. The panel is
// hidden while the search is idle.
func (s *Suggestions) Render(items []directory.Room, cursor int, open bool) {
	s.events.Release(s.container)
	view.Clear(s.container)
	view.SetHidden(s.container, !open)
	if !open {
		return
	}

	for i, r := range items {
		idx := i
		li := view.Element("li",
			"class", ClassSuggestion,
			"data-index", strconv.Itoa(i),
			"data-room-id", r.ID.String(),
		)
		view.SetClass(li, ClassActive, i == cursor)
		li.AppendChild(view.Text(r.Label()))
		s.events.On(li, view.EventClick, func(ev *view.Event) {
			ev.StopPropagation()
			if s.pick != nil {
				s.pick(idx)
			}
		})
		s.container.AppendChild(li)
	}
}
