// Package render draws the room list, the suggestion panel, the filter
// controls and the floor-plan overlay into a view document. Every Render
// call rebuilds its subtree from scratch, so calling it twice with the same
// input leaves the same tree.
package render

import (
	"golang.org/x/net/html"

	"roomdir/internal/directory"
	"roomdir/internal/view"
)

const (
	ClassRoomItem = "room-item"
	ClassEmpty    = "empty"
	EmptyText     = "No rooms found"
)

// List renders rooms as entries of a container element.
type List struct {
	container *html.Node
	events    *view.Events
	navigate  func(id directory.ID)
}

func NewList(container *html.Node, events *view.Events, navigate func(id directory.ID)) *List {
	return &List{container: container, events: events, navigate: navigate}
}

// Render replaces the container content with one entry per room, or a
// single placeholder when rooms is empty.
func (l *List) Render(rooms []directory.Room) {
	l.events.Release(l.container)
	view.Clear(l.container)

	if len(rooms) == 0 {
		li := view.Element("li", "class", ClassEmpty)
		li.AppendChild(view.Text(EmptyText))
		l.container.AppendChild(li)
		return
	}

	for _, r := range rooms {
		id := r.ID
		li := view.Element("li", "class", ClassRoomItem, "data-room-id", id.String())
		li.AppendChild(view.Text(r.Label()))
		l.events.On(li, view.EventClick, func(ev *view.Event) {
			if l.navigate != nil {
				l.navigate(id)
			}
		})
		l.container.AppendChild(li)
	}
}

// Items returns the rendered entries, placeholder included.
func (l *List) Items() []*html.Node {
	return view.Children(l.container)
}
