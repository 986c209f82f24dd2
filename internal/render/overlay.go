package render

import (
	"strings"

	"golang.org/x/net/html"

	"roomdir/internal/directory"
	"roomdir/internal/occupancy"
	"roomdir/internal/view"
)

const (
	OverlayGroupID = "room-overlay"
	ClassRoomShape = "room-shape"
	ClassHover     = "hover"
)

// Overlay draws one clickable outline per room on top of the floor plan.
type Overlay struct {
	svg      *html.Node
	events   *view.Events
	signal   occupancy.Signal
	navigate func(id directory.ID)
}

// NewOverlay draws into svg. A nil signal reads the rooms' own occupied
// field.
func NewOverlay(svg *html.Node, events *view.Events, signal occupancy.Signal, navigate func(id directory.ID)) *Overlay {
	if signal == nil {
		signal = occupancy.FieldSignal{}
	}
	return &Overlay{svg: svg, events: events, signal: signal, navigate: navigate}
}

// Render replaces any previous overlay group with a fresh one. Rooms
// without path data are skipped.
func (o *Overlay) Render(rooms []directory.Room) {
	for _, g := range view.FindAll(o.svg, isOverlayGroup) {
		o.events.Release(g)
		if g.Parent != nil {
			g.Parent.RemoveChild(g)
		}
	}

	group := view.SVGElement("g", "id", OverlayGroupID)
	for _, r := range rooms {
		d := strings.TrimSpace(r.Path)
		if d == "" {
			continue
		}
		id := r.ID
		path := view.SVGElement("path",
			"class", ClassRoomShape,
			"d", d,
			"data-room-id", id.String(),
			"data-room-name", r.Label(),
			"fill", occupancy.Fill(o.signal.Occupied(r)),
		)

		o.events.On(path, view.EventClick, func(ev *view.Event) {
			ev.StopPropagation()
			if o.navigate != nil {
				o.navigate(id)
			}
		})
		o.events.On(path, view.EventPointerEnter, func(ev *view.Event) {
			view.SetClass(path, ClassHover, true)
		})
		o.events.On(path, view.EventPointerLeave, func(ev *view.Event) {
			view.SetClass(path, ClassHover, false)
		})
		group.AppendChild(path)
	}
	o.svg.AppendChild(group)
}

// Group returns the current overlay group, if any.
func (o *Overlay) Group() *html.Node {
	groups := view.FindAll(o.svg, isOverlayGroup)
	if len(groups) == 0 {
		return nil
	}
	return groups[0]
}

func isOverlayGroup(n *html.Node) bool {
	id, ok := view.Attr(n, "id")
	return ok && id == OverlayGroupID
}
