package render

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"roomdir/internal/directory"
	"roomdir/internal/facets"
	"roomdir/internal/filter"
	"roomdir/internal/view"
)

const ClassFeatureOption = "feature-option"

// FacetHandlers receive filter control changes.
type FacetHandlers struct {
	Building func(value string)
	Floor    func(value string)
	Feature  func(code string, on bool)
}

// Facets fills the building and floor selects and the feature checkboxes.
type Facets struct {
	building *html.Node
	floor    *html.Node
	features *html.Node
	events   *view.Events
	handlers FacetHandlers

	allBuildings string
	allFloors    string
}

func NewFacets(building, floor, features *html.Node, events *view.Events, h FacetHandlers) *Facets {
	f := &Facets{
		building:     building,
		floor:        floor,
		features:     features,
		events:       events,
		handlers:     h,
		allBuildings: placeholderLabel(building, "All buildings"),
		allFloors:    placeholderLabel(floor, "All floors"),
	}

	events.On(building, view.EventChange, func(ev *view.Event) {
		if f.handlers.Building != nil {
			f.handlers.Building(ev.Value)
		}
	})
	events.On(floor, view.EventChange, func(ev *view.Event) {
		if f.handlers.Floor != nil {
			f.handlers.Floor(ev.Value)
		}
	})
	return f
}

// placeholderLabel reads the text of the empty-valued option shipped with
// the page so re-rendering keeps it.
func placeholderLabel(sel *html.Node, fallback string) string {
	for _, opt := range view.Children(sel) {
		if v, _ := view.Attr(opt, "value"); v == "" {
			if s := strings.TrimSpace(view.TextContent(opt)); s != "" {
				return s
			}
		}
	}
	return fallback
}

// Render rebuilds every control from set and marks the values in c as
// selected.
func (f *Facets) Render(set facets.Set, c filter.Criteria) {
	fillSelect(f.building, f.allBuildings, set.Buildings, c.Building.String())
	fillSelect(f.floor, f.allFloors, set.Floors, c.Floor.String())
	f.renderFeatures(set.Features, c.Features)
}

func fillSelect(sel *html.Node, allLabel string, opts []facets.Option, selected string) {
	view.Clear(sel)
	all := view.Element("option", "value", "")
	all.AppendChild(view.Text(allLabel))
	sel.AppendChild(all)

	for _, o := range opts {
		opt := view.Element("option", "value", o.Value)
		if selected != "" && directory.LooseEqual(o.Value, selected) {
			view.SetAttr(opt, "selected", "")
		}
		opt.AppendChild(view.Text(o.Label))
		sel.AppendChild(opt)
	}
}

func (f *Facets) renderFeatures(opts []facets.Option, selected []string) {
	on := make(map[string]struct{}, len(selected))
	for _, code := range selected {
		on[code] = struct{}{}
	}

	// Keep the legend; everything else is ours.
	for _, c := range view.Children(f.features) {
		if c.Data == "legend" {
			continue
		}
		f.events.Release(c)
		f.features.RemoveChild(c)
	}

	for _, o := range opts {
		code := o.Value
		input := view.Element("input", "type", "checkbox", "name", "feature", "value", code)
		if _, ok := on[code]; ok {
			view.SetAttr(input, "checked", "")
		}
		label := view.Element("label", "class", ClassFeatureOption)
		label.AppendChild(input)
		label.AppendChild(view.Text(" " + o.Label))

		f.events.On(input, view.EventChange, func(ev *view.Event) {
			checked, err := strconv.ParseBool(ev.Value)
			if err != nil {
				_, was := view.Attr(input, "checked")
				checked = !was
			}
			if checked {
				view.SetAttr(input, "checked", "")
			} else {
				view.RemoveAttr(input, "checked")
			}
			if f.handlers.Feature != nil {
				f.handlers.Feature(code, checked)
			}
		})
		f.features.AppendChild(label)
	}
}
