package view

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element ids of the page skeleton.
const (
	IDSearchInput     = "room-search"
	IDSuggestions     = "suggestions"
	IDSearchPanel     = "search-panel"
	IDToggleFilters   = "toggle-filters"
	IDFiltersPanel    = "filters-panel"
	IDBuildingFilter  = "building-filter"
	IDFloorFilter     = "floor-filter"
	IDFeatureFilters  = "feature-filters"
	IDListPanel       = "list-panel"
	IDRoomList        = "room-list"
	IDFloorplanHolder = "floorplan-container"
	IDFloorplan       = "floorplan"
	IDBackButton      = "back-button"
	IDDetailPanel     = "detail-panel"
	IDDetailName      = "detail-name"
	IDDetailCapacity  = "detail-capacity"
	IDDetailFeatures  = "detail-features"
	IDDetailStatus    = "detail-status"
)

//go:embed assets/page.html
var pageTemplate []byte

//go:embed assets/floorplan.svg
var defaultFloorplan []byte

// DefaultFloorplan returns the built-in blank floor plan.
func DefaultFloorplan() []byte {
	return append([]byte(nil), defaultFloorplan...)
}

// Document is a parsed page plus the event handlers bound to its nodes.
type Document struct {
	Root   *html.Node
	Events *Events
}

func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &Document{Root: root, Events: NewEvents()}, nil
}

// NewPage parses the page skeleton and mounts floorplan (SVG markup) into it.
// A nil floorplan mounts the built-in blank plan.
func NewPage(floorplan []byte) (*Document, error) {
	doc, err := Parse(bytes.NewReader(pageTemplate))
	if err != nil {
		return nil, err
	}
	if floorplan == nil {
		floorplan = defaultFloorplan
	}
	if err := doc.MountFloorplan(floorplan); err != nil {
		return nil, err
	}
	return doc, nil
}

// MountFloorplan replaces the content of the floor-plan container with the
// given SVG markup. The svg root gets the reserved id if it has none.
func (d *Document) MountFloorplan(markup []byte) error {
	holder := d.ByID(IDFloorplanHolder)
	if holder == nil {
		return fmt.Errorf("mount floorplan: missing #%s", IDFloorplanHolder)
	}
	context := &html.Node{Type: html.ElementNode, Data: "section", DataAtom: atom.Section}
	nodes, err := html.ParseFragment(bytes.NewReader(markup), context)
	if err != nil {
		return fmt.Errorf("parse floorplan: %w", err)
	}

	var svg *html.Node
	for _, n := range nodes {
		if svg == nil {
			svg = firstSVG(n)
		}
	}
	if svg == nil {
		return fmt.Errorf("parse floorplan: no <svg> element found")
	}
	if svg.Parent != nil {
		svg.Parent.RemoveChild(svg)
	}
	if id, ok := Attr(svg, "id"); !ok || strings.TrimSpace(id) == "" {
		SetAttr(svg, "id", IDFloorplan)
	}

	d.Events.Release(holder)
	Clear(holder)
	holder.AppendChild(svg)
	return nil
}

func firstSVG(n *html.Node) *html.Node {
	var found *html.Node
	Walk(n, func(c *html.Node) bool {
		if c.Type == html.ElementNode && c.Data == "svg" {
			found = c
			return false
		}
		return true
	})
	return found
}

func (d *Document) ByID(id string) *html.Node {
	return FindByID(d.Root, id)
}

// Floorplan returns the mounted svg root.
func (d *Document) Floorplan() *html.Node {
	holder := d.ByID(IDFloorplanHolder)
	if holder == nil {
		return nil
	}
	return firstSVG(holder)
}

// Resolve looks up every id and fails listing the ones that are missing.
func (d *Document) Resolve(ids ...string) (map[string]*html.Node, error) {
	out := make(map[string]*html.Node, len(ids))
	var missing []string
	for _, id := range ids {
		n := d.ByID(id)
		if n == nil {
			missing = append(missing, "#"+id)
			continue
		}
		out[id] = n
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("document is missing %s", strings.Join(missing, ", "))
	}
	return out, nil
}

// Render writes the whole document.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.Root)
}

// RenderSVG writes svg as a standalone image document.
func RenderSVG(w io.Writer, svg *html.Node) error {
	if _, ok := Attr(svg, "xmlns"); !ok {
		SetAttr(svg, "xmlns", "http://www.w3.org/2000/svg")
	}
	if _, err := io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?>`+"\n"); err != nil {
		return err
	}
	return html.Render(w, svg)
}

// InputValue adapts an <input> element to a settable text field.
type InputValue struct {
	Node *html.Node
}

func (v InputValue) SetValue(text string) {
	SetAttr(v.Node, "value", text)
}

func (v InputValue) Value() string {
	s, _ := Attr(v.Node, "value")
	return s
}
