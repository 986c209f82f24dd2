package view

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewPage_ResolvesSkeleton(t *testing.T) {
	doc, err := NewPage(nil)
	if err != nil {
		t.Fatalf("new page: %v", err)
	}
	_, err = doc.Resolve(
		IDSearchInput, IDSuggestions, IDSearchPanel, IDToggleFilters, IDFiltersPanel,
		IDBuildingFilter, IDFloorFilter, IDFeatureFilters, IDListPanel, IDRoomList,
		IDFloorplanHolder, IDFloorplan, IDBackButton, IDDetailPanel, IDDetailName,
		IDDetailCapacity, IDDetailFeatures, IDDetailStatus,
	)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !IsHidden(doc.ByID(IDDetailPanel)) {
		t.Fatalf("expected detail panel to start hidden")
	}
	if doc.Floorplan() == nil {
		t.Fatalf("expected mounted floorplan")
	}
}

func TestResolve_ReportsMissing(t *testing.T) {
	doc, err := Parse(strings.NewReader(`<div id="a"></div>`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	_, err = doc.Resolve("a", "b")
	if err == nil || !strings.Contains(err.Error(), "#b") {
		t.Fatalf("expected missing #b, got %v", err)
	}
}

func TestMountFloorplan_AssignsReservedID(t *testing.T) {
	doc, err := NewPage([]byte(`<svg viewBox="0 0 10 10"><path d="M0 0"></path></svg>`))
	if err != nil {
		t.Fatalf("new page: %v", err)
	}
	svg := doc.ByID(IDFloorplan)
	if svg == nil || svg.Data != "svg" {
		t.Fatalf("expected svg with reserved id, got %+v", svg)
	}

	if _, err := NewPage([]byte(`<p>not a plan</p>`)); err == nil {
		t.Fatalf("expected error for markup without svg")
	}
}

func TestClasses(t *testing.T) {
	n := Element("li", "class", "room-item")
	SetClass(n, "hover", true)
	SetClass(n, "hover", true)
	if got, _ := Attr(n, "class"); got != "room-item hover" {
		t.Fatalf("unexpected class attr %q", got)
	}
	SetClass(n, "hover", false)
	if HasClass(n, "hover") || !HasClass(n, "room-item") {
		t.Fatalf("unexpected classes after removal")
	}
}

func TestEvents_BubblingAndStop(t *testing.T) {
	outer := Element("div")
	inner := Element("span")
	outer.AppendChild(inner)

	ev := NewEvents()
	var calls []string
	ev.On(outer, EventClick, func(e *Event) { calls = append(calls, "outer") })
	ev.On(inner, EventClick, func(e *Event) { calls = append(calls, "inner") })

	ev.Dispatch(inner, EventClick, "")
	if strings.Join(calls, ",") != "inner,outer" {
		t.Fatalf("expected bubbling, got %v", calls)
	}

	calls = nil
	ev.On(inner, EventClick, func(e *Event) {
		calls = append(calls, "inner")
		e.StopPropagation()
	})
	ev.Dispatch(inner, EventClick, "")
	if strings.Join(calls, ",") != "inner" {
		t.Fatalf("expected propagation to stop, got %v", calls)
	}

	calls = nil
	ev.On(outer, EventPointerEnter, func(e *Event) { calls = append(calls, "outer-enter") })
	if ev.Dispatch(inner, EventPointerEnter, "") {
		t.Fatalf("pointerenter must not bubble")
	}

	ev.Release(outer)
	if ev.Len() != 0 {
		t.Fatalf("expected release to drop handlers, %d left", ev.Len())
	}
}

func TestRenderSVG_AddsNamespace(t *testing.T) {
	svg := SVGElement("svg")
	svg.AppendChild(SVGElement("g", "id", "room-overlay"))
	var buf bytes.Buffer
	if err := RenderSVG(&buf, svg); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `xmlns="http://www.w3.org/2000/svg"`) || !strings.Contains(out, `id="room-overlay"`) {
		t.Fatalf("unexpected svg output: %s", out)
	}
}
