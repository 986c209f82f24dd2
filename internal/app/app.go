// Package app wires the loader, filter, search, renderers and detail view
// into one controller per session. Every event is handled synchronously
// under the session lock and redraws what it affects before returning.
package app

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"roomdir/internal/detail"
	"roomdir/internal/directory"
	"roomdir/internal/facets"
	"roomdir/internal/filter"
	"roomdir/internal/occupancy"
	"roomdir/internal/render"
	"roomdir/internal/search"
	"roomdir/internal/view"
)

var errMissingFloorplan = errors.New("document has no floor plan svg")

// State is everything a session knows. It is owned by its Controller.
type State struct {
	Snapshot       directory.Snapshot
	Criteria       filter.Criteria
	Filtered       []directory.Room
	Loaded         bool
	FiltersVisible bool
}

type Options struct {
	// Fetcher loads room details. Required.
	Fetcher directory.RoomFetcher
	// Signal picks the overlay fill. Defaults to the rooms' own field.
	Signal occupancy.Signal
	// Notifier shows detail load failures.
	Notifier detail.Notifier
}

// pending holds work queued by event handlers that must run after the
// session lock is released.
type pending struct {
	open directory.ID
	back bool
}

type Controller struct {
	mu  sync.Mutex
	log zerolog.Logger
	doc *view.Document

	state   State
	facets  facets.Set
	pending pending

	input       view.InputValue
	searchPanel *html.Node
	filters     *html.Node

	list        *render.List
	overlay     *render.Overlay
	suggestions *render.Suggestions
	facetCtl    *render.Facets
	search      *search.Controller
	detail      *detail.Controller
}

// New binds a controller to doc, resolving every handle it needs once.
func New(log zerolog.Logger, doc *view.Document, opts Options) (*Controller, error) {
	nodes, err := doc.Resolve(
		view.IDSearchInput, view.IDSuggestions, view.IDSearchPanel,
		view.IDToggleFilters, view.IDFiltersPanel,
		view.IDBuildingFilter, view.IDFloorFilter, view.IDFeatureFilters,
		view.IDRoomList, view.IDBackButton,
	)
	if err != nil {
		return nil, err
	}
	svg := doc.Floorplan()
	if svg == nil {
		return nil, errMissingFloorplan
	}

	c := &Controller{
		log:         log.With().Str("component", "app").Logger(),
		doc:         doc,
		input:       view.InputValue{Node: nodes[view.IDSearchInput]},
		searchPanel: nodes[view.IDSearchPanel],
		filters:     nodes[view.IDFiltersPanel],
	}
	c.state.FiltersVisible = !view.IsHidden(c.filters)

	d, err := detail.New(log, doc, opts.Fetcher, opts.Notifier, detail.Options{Lock: &c.mu})
	if err != nil {
		return nil, err
	}
	c.detail = d

	c.list = render.NewList(nodes[view.IDRoomList], doc.Events, c.queueOpen)
	c.overlay = render.NewOverlay(svg, doc.Events, opts.Signal, c.queueOpen)
	c.search = search.New(nil, c.input, c.queueOpen)
	c.suggestions = render.NewSuggestions(nodes[view.IDSuggestions], doc.Events, c.search.Pick)
	c.search.OnChange(func() {
		c.suggestions.Render(c.search.Suggestions(), c.search.Cursor(), c.search.Active())
	})
	c.facetCtl = render.NewFacets(
		nodes[view.IDBuildingFilter], nodes[view.IDFloorFilter], nodes[view.IDFeatureFilters],
		doc.Events,
		render.FacetHandlers{
			Building: c.setBuilding,
			Floor:    c.setFloor,
			Feature:  c.setFeature,
		},
	)

	doc.Events.On(nodes[view.IDToggleFilters], view.EventClick, func(*view.Event) {
		c.toggleFilters()
	})
	doc.Events.On(nodes[view.IDBackButton], view.EventClick, func(*view.Event) {
		c.pending.back = true
	})

	c.suggestions.Render(nil, search.NoCursor, false)
	c.redraw()
	return c, nil
}

// Start loads the snapshot from src and draws it. On failure the session
// keeps its empty state and shows the no-rooms placeholder.
func (c *Controller) Start(ctx context.Context, src directory.Source) error {
	snap, err := directory.LoadAll(ctx, src)
	if err != nil {
		c.log.Error().Err(err).Msg("load room directory")
		c.mu.Lock()
		c.redraw()
		c.mu.Unlock()
		return err
	}
	c.Load(snap)
	return nil
}

// Load installs an already fetched snapshot.
func (c *Controller) Load(snap directory.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Snapshot = snap
	c.state.Loaded = true
	c.facets = facets.Build(snap)
	c.search.SetRooms(snap.Rooms)
	c.redraw()
	c.log.Debug().Int("rooms", len(snap.Rooms)).Msg("snapshot loaded")
}

// SetCriteria replaces every criterion at once and mirrors the query into
// the search box without opening suggestions.
func (c *Controller) SetCriteria(crit filter.Criteria) {
	c.mu.Lock()
	defer c.mu.Unlock()

	crit.Features = facets.NormalizeCodes(crit.Features)
	c.state.Criteria = crit
	c.input.SetValue(crit.Query)
	c.redraw()
}

func (c *Controller) SelectBuilding(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setBuilding(value)
}

func (c *Controller) SelectFloor(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setFloor(value)
}

func (c *Controller) ToggleFeature(code string, on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setFeature(code, on)
}

// Type handles one keystroke worth of input text: it refilters the list
// and updates the suggestions.
func (c *Controller) Type(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.input.SetValue(text)
	c.state.Criteria.Query = text
	c.search.Type(text)
	c.redraw()
}

// Key handles a key press in the search box. Enter may open a room.
func (c *Controller) Key(ctx context.Context, k search.Key) error {
	c.mu.Lock()
	c.search.Key(k)
	return c.flush(ctx)
}

// Blur closes the suggestion panel.
func (c *Controller) Blur() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.search.Blur()
}

// PickSuggestion selects suggestion i and opens it.
func (c *Controller) PickSuggestion(ctx context.Context, i int) error {
	c.mu.Lock()
	c.search.Pick(i)
	return c.flush(ctx)
}

// Open shows the detail view for id.
func (c *Controller) Open(ctx context.Context, id directory.ID) error {
	return c.detail.Open(ctx, id)
}

// Back returns from the detail view to the list.
func (c *Controller) Back() {
	c.detail.Close()
}

func (c *Controller) ToggleFilters() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.toggleFilters()
}

// Click dispatches a pointer click on n. A click outside the search box
// and its panel closes the suggestions.
func (c *Controller) Click(ctx context.Context, n *html.Node) error {
	c.mu.Lock()
	if !view.Contains(c.searchPanel, n) {
		c.search.Blur()
	}
	c.doc.Events.Dispatch(n, view.EventClick, "")
	return c.flush(ctx)
}

// Change dispatches a value change on a form control.
func (c *Controller) Change(n *html.Node, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.doc.Events.Dispatch(n, view.EventChange, value)
}

// Hover dispatches pointer enter or leave on n.
func (c *Controller) Hover(n *html.Node, enter bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	typ := view.EventPointerLeave
	if enter {
		typ = view.EventPointerEnter
	}
	c.doc.Events.Dispatch(n, typ, "")
}

// State returns a copy of the session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Filtered = append([]directory.Room(nil), c.state.Filtered...)
	s.Criteria.Features = append([]string(nil), c.state.Criteria.Features...)
	return s
}

// Facets returns the filter options derived from the snapshot.
func (c *Controller) Facets() facets.Set {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.facets
}

// Suggestions returns the open suggestion list and cursor.
func (c *Controller) Suggestions() ([]directory.Room, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.search.Suggestions(), c.search.Cursor()
}

// Detail returns the fields on display and whether the detail view is open.
func (c *Controller) Detail() (detail.Fields, bool) {
	return c.detail.Current(), c.detail.Visible()
}

// Document exposes the page for lookups. Mutate it only through the
// controller.
func (c *Controller) Document() *view.Document { return c.doc }

// Render writes the page as HTML.
func (c *Controller) Render(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc.Render(w)
}

// RenderFloorplan writes the floor plan with its overlay as an SVG image.
func (c *Controller) RenderFloorplan(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return view.RenderSVG(w, c.doc.Floorplan())
}

func (c *Controller) setBuilding(value string) {
	c.state.Criteria.Building = directory.ID(strings.TrimSpace(value))
	c.redraw()
}

func (c *Controller) setFloor(value string) {
	c.state.Criteria.Floor = directory.Floor(strings.TrimSpace(value))
	c.redraw()
}

func (c *Controller) setFeature(code string, on bool) {
	c.state.Criteria.Features = facets.Toggle(c.state.Criteria.Features, code, on)
	c.redraw()
}

func (c *Controller) toggleFilters() {
	c.state.FiltersVisible = !c.state.FiltersVisible
	view.SetHidden(c.filters, !c.state.FiltersVisible)
}

func (c *Controller) queueOpen(id directory.ID) {
	c.pending.open = id
}

// flush releases the session lock and runs queued navigation.
func (c *Controller) flush(ctx context.Context) error {
	p := c.pending
	c.pending = pending{}
	c.mu.Unlock()

	if p.back {
		c.detail.Close()
	}
	if !p.open.IsZero() {
		return c.detail.Open(ctx, p.open)
	}
	return nil
}

// redraw recomputes the filtered list and draws it. Callers hold c.mu.
func (c *Controller) redraw() {
	c.state.Filtered = filter.Apply(c.state.Criteria, c.state.Snapshot.Rooms)
	c.list.Render(c.state.Filtered)
	c.overlay.Render(c.state.Filtered)
	c.facetCtl.Render(c.facets, c.state.Criteria)
}
