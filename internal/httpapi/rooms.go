package httpapi

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"roomdir/internal/app"
	"roomdir/internal/detail"
	"roomdir/internal/directory"
	"roomdir/internal/facets"
	"roomdir/internal/filter"
	"roomdir/internal/search"
	"roomdir/internal/view"
)

type roomList struct {
	Rooms    []directory.Room `json:"rooms"`
	Returned int              `json:"returned"`
	Total    int              `json:"total"`
}

type suggestion struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type suggestionList struct {
	Query       string       `json:"query"`
	Suggestions []suggestion `json:"suggestions"`
}

// criteriaFromQuery reads building, floor, feature and q. feature may be
// repeated or comma separated.
func criteriaFromQuery(q url.Values) filter.Criteria {
	var codes []string
	for _, v := range q["feature"] {
		codes = append(codes, strings.Split(v, ",")...)
	}
	return filter.Criteria{
		Building: directory.ID(strings.TrimSpace(q.Get("building"))),
		Floor:    directory.Floor(strings.TrimSpace(q.Get("floor"))),
		Features: facets.NormalizeCodes(codes),
		Query:    q.Get("q"),
	}
}

func (h *Handler) handleListRooms(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.ensureSnapshot(w)
	if !ok {
		return
	}

	rooms := filter.Apply(criteriaFromQuery(r.URL.Query()), snap.Rooms)
	if rooms == nil {
		rooms = []directory.Room{}
	}
	h.writeJSON(w, http.StatusOK, roomList{Rooms: rooms, Returned: len(rooms), Total: len(snap.Rooms)})
}

func (h *Handler) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	id := directory.ID(strings.TrimSpace(chi.URLParam(r, "id")))
	if id.IsZero() {
		h.writeError(w, http.StatusBadRequest, "invalid_id", "room id is required", nil)
		return
	}
	if h.fetcher == nil {
		h.writeError(w, http.StatusServiceUnavailable, "upstream_unavailable", "room backend not configured", nil)
		return
	}

	room, err := h.fetcher.Room(r.Context(), id)
	if err != nil {
		h.log.Error().Err(err).Str("id", id.String()).Msg("get room failed")
		details := map[string]any{"id": id.String()}
		var reqErr *directory.RequestError
		if errors.As(err, &reqErr) && reqErr.StatusCode != 0 {
			details["upstream_status"] = reqErr.StatusCode
		}
		h.writeError(w, http.StatusBadGateway, "upstream_failed", detail.AlertText, details)
		return
	}

	h.writeJSON(w, http.StatusOK, detail.Project(room))
}

func (h *Handler) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.ensureSnapshot(w)
	if !ok {
		return
	}

	q := r.URL.Query().Get("q")
	matches := search.Suggest(snap.Rooms, q, search.MaxSuggestions)
	out := suggestionList{Query: q, Suggestions: make([]suggestion, 0, len(matches))}
	for _, m := range matches {
		out.Suggestions = append(out.Suggestions, suggestion{ID: m.ID.String(), Label: m.Label()})
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleFacets(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.ensureSnapshot(w)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, facets.Build(snap))
}

func (h *Handler) handleListBuildings(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.ensureSnapshot(w)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, snap.Buildings)
}

func (h *Handler) handleListFeatures(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.ensureSnapshot(w)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, snap.Features)
}

// session builds a page controller over the shared snapshot with the
// request's criteria applied.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*app.Controller, bool) {
	snap, ok := h.ensureSnapshot(w)
	if !ok {
		return nil, false
	}

	doc, err := view.NewPage(h.floorplan)
	if err != nil {
		h.log.Error().Err(err).Msg("build page failed")
		h.writeError(w, http.StatusInternalServerError, "render_failed", "failed to build page", nil)
		return nil, false
	}
	c, err := app.New(h.log, doc, app.Options{Fetcher: h.fetcher, Signal: h.signal})
	if err != nil {
		h.log.Error().Err(err).Msg("bind page failed")
		h.writeError(w, http.StatusInternalServerError, "render_failed", "failed to build page", nil)
		return nil, false
	}
	c.Load(snap)
	c.SetCriteria(criteriaFromQuery(r.URL.Query()))
	return c, true
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	c, ok := h.session(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := c.Render(&buf); err != nil {
		h.log.Error().Err(err).Msg("render page failed")
		h.writeError(w, http.StatusInternalServerError, "render_failed", "failed to render page", nil)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) handleFloorplan(w http.ResponseWriter, r *http.Request) {
	c, ok := h.session(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := c.RenderFloorplan(&buf); err != nil {
		h.log.Error().Err(err).Msg("render floorplan failed")
		h.writeError(w, http.StatusInternalServerError, "render_failed", "failed to render floor plan", nil)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
