package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"roomdir/internal/directory"
	"roomdir/internal/metrics"
	"roomdir/internal/occupancy"
)

// Pinger is the readiness probe of an optional backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Options struct {
	// Fetcher loads room details from the backend.
	Fetcher directory.RoomFetcher
	// Signal picks overlay fills. Defaults to the rooms' own field.
	Signal occupancy.Signal
	// Floorplan is the SVG markup the overlay is drawn on. Nil uses the
	// built-in blank plan.
	Floorplan []byte
	Metrics   *metrics.Metrics
	// DB is pinged by /readyz when set.
	DB Pinger
}

type Handler struct {
	log       zerolog.Logger
	fetcher   directory.RoomFetcher
	signal    occupancy.Signal
	floorplan []byte
	metrics   *metrics.Metrics
	db        Pinger

	snapshot atomic.Pointer[directory.Snapshot]
}

func NewHandler(log zerolog.Logger, opts Options) *Handler {
	signal := opts.Signal
	if signal == nil {
		signal = occupancy.FieldSignal{}
	}
	return &Handler{
		log:       log,
		fetcher:   opts.Fetcher,
		signal:    signal,
		floorplan: opts.Floorplan,
		metrics:   opts.Metrics,
		db:        opts.DB,
	}
}

// SetSnapshot publishes the data set every request reads. The service
// reports ready once a snapshot is set.
func (h *Handler) SetSnapshot(snap directory.Snapshot) {
	if snap.Rooms == nil {
		snap.Rooms = []directory.Room{}
	}
	if snap.Buildings == nil {
		snap.Buildings = []directory.Building{}
	}
	if snap.Features == nil {
		snap.Features = []directory.Feature{}
	}
	h.snapshot.Store(&snap)
	h.metrics.SetSnapshotRooms(len(snap.Rooms))
}

func (h *Handler) currentSnapshot() (directory.Snapshot, bool) {
	p := h.snapshot.Load()
	if p == nil {
		return directory.Snapshot{}, false
	}
	return *p, true
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Use(h.accessLog)

	// Health
	r.Get("/healthz", h.handleHealthz)
	r.Get("/readyz", h.handleReadyZ)
	r.Handle("/metrics", h.metrics.Handler())

	// Page
	r.Get("/", h.handlePage)

	// API
	r.Route("/api", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			r.Route("/rooms", func(r chi.Router) {
				r.Get("/", h.handleListRooms)
				r.Get("/{id}", h.handleGetRoom)
			})
			r.Get("/suggestions", h.handleSuggestions)
			r.Get("/facets", h.handleFacets)
			r.Get("/buildings", h.handleListBuildings)
			r.Get("/features", h.handleListFeatures)
			r.Get("/floorplan.svg", h.handleFloorplan)
		})
	})

	return r
}

func (h *Handler) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		elapsed := time.Since(start)
		h.metrics.ObserveHTTPRequest(r.Method, route, ww.Status(), elapsed)

		h.log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("route", route).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Int64("duration_ms", elapsed.Milliseconds()).
			Msg("http_request")
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, msg string, details map[string]any) {
	resp := map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": msg,
		},
	}
	if details != nil {
		resp["error"].(map[string]any)["details"] = details
	}
	h.writeJSON(w, status, resp)
}

func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) handleReadyZ(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.currentSnapshot(); !ok {
		h.writeError(w, http.StatusServiceUnavailable, "not_ready", "room snapshot not loaded", nil)
		return
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			h.writeError(w, http.StatusServiceUnavailable, "db_unavailable", "database not ready", map[string]any{"error": err.Error()})
			return
		}
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"ready": true})
}

// ensureSnapshot writes a 503 and reports false when no data is loaded.
func (h *Handler) ensureSnapshot(w http.ResponseWriter) (directory.Snapshot, bool) {
	snap, ok := h.currentSnapshot()
	if !ok {
		h.writeError(w, http.StatusServiceUnavailable, "not_ready", "room snapshot not loaded", nil)
	}
	return snap, ok
}
