package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"roomdir/internal/config"
	"roomdir/internal/db"
	"roomdir/internal/directory"
	"roomdir/internal/metrics"
	"roomdir/internal/occupancy"
)

// deps is what every command builds from the config.
type deps struct {
	log       zerolog.Logger
	metrics   *metrics.Metrics
	client    *directory.Client
	signal    occupancy.Signal
	floorplan []byte
	pool      *db.Pool
	poller    *occupancy.Poller
}

func newDeps(ctx context.Context, cfg *config.Config, log zerolog.Logger, m *metrics.Metrics) (*deps, error) {
	d := &deps{
		log:     log,
		metrics: m,
		client: directory.NewClient(log, directory.Options{
			BaseURL: cfg.APIBaseURL,
			Timeout: cfg.RequestTimeout,
			Metrics: m,
		}),
	}

	if path := strings.TrimSpace(cfg.FloorplanPath); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading floor plan %s: %w", path, err)
		}
		d.floorplan = b
	}

	switch cfg.Occupancy.Source {
	case config.OccupancyRandom:
		seed := cfg.Occupancy.RandomSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		d.signal = occupancy.NewRandomSignal(seed, occupancy.DefaultRandomP)
	case config.OccupancyPostgres:
		pool, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		snap := occupancy.NewSnapshot()
		d.pool = pool
		d.signal = snap
		d.poller = occupancy.NewPoller(log, pool.Queries(), snap, occupancy.Options{
			PollInterval: cfg.Occupancy.PollInterval,
			MaxAge:       cfg.Occupancy.MaxAge,
		}, m)
	default:
		d.signal = occupancy.FieldSignal{}
	}

	return d, nil
}

// startPoller runs the occupancy poller until ctx ends. It is a no-op for
// sources that do not poll.
func (d *deps) startPoller(ctx context.Context) {
	if d.poller == nil {
		return
	}
	go d.poller.Run(ctx)
}

func (d *deps) Close() {
	d.pool.Close()
}
