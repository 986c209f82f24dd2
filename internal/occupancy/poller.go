package occupancy

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"roomdir/internal/metrics"
	"roomdir/internal/sqlcgen"
)

// Queries is the read side of the occupancy table.
type Queries interface {
	ListRoomOccupancy(ctx context.Context, since time.Time) ([]sqlcgen.RoomOccupancy, error)
}

type Options struct {
	// PollInterval is the delay between refreshes while the feed is healthy.
	PollInterval time.Duration
	// MaxAge drops readings older than this. Zero keeps everything.
	MaxAge time.Duration
}

// Poller keeps a Snapshot in step with the occupancy table.
type Poller struct {
	log          zerolog.Logger
	q            Queries
	snap         *Snapshot
	pollInterval time.Duration
	maxAge       time.Duration
	metrics      *metrics.Metrics
	now          func() time.Time
}

func NewPoller(log zerolog.Logger, q Queries, snap *Snapshot, opts Options, m *metrics.Metrics) *Poller {
	pi := opts.PollInterval
	if pi <= 0 {
		pi = 30 * time.Second
	}
	maxAge := opts.MaxAge
	if maxAge < 0 {
		maxAge = 0
	}
	return &Poller{
		log:          log.With().Str("component", "occupancy_poller").Logger(),
		q:            q,
		snap:         snap,
		pollInterval: pi,
		maxAge:       maxAge,
		metrics:      m,
		now:          time.Now,
	}
}

// Run refreshes immediately and then on every tick until ctx is done.
// Failures keep the previous reading and back off.
func (p *Poller) Run(ctx context.Context) {
	if p == nil || p.q == nil || p.snap == nil {
		return
	}

	var consecutiveFailures int
	if err := p.RefreshOnce(ctx); err != nil {
		consecutiveFailures++
	}

	timer := time.NewTimer(backoffDuration(p.pollInterval, consecutiveFailures))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if err := p.RefreshOnce(ctx); err != nil {
			consecutiveFailures++
		} else {
			consecutiveFailures = 0
		}

		timer.Reset(backoffDuration(p.pollInterval, consecutiveFailures))
	}
}

// RefreshOnce reads the table and replaces the snapshot. On error the
// snapshot is left untouched.
func (p *Poller) RefreshOnce(ctx context.Context) error {
	var since time.Time
	if p.maxAge > 0 {
		since = p.now().Add(-p.maxAge)
	}

	rows, err := p.q.ListRoomOccupancy(ctx, since)
	if err != nil {
		if ctx.Err() == nil {
			p.log.Warn().Err(err).Msg("occupancy refresh failed")
		}
		p.metrics.IncOccupancyRefresh("error")
		return err
	}

	state := make(map[string]bool, len(rows))
	for _, r := range rows {
		state[r.RoomID] = r.Occupied
	}
	p.snap.Replace(state)
	p.metrics.IncOccupancyRefresh("ok")
	p.log.Debug().Int("rooms", len(state)).Msg("occupancy refreshed")
	return nil
}

func backoffDuration(base time.Duration, failures int) time.Duration {
	if base <= 0 {
		base = 30 * time.Second
	}
	if failures <= 0 {
		return base
	}

	// base * 2^failures, capped.
	if failures > 6 {
		failures = 6
	}
	d := base * time.Duration(1<<failures)
	if d > 5*time.Minute {
		return 5 * time.Minute
	}
	return d
}
