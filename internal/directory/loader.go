package directory

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// LoadAll fetches rooms, buildings and features concurrently and joins them.
// The first failure cancels the remaining requests and no partial snapshot is
// returned. Absent (null) collections come back empty.
func LoadAll(ctx context.Context, src Source) (Snapshot, error) {
	var (
		rooms     []Room
		buildings []Building
		features  []Feature
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := src.Rooms(gctx)
		if err != nil {
			return fmt.Errorf("load rooms: %w", err)
		}
		rooms = r
		return nil
	})
	g.Go(func() error {
		b, err := src.Buildings(gctx)
		if err != nil {
			return fmt.Errorf("load buildings: %w", err)
		}
		buildings = b
		return nil
	})
	g.Go(func() error {
		f, err := src.Features(gctx)
		if err != nil {
			return fmt.Errorf("load features: %w", err)
		}
		features = f
		return nil
	})

	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	if rooms == nil {
		rooms = []Room{}
	}
	if buildings == nil {
		buildings = []Building{}
	}
	if features == nil {
		features = []Feature{}
	}
	return Snapshot{Rooms: rooms, Buildings: buildings, Features: features}, nil
}
