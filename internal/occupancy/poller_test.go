package occupancy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"roomdir/internal/directory"
	"roomdir/internal/sqlcgen"
)

type fakeQueries struct {
	listFn func(ctx context.Context, since time.Time) ([]sqlcgen.RoomOccupancy, error)
}

func (f *fakeQueries) ListRoomOccupancy(ctx context.Context, since time.Time) ([]sqlcgen.RoomOccupancy, error) {
	return f.listFn(ctx, since)
}

func TestPoller_RefreshOnce_ReplacesSnapshot(t *testing.T) {
	snap := NewSnapshot()
	q := &fakeQueries{listFn: func(ctx context.Context, since time.Time) ([]sqlcgen.RoomOccupancy, error) {
		return []sqlcgen.RoomOccupancy{
			{RoomID: "1", Occupied: true},
			{RoomID: "2", Occupied: false},
		}, nil
	}}

	p := NewPoller(zerolog.Nop(), q, snap, Options{}, nil)
	if err := p.RefreshOnce(context.Background()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if snap.Len() != 2 {
		t.Fatalf("expected 2 readings, got %d", snap.Len())
	}
	if !snap.Occupied(directory.Room{ID: "1"}) {
		t.Fatalf("expected room 1 occupied")
	}
}

func TestPoller_RefreshOnce_ErrorKeepsPreviousReading(t *testing.T) {
	snap := NewSnapshot()
	snap.Replace(map[string]bool{"1": true})

	boom := errors.New("boom")
	q := &fakeQueries{listFn: func(ctx context.Context, since time.Time) ([]sqlcgen.RoomOccupancy, error) {
		return nil, boom
	}}

	p := NewPoller(zerolog.Nop(), q, snap, Options{}, nil)
	if err := p.RefreshOnce(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if !snap.Occupied(directory.Room{ID: "1"}) {
		t.Fatalf("previous reading should survive a failed refresh")
	}
}

func TestPoller_RefreshOnce_MaxAgeSetsSince(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var gotSince time.Time
	q := &fakeQueries{listFn: func(ctx context.Context, since time.Time) ([]sqlcgen.RoomOccupancy, error) {
		gotSince = since
		return nil, nil
	}}

	p := NewPoller(zerolog.Nop(), q, NewSnapshot(), Options{MaxAge: 15 * time.Minute}, nil)
	p.now = func() time.Time { return now }
	if err := p.RefreshOnce(context.Background()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if want := now.Add(-15 * time.Minute); !gotSince.Equal(want) {
		t.Fatalf("expected since %v, got %v", want, gotSince)
	}

	p = NewPoller(zerolog.Nop(), q, NewSnapshot(), Options{}, nil)
	if err := p.RefreshOnce(context.Background()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !gotSince.IsZero() {
		t.Fatalf("expected zero since without max age, got %v", gotSince)
	}
}

func TestPoller_RunStopsOnCancel(t *testing.T) {
	calls := make(chan struct{}, 8)
	q := &fakeQueries{listFn: func(ctx context.Context, since time.Time) ([]sqlcgen.RoomOccupancy, error) {
		select {
		case calls <- struct{}{}:
		default:
		}
		return nil, nil
	}}

	ctx, cancel := context.WithCancel(context.Background())
	p := NewPoller(zerolog.Nop(), q, NewSnapshot(), Options{PollInterval: 5 * time.Millisecond}, nil)

	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	select {
	case <-calls:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected an initial refresh")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}

func TestBackoffDuration(t *testing.T) {
	base := time.Second
	if got := backoffDuration(base, 0); got != base {
		t.Fatalf("expected base, got %v", got)
	}
	if got := backoffDuration(base, 2); got != 4*time.Second {
		t.Fatalf("expected 4s, got %v", got)
	}
	if got := backoffDuration(10*time.Second, 20); got != 5*time.Minute {
		t.Fatalf("expected cap, got %v", got)
	}
	if got := backoffDuration(0, 0); got != 30*time.Second {
		t.Fatalf("expected default base, got %v", got)
	}
}
