package directory

import (
	"context"
	"errors"
	"testing"
)

type fakeSource struct {
	roomsFn     func(ctx context.Context) ([]Room, error)
	buildingsFn func(ctx context.Context) ([]Building, error)
	featuresFn  func(ctx context.Context) ([]Feature, error)
}

func (f fakeSource) Rooms(ctx context.Context) ([]Room, error) {
	if f.roomsFn == nil {
		return nil, nil
	}
	return f.roomsFn(ctx)
}

func (f fakeSource) Buildings(ctx context.Context) ([]Building, error) {
	if f.buildingsFn == nil {
		return nil, nil
	}
	return f.buildingsFn(ctx)
}

func (f fakeSource) Features(ctx context.Context) ([]Feature, error) {
	if f.featuresFn == nil {
		return nil, nil
	}
	return f.featuresFn(ctx)
}

func TestLoadAll_JoinsCollections(t *testing.T) {
	src := fakeSource{
		roomsFn: func(ctx context.Context) ([]Room, error) {
			return []Room{{ID: "1", Name: "A101"}}, nil
		},
		buildingsFn: func(ctx context.Context) ([]Building, error) {
			return []Building{{ID: "9", Name: "Main"}}, nil
		},
		featuresFn: func(ctx context.Context) ([]Feature, error) {
			return []Feature{{ID: "1", Code: "PROJ", Name: "Projector"}}, nil
		},
	}

	snap, err := LoadAll(context.Background(), src)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(snap.Rooms) != 1 || len(snap.Buildings) != 1 || len(snap.Features) != 1 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestLoadAll_NullCollectionsBecomeEmpty(t *testing.T) {
	snap, err := LoadAll(context.Background(), fakeSource{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snap.Rooms == nil || snap.Buildings == nil || snap.Features == nil {
		t.Fatalf("expected empty, non-nil collections: %+v", snap)
	}
}

func TestLoadAll_FailFast(t *testing.T) {
	boom := &RequestError{Path: "/buildings", StatusCode: 500, Status: "500 Internal Server Error"}
	cancelled := make(chan struct{})
	src := fakeSource{
		roomsFn: func(ctx context.Context) ([]Room, error) {
			<-ctx.Done()
			close(cancelled)
			return nil, ctx.Err()
		},
		buildingsFn: func(ctx context.Context) ([]Building, error) {
			return nil, boom
		},
	}

	snap, err := LoadAll(context.Background(), src)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed in chain, got %v", err)
	}
	if snap.Rooms != nil || snap.Buildings != nil || snap.Features != nil {
		t.Fatalf("expected no partial snapshot, got %+v", snap)
	}
	select {
	case <-cancelled:
	default:
		t.Fatalf("expected sibling fetch to observe cancellation")
	}
}
