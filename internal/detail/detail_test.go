package detail

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"roomdir/internal/directory"
	"roomdir/internal/view"
)

type fakeFetcher struct {
	roomFn func(ctx context.Context, id directory.ID) (directory.Room, error)
}

func (f *fakeFetcher) Room(ctx context.Context, id directory.ID) (directory.Room, error) {
	return f.roomFn(ctx, id)
}

type recordingNotifier struct {
	alerts []string
}

func (n *recordingNotifier) Alert(msg string) { n.alerts = append(n.alerts, msg) }

func newController(t *testing.T, fetcher directory.RoomFetcher) (*Controller, *view.Document, *recordingNotifier) {
	t.Helper()
	doc, err := view.NewPage(nil)
	if err != nil {
		t.Fatalf("new page: %v", err)
	}
	n := &recordingNotifier{}
	c, err := New(zerolog.Nop(), doc, fetcher, n, Options{})
	if err != nil {
		t.Fatalf("new detail controller: %v", err)
	}
	return c, doc, n
}

func TestProject_Fallbacks(t *testing.T) {
	f := Project(directory.Room{ID: "5"})
	if f.Name != FallbackName || f.Capacity != FallbackCapacity || f.Features != FallbackFeatures {
		t.Fatalf("unexpected fallbacks: %+v", f)
	}
	if f.Status != StatusClosed || f.StatusClass != ClassClosed {
		t.Fatalf("expected closed status, got %+v", f)
	}

	f = Project(directory.Room{
		ID:       "6",
		Name:     "Lab",
		Capacity: directory.CapacityOf(0),
		Features: []directory.Feature{{Code: "PROJ", Name: "Projector"}, {Code: "WB"}, {}},
		IsOpen:   true,
	})
	if f.Capacity != "0" {
		t.Fatalf("zero capacity should print as 0, got %q", f.Capacity)
	}
	if f.Features != "Projector, WB" {
		t.Fatalf("unexpected features %q", f.Features)
	}
	if f.Status != StatusOpen || f.StatusClass != ClassOpen {
		t.Fatalf("expected open status, got %+v", f)
	}
}

func TestOpen_RendersDetail(t *testing.T) {
	fetcher := &fakeFetcher{roomFn: func(ctx context.Context, id directory.ID) (directory.Room, error) {
		if id != "1" {
			t.Fatalf("unexpected id %q", id)
		}
		return directory.Room{
			ID:       "1",
			Name:     "A101",
			Capacity: directory.CapacityOf(30),
			Features: []directory.Feature{{Name: "Projector"}},
			IsOpen:   true,
		}, nil
	}}
	c, doc, n := newController(t, fetcher)

	if err := c.Open(context.Background(), "1"); err != nil {
		t.Fatalf("open: %v", err)
	}
	if !c.Visible() {
		t.Fatalf("expected detail visible")
	}
	if got := view.TextContent(doc.ByID(view.IDDetailName)); got != "A101" {
		t.Fatalf("unexpected name %q", got)
	}
	if got := view.TextContent(doc.ByID(view.IDDetailCapacity)); got != "30" {
		t.Fatalf("unexpected capacity %q", got)
	}
	if got := view.TextContent(doc.ByID(view.IDDetailFeatures)); got != "Projector" {
		t.Fatalf("unexpected features %q", got)
	}
	status := doc.ByID(view.IDDetailStatus)
	if view.TextContent(status) != StatusOpen || !view.HasClass(status, ClassOpen) || view.HasClass(status, ClassClosed) {
		t.Fatalf("unexpected status node")
	}
	if !view.IsHidden(doc.ByID(view.IDListPanel)) || !view.IsHidden(doc.ByID(view.IDSearchPanel)) {
		t.Fatalf("list and search panels should be hidden")
	}
	if view.IsHidden(doc.ByID(view.IDDetailPanel)) || view.IsHidden(doc.ByID(view.IDBackButton)) {
		t.Fatalf("detail panel and back button should be visible")
	}
	if len(n.alerts) != 0 {
		t.Fatalf("unexpected alerts %v", n.alerts)
	}
}

func TestOpen_NotFoundLeavesViewAndAlerts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := directory.NewClient(zerolog.Nop(), directory.Options{BaseURL: srv.URL, Timeout: 2 * time.Second})
	c, doc, n := newController(t, client)

	err := c.Open(context.Background(), "999")
	if !errors.Is(err, directory.ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
	if len(n.alerts) != 1 || n.alerts[0] != AlertText {
		t.Fatalf("expected one alert, got %v", n.alerts)
	}
	if c.Visible() {
		t.Fatalf("detail should stay hidden")
	}
	if view.IsHidden(doc.ByID(view.IDListPanel)) {
		t.Fatalf("list panel should stay visible")
	}
	if !view.IsHidden(doc.ByID(view.IDDetailPanel)) {
		t.Fatalf("detail panel should stay hidden")
	}
}

func TestClose_RestoresFiltersOnlyIfShown(t *testing.T) {
	fetcher := &fakeFetcher{roomFn: func(ctx context.Context, id directory.ID) (directory.Room, error) {
		return directory.Room{ID: id, Name: "Room"}, nil
	}}

	c, doc, _ := newController(t, fetcher)
	if err := c.Open(context.Background(), "1"); err != nil {
		t.Fatalf("open: %v", err)
	}
	c.Close()
	if view.IsHidden(doc.ByID(view.IDFiltersPanel)) {
		t.Fatalf("filters were visible before open and should be restored")
	}
	if view.IsHidden(doc.ByID(view.IDListPanel)) || view.IsHidden(doc.ByID(view.IDSearchPanel)) {
		t.Fatalf("list and search should be visible after close")
	}
	if !view.IsHidden(doc.ByID(view.IDBackButton)) {
		t.Fatalf("back button should be hidden after close")
	}

	c, doc, _ = newController(t, fetcher)
	view.SetHidden(doc.ByID(view.IDFiltersPanel), true)
	if err := c.Open(context.Background(), "1"); err != nil {
		t.Fatalf("open: %v", err)
	}
	c.Close()
	if !view.IsHidden(doc.ByID(view.IDFiltersPanel)) {
		t.Fatalf("filters were hidden before open and should stay hidden")
	}
}

func TestOpen_DropsSupersededResponse(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	fetcher := &fakeFetcher{roomFn: func(ctx context.Context, id directory.ID) (directory.Room, error) {
		if id == "slow" {
			close(started)
			<-release
		}
		return directory.Room{ID: id, Name: "Room " + id.String()}, nil
	}}
	c, doc, _ := newController(t, fetcher)

	done := make(chan error, 1)
	go func() { done <- c.Open(context.Background(), "slow") }()
	<-started

	if err := c.Open(context.Background(), "fast"); err != nil {
		t.Fatalf("open fast: %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("superseded open should not fail: %v", err)
	}

	if got := view.TextContent(doc.ByID(view.IDDetailName)); got != "Room fast" {
		t.Fatalf("late response overwrote newer one: %q", got)
	}
}

func TestOpen_ResponseAfterCloseIsDropped(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	fetcher := &fakeFetcher{roomFn: func(ctx context.Context, id directory.ID) (directory.Room, error) {
		close(started)
		<-release
		return directory.Room{ID: id}, nil
	}}
	c, _, _ := newController(t, fetcher)

	done := make(chan error, 1)
	go func() { done <- c.Open(context.Background(), "1") }()
	<-started
	c.Close()
	close(release)
	<-done

	if c.Visible() {
		t.Fatalf("detail reopened after close")
	}
}
