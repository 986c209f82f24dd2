// Package detail shows one room's full record in place of the list.
package detail

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"roomdir/internal/directory"
	"roomdir/internal/view"
)

var errNoFetcher = errors.New("detail: no room fetcher configured")

// Notifier surfaces a blocking message to the user.
type Notifier interface {
	Alert(msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(msg string)

func (f NotifierFunc) Alert(msg string) { f(msg) }

type Options struct {
	// Lock guards the document. Pass the lock the other components mutate
	// the same document under. Defaults to a private mutex.
	Lock sync.Locker
}

type handles struct {
	panel, back              *html.Node
	name, capacity, features *html.Node
	status                   *html.Node
	list, search, filters    *html.Node
}

// Controller swaps the list for the detail panel and back.
type Controller struct {
	log      zerolog.Logger
	fetcher  directory.RoomFetcher
	notifier Notifier
	lock     sync.Locker
	h        handles

	seq             uint64
	visible         bool
	filtersWereOpen bool
	current         Fields
}

// New resolves the detail handles from doc once.
func New(log zerolog.Logger, doc *view.Document, fetcher directory.RoomFetcher, notifier Notifier, opts Options) (*Controller, error) {
	nodes, err := doc.Resolve(
		view.IDDetailPanel, view.IDBackButton,
		view.IDDetailName, view.IDDetailCapacity, view.IDDetailFeatures, view.IDDetailStatus,
		view.IDListPanel, view.IDSearchPanel, view.IDFiltersPanel,
	)
	if err != nil {
		return nil, err
	}
	lock := opts.Lock
	if lock == nil {
		lock = &sync.Mutex{}
	}
	return &Controller{
		log:      log.With().Str("component", "detail").Logger(),
		fetcher:  fetcher,
		notifier: notifier,
		lock:     lock,
		h: handles{
			panel:    nodes[view.IDDetailPanel],
			back:     nodes[view.IDBackButton],
			name:     nodes[view.IDDetailName],
			capacity: nodes[view.IDDetailCapacity],
			features: nodes[view.IDDetailFeatures],
			status:   nodes[view.IDDetailStatus],
			list:     nodes[view.IDListPanel],
			search:   nodes[view.IDSearchPanel],
			filters:  nodes[view.IDFiltersPanel],
		},
	}, nil
}

// Open fetches the room and shows it. On failure the view is left as it
// was and the user is alerted. A response that arrives after a newer Open
// or a Close is dropped.
func (c *Controller) Open(ctx context.Context, id directory.ID) error {
	if c.fetcher == nil {
		return errNoFetcher
	}

	c.lock.Lock()
	c.seq++
	ticket := c.seq
	c.lock.Unlock()

	room, err := c.fetcher.Room(ctx, id)

	c.lock.Lock()
	defer c.lock.Unlock()
	if ticket != c.seq {
		c.log.Debug().Str("room_id", id.String()).Msg("dropping superseded detail response")
		return nil
	}
	if err != nil {
		c.log.Error().Err(err).Str("room_id", id.String()).Msg("load room details")
		if c.notifier != nil {
			c.notifier.Alert(AlertText)
		}
		return err
	}

	c.show(Project(room))
	return nil
}

func (c *Controller) show(f Fields) {
	if !c.visible {
		c.filtersWereOpen = !view.IsHidden(c.h.filters)
	}

	view.SetText(c.h.name, f.Name)
	view.SetText(c.h.capacity, f.Capacity)
	view.SetText(c.h.features, f.Features)
	view.SetText(c.h.status, f.Status)
	view.SetClass(c.h.status, ClassOpen, f.StatusClass == ClassOpen)
	view.SetClass(c.h.status, ClassClosed, f.StatusClass == ClassClosed)

	view.SetHidden(c.h.list, true)
	view.SetHidden(c.h.search, true)
	view.SetHidden(c.h.filters, true)
	view.SetHidden(c.h.panel, false)
	view.SetHidden(c.h.back, false)

	c.visible = true
	c.current = f
}

// Close returns to the list. The filters panel comes back only if it was
// showing when the detail opened.
func (c *Controller) Close() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.seq++
	if !c.visible {
		return
	}
	view.SetHidden(c.h.panel, true)
	view.SetHidden(c.h.back, true)
	view.SetHidden(c.h.list, false)
	view.SetHidden(c.h.search, false)
	if c.filtersWereOpen {
		view.SetHidden(c.h.filters, false)
	}
	c.visible = false
	c.current = Fields{}
}

// Visible reports whether the detail panel is showing.
func (c *Controller) Visible() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.visible
}

// Current returns the fields on display, zero when closed.
func (c *Controller) Current() Fields {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.current
}
