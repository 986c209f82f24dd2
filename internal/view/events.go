package view

import (
	"sync"

	"golang.org/x/net/html"
)

const (
	EventClick        = "click"
	EventPointerEnter = "pointerenter"
	EventPointerLeave = "pointerleave"
	EventChange       = "change"
)

// Event is one dispatched interaction.
type Event struct {
	Type    string
	Target  *html.Node
	Value   string
	stopped bool
}

// StopPropagation keeps the event from reaching handlers on ancestors.
func (e *Event) StopPropagation() { e.stopped = true }

type Handler func(ev *Event)

// Events maps nodes to handlers. Click and change bubble to ancestors;
// pointer enter/leave only reach the target, as in the browser.
type Events struct {
	mu       sync.Mutex
	handlers map[*html.Node]map[string]Handler
}

func NewEvents() *Events {
	return &Events{handlers: make(map[*html.Node]map[string]Handler)}
}

func (e *Events) On(n *html.Node, typ string, h Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	byType := e.handlers[n]
	if byType == nil {
		byType = make(map[string]Handler)
		e.handlers[n] = byType
	}
	byType[typ] = h
}

// Release drops the handlers of n and all of its descendants. Renderers call
// it before discarding a subtree.
func (e *Events) Release(n *html.Node) {
	e.mu.Lock()
	defer e.mu.Unlock()
	Walk(n, func(c *html.Node) bool {
		delete(e.handlers, c)
		return true
	})
}

// Len reports how many nodes currently carry handlers.
func (e *Events) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.handlers)
}

// Dispatch delivers an event to target and, for bubbling types, to its
// ancestors until a handler stops propagation. It reports whether any
// handler ran.
func (e *Events) Dispatch(target *html.Node, typ, value string) bool {
	ev := &Event{Type: typ, Target: target, Value: value}
	bubbles := typ == EventClick || typ == EventChange
	ran := false
	for n := target; n != nil; n = n.Parent {
		if h := e.lookup(n, typ); h != nil {
			h(ev)
			ran = true
		}
		if ev.stopped || !bubbles {
			break
		}
	}
	return ran
}

func (e *Events) lookup(n *html.Node, typ string) Handler {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.handlers[n][typ]
}
