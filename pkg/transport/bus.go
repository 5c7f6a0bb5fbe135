package transport

import (
	"net/http"
	"sync"
)

// Lifecycle event names.
const (
	EventAfterRequest  = "htmx:afterRequest"
	EventResponseError = "htmx:responseError"
	EventSendError     = "htmx:sendError"
)

// TriggerHeader is the response header carrying server-sent triggers.
const TriggerHeader = "HX-Trigger"

// Detail describes the request an event refers to.
type Detail struct {
	Method string
	URL    string

	// Status is the response status, or 0 when no response was received.
	Status int

	// Header holds the response headers. It is never nil.
	Header http.Header

	// Err is set when the request failed before a response arrived.
	Err error
}

// Successful reports whether the request got a 2xx response.
func (d Detail) Successful() bool {
	return d.Status >= 200 && d.Status < 300
}

// Trigger returns the HX-Trigger response header, or "".
func (d Detail) Trigger() string {
	if d.Header == nil {
		return ""
	}
	return d.Header.Get(TriggerHeader)
}

// Event is a lifecycle event.
type Event struct {
	Type   string
	Detail Detail
}

// Handler receives events.
type Handler func(Event)

type subscription struct {
	handler Handler
}

// Bus dispatches events to subscribers in subscription order.
type Bus struct {
	mu   sync.Mutex
	subs map[string][]*subscription
}

// NewBus returns an empty Bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[string][]*subscription)}
}

// Subscribe registers h for eventType and returns a function that removes
// it. Calling the function more than once is harmless.
func (b *Bus) Subscribe(eventType string, h Handler) func() {
	sub := &subscription{handler: h}

	b.mu.Lock()
	b.subs[eventType] = append(b.subs[eventType], sub)
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.subs[eventType]
		for i, s := range list {
			if s == sub {
				b.subs[eventType] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// Emit calls every handler subscribed to ev.Type and returns how many ran.
// Handlers run on the caller's goroutine.
func (b *Bus) Emit(ev Event) int {
	if ev.Detail.Header == nil {
		ev.Detail.Header = http.Header{}
	}

	b.mu.Lock()
	list := append([]*subscription(nil), b.subs[ev.Type]...)
	b.mu.Unlock()

	for _, s := range list {
		s.handler(ev)
	}
	return len(list)
}

// Subscribers returns the number of handlers for eventType.
func (b *Bus) Subscribers(eventType string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[eventType])
}
