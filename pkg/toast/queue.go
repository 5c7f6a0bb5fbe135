package toast

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/projectman/pmweb/pkg/dom"
	"github.com/projectman/pmweb/pkg/eventloop"
	"github.com/projectman/pmweb/pkg/middleware"
	"github.com/projectman/pmweb/pkg/transport"
	"github.com/projectman/pmweb/pkg/vdom"
)

const (
	// ContainerID is the id of the element hosting toasts.
	ContainerID = "toast-container"

	// DefaultDisplay is how long a toast stays fully visible.
	DefaultDisplay = 3000 * time.Millisecond

	// DefaultFade is the length of the fade-out.
	DefaultFade = 300 * time.Millisecond

	// FadeStyle is applied to a toast when it starts fading.
	FadeStyle = "opacity: 0; transition: opacity 0.3s"

	// IDAttribute carries the entry ID on the toast element.
	IDAttribute = "data-toast-id"
)

// Entry is a toast currently in the container.
type Entry struct {
	ID        string
	Message   string
	Kind      Kind
	CreatedAt time.Time
	Fading    bool
}

type entry struct {
	Entry
	node  *vdom.VNode
	timer *eventloop.Timer
}

// Option configures a Queue.
type Option func(*Queue)

// WithTiming overrides the display and fade durations.
func WithTiming(display, fade time.Duration) Option {
	return func(q *Queue) {
		q.display = display
		q.fade = fade
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(q *Queue) {
		q.logger = logger
	}
}

// Queue shows toasts in a document. All methods must be called from the
// loop the queue was created with.
type Queue struct {
	doc     *dom.Document
	loop    *eventloop.Loop
	display time.Duration
	fade    time.Duration
	logger  *slog.Logger

	entries     []*entry
	unsubscribe []func()
	closed      bool
}

// NewQueue creates a queue for doc whose timers run on loop.
func NewQueue(doc *dom.Document, loop *eventloop.Loop, opts ...Option) *Queue {
	q := &Queue{
		doc:     doc,
		loop:    loop,
		display: DefaultDisplay,
		fade:    DefaultFade,
		logger:  slog.Default().With("component", "toast"),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Attach subscribes the queue to the transport lifecycle events on bus.
func (q *Queue) Attach(bus *transport.Bus) {
	q.unsubscribe = append(q.unsubscribe,
		bus.Subscribe(transport.EventAfterRequest, q.OnAfterRequest),
		bus.Subscribe(transport.EventResponseError, q.OnResponseError),
	)
}

// OnAfterRequest shows the showToast directive of the response's
// HX-Trigger header, if any.
func (q *Queue) OnAfterRequest(ev transport.Event) {
	d, ok := ParseTrigger(ev.Detail.Trigger())
	if !ok {
		return
	}
	q.Enqueue(d)
}

// OnResponseError shows an error toast naming the response status.
func (q *Queue) OnResponseError(ev transport.Event) {
	q.Enqueue(Directive{
		Message: fmt.Sprintf("Request failed: %d", ev.Detail.Status),
		Kind:    KindError,
	})
}

// Enqueue appends a toast and schedules its removal. It reports false when
// the toast could not be shown (closed queue or no document body).
func (q *Queue) Enqueue(d Directive) (Entry, bool) {
	if q.closed {
		return Entry{}, false
	}
	d = d.normalized()

	container := q.container()
	if container == nil {
		q.logger.Debug("toast dropped: no document body", "message", d.Message)
		return Entry{}, false
	}

	e := &entry{
		Entry: Entry{
			ID:        uuid.NewString(),
			Message:   d.Message,
			Kind:      d.Kind,
			CreatedAt: q.loop.Clock().Now(),
		},
	}
	e.node = vdom.Div(
		vdom.Class("toast", "toast-"+string(d.Kind)),
		vdom.Attribute(IDAttribute, e.ID),
		d.Message,
	)
	q.doc.AppendChild(container, e.node)
	q.entries = append(q.entries, e)
	middleware.RecordToast(string(d.Kind))

	e.timer = q.loop.AfterFunc(q.display, func() { q.startFade(e) })
	return e.Entry, true
}

// container returns the toast container, creating it under <body> when
// absent.
func (q *Queue) container() *vdom.VNode {
	if c := q.doc.GetElementByID(ContainerID); c != nil {
		return c
	}
	body := q.doc.Body()
	if body == nil {
		return nil
	}
	c := vdom.Div(vdom.ID(ContainerID), vdom.Class("toast-container"))
	q.doc.AppendChild(body, c)
	return c
}

func (q *Queue) startFade(e *entry) {
	e.Fading = true
	e.node.SetAttr("style", FadeStyle)
	e.timer = q.loop.AfterFunc(q.fade, func() { q.remove(e) })
}

func (q *Queue) remove(e *entry) {
	q.doc.Remove(e.node)
	for i, cur := range q.entries {
		if cur == e {
			q.entries = append(q.entries[:i:i], q.entries[i+1:]...)
			break
		}
	}
}

// Entries returns the toasts currently shown, oldest first.
func (q *Queue) Entries() []Entry {
	out := make([]Entry, len(q.entries))
	for i, e := range q.entries {
		out[i] = e.Entry
	}
	return out
}

// Close unsubscribes from the bus and cancels pending timers. Toasts
// already shown stay in the document.
func (q *Queue) Close() {
	if q.closed {
		return
	}
	q.closed = true
	for _, unsub := range q.unsubscribe {
		unsub()
	}
	q.unsubscribe = nil
	for _, e := range q.entries {
		if e.timer != nil {
			e.timer.Stop()
		}
	}
}
