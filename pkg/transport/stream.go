package transport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/projectman/pmweb/internal/errors"
	"github.com/projectman/pmweb/pkg/eventloop"
)

// StreamOption configures a Stream.
type StreamOption func(*Stream)

// WithDialer sets the websocket dialer.
func WithDialer(d *websocket.Dialer) StreamOption {
	return func(s *Stream) {
		s.dialer = d
	}
}

// WithReconnect sets the reconnect backoff. A zero min disables
// reconnecting: Run returns when the first connection ends.
func WithReconnect(minDelay, maxDelay time.Duration) StreamOption {
	return func(s *Stream) {
		s.minDelay = minDelay
		s.maxDelay = maxDelay
	}
}

// WithStreamLogger sets the logger.
func WithStreamLogger(logger *slog.Logger) StreamOption {
	return func(s *Stream) {
		s.logger = logger
	}
}

// Stream reads server-pushed triggers from a websocket.
type Stream struct {
	url      string
	bus      *Bus
	loop     *eventloop.Loop
	dialer   *websocket.Dialer
	minDelay time.Duration
	maxDelay time.Duration
	logger   *slog.Logger
}

// NewStream creates a stream reading from wsURL (ws:// or wss://).
func NewStream(wsURL string, bus *Bus, loop *eventloop.Loop, opts ...StreamOption) *Stream {
	s := &Stream{
		url:      wsURL,
		bus:      bus,
		loop:     loop,
		dialer:   websocket.DefaultDialer,
		minDelay: time.Second,
		maxDelay: 30 * time.Second,
		logger:   slog.Default().With("component", "trigger-stream"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run connects and emits every text frame as an htmx:afterRequest event
// carrying the frame in its HX-Trigger header. It reconnects with
// exponential backoff until ctx is done, and returns nil on cancellation.
func (s *Stream) Run(ctx context.Context) error {
	delay := s.minDelay
	for {
		connected, err := s.session(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if s.minDelay <= 0 {
			return err
		}
		if connected {
			delay = s.minDelay
		}

		s.logger.Debug("trigger stream disconnected", "url", s.url, "error", err, "retry", delay)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}
		delay = min(delay*2, s.maxDelay)
	}
}

// session runs one connection. connected reports whether the dial
// succeeded.
func (s *Stream) session(ctx context.Context) (connected bool, err error) {
	conn, resp, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		detail := s.url
		if resp != nil {
			detail += ": " + resp.Status
		}
		return false, errors.New("E141").WithDetail(detail).Wrap(err)
	}
	defer conn.Close()

	// Unblock ReadMessage on cancellation.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return true, nil
			}
			return true, errors.New("E141").WithDetail(s.url).Wrap(err)
		}
		if kind != websocket.TextMessage {
			continue
		}
		s.deliver(string(data))
	}
}

func (s *Stream) deliver(trigger string) {
	h := http.Header{}
	h.Set(TriggerHeader, trigger)
	ev := Event{
		Type: EventAfterRequest,
		Detail: Detail{
			Method: http.MethodGet,
			URL:    s.url,
			Status: http.StatusOK,
			Header: h,
		},
	}
	if s.loop == nil {
		s.bus.Emit(ev)
		return
	}
	s.loop.Post(func() { s.bus.Emit(ev) })
}
