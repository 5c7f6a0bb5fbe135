package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/projectman/pmweb/internal/errors"
	"github.com/projectman/pmweb/pkg/dom"
	"github.com/projectman/pmweb/pkg/eventloop"
)

func TestBusSubscribeEmit(t *testing.T) {
	bus := NewBus()

	var got []string
	unsubA := bus.Subscribe(EventAfterRequest, func(ev Event) { got = append(got, "a:"+ev.Detail.Trigger()) })
	bus.Subscribe(EventAfterRequest, func(ev Event) { got = append(got, "b") })
	bus.Subscribe(EventResponseError, func(ev Event) { got = append(got, "err") })

	n := bus.Emit(Event{Type: EventAfterRequest, Detail: Detail{Header: http.Header{TriggerHeader: {"x"}}}})
	if n != 2 {
		t.Errorf("Emit ran %d handlers, want 2", n)
	}

	unsubA()
	unsubA()
	bus.Emit(Event{Type: EventAfterRequest})

	want := []string{"a:x", "b", "b"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("got %v, want %v", got, want)
	}
	if bus.Subscribers(EventAfterRequest) != 1 {
		t.Errorf("Subscribers = %d, want 1", bus.Subscribers(EventAfterRequest))
	}
}

func TestBusEmitFillsHeader(t *testing.T) {
	bus := NewBus()
	var header http.Header
	bus.Subscribe(EventAfterRequest, func(ev Event) { header = ev.Detail.Header })
	bus.Emit(Event{Type: EventAfterRequest})
	if header == nil {
		t.Error("handlers should always see a non-nil header")
	}
	if (Detail{}).Trigger() != "" {
		t.Error("Trigger on zero Detail should be empty")
	}
}

func recordEvents(bus *Bus) *[]Event {
	var events []Event
	for _, name := range []string{EventAfterRequest, EventResponseError, EventSendError} {
		bus.Subscribe(name, func(ev Event) { events = append(events, ev) })
	}
	return &events
}

func eventTypes(events []Event) string {
	names := make([]string, len(events))
	for i, ev := range events {
		names[i] = ev.Type
	}
	return strings.Join(names, ",")
}

func TestClientSuccessSwapsAndEmits(t *testing.T) {
	var gotHeaders http.Header
	var gotForm url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		r.ParseForm()
		gotForm = r.PostForm
		w.Header().Set(TriggerHeader, `{"showToast":{"message":"Saved","type":"success"}}`)
		w.Write([]byte(`<p>updated</p>`))
	}))
	defer srv.Close()

	loop := eventloop.New(eventloop.NewManualClock(time.Unix(0, 0)))
	bus := NewBus()
	events := recordEvents(bus)
	doc := dom.NewPage("")
	target := doc.GetElementByID("content")

	c, err := NewClient(srv.URL, bus, loop, doc, WithCurrentURL(func() string { return srv.URL + "/board" }))
	if err != nil {
		t.Fatal(err)
	}

	resp, err := c.Post(context.Background(), "/stories/PRJ-1/status", url.Values{"status": {"done"}}, target)
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if resp.Status != http.StatusOK || resp.Body != "<p>updated</p>" {
		t.Errorf("response = %d %q", resp.Status, resp.Body)
	}
	if gotHeaders.Get("HX-Request") != "true" {
		t.Error("missing HX-Request header")
	}
	if gotHeaders.Get("HX-Current-URL") != srv.URL+"/board" {
		t.Errorf("HX-Current-URL = %q", gotHeaders.Get("HX-Current-URL"))
	}
	if gotForm.Get("status") != "done" {
		t.Errorf("form = %v", gotForm)
	}

	if len(*events) != 0 {
		t.Fatal("events must be delivered on the loop, not inline")
	}
	loop.Drain()

	if eventTypes(*events) != EventAfterRequest {
		t.Fatalf("events = %s", eventTypes(*events))
	}
	if (*events)[0].Detail.Trigger() == "" {
		t.Error("afterRequest should carry the HX-Trigger header")
	}
	if target.TextContent() != "<p>updated</p>" {
		t.Errorf("target content = %q", target.TextContent())
	}
}

func TestClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	bus := NewBus()
	events := recordEvents(bus)
	doc := dom.NewPage("")
	target := doc.GetElementByID("content")

	c, _ := NewClient(srv.URL, bus, nil, doc)
	resp, err := c.Get(context.Background(), "/board", target)
	if err != nil {
		t.Fatalf("error statuses should not be Go errors: %v", err)
	}
	if resp.Status != http.StatusInternalServerError {
		t.Errorf("status = %d", resp.Status)
	}

	if got := eventTypes(*events); got != EventResponseError+","+EventAfterRequest {
		t.Errorf("events = %s", got)
	}
	if (*events)[0].Detail.Status != 500 {
		t.Errorf("responseError status = %d", (*events)[0].Detail.Status)
	}
	if len(target.Children) != 0 {
		t.Error("error responses must not be swapped")
	}
}

func TestClientNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	bus := NewBus()
	events := recordEvents(bus)
	c, _ := NewClient(addr, bus, nil, nil)

	_, err := c.Get(context.Background(), "/", nil)
	if !errors.HasCode(err, "E140") {
		t.Fatalf("err = %v, want E140", err)
	}
	if got := eventTypes(*events); got != EventSendError+","+EventAfterRequest {
		t.Errorf("events = %s", got)
	}
	if (*events)[1].Detail.Err == nil || (*events)[1].Detail.Status != 0 {
		t.Errorf("afterRequest detail = %+v", (*events)[1].Detail)
	}
}

func TestNewClientRejectsBadURL(t *testing.T) {
	if _, err := NewClient("://bad", NewBus(), nil, nil); err == nil {
		t.Error("NewClient should reject an invalid base URL")
	}
}

func TestStreamDeliversTriggers(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.WriteMessage(websocket.TextMessage, []byte(`{"showToast":{"message":"one"}}`))
		conn.WriteMessage(websocket.BinaryMessage, []byte("ignored"))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"showToast":{"message":"two"}}`))
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.ReadMessage()
	}))
	defer srv.Close()

	bus := NewBus()
	var mu sync.Mutex
	var triggers []string
	bus.Subscribe(EventAfterRequest, func(ev Event) {
		mu.Lock()
		triggers = append(triggers, ev.Detail.Trigger())
		mu.Unlock()
	})

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	s := NewStream(wsURL, bus, nil, WithReconnect(0, 0))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(triggers) != 2 || !strings.Contains(triggers[0], "one") || !strings.Contains(triggers[1], "two") {
		t.Errorf("triggers = %v", triggers)
	}
}

func TestStreamDialFailure(t *testing.T) {
	s := NewStream("ws://127.0.0.1:1/ws/triggers", NewBus(), nil, WithReconnect(0, 0))
	err := s.Run(context.Background())
	if !errors.HasCode(err, "E141") {
		t.Errorf("Run = %v, want E141", err)
	}
}

func TestStreamStopsOnCancel(t *testing.T) {
	s := NewStream("ws://127.0.0.1:1/ws/triggers", NewBus(), nil, WithReconnect(10*time.Millisecond, 20*time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run after cancel = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}
