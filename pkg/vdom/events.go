package vdom

// Event is delivered to handlers registered with OnChange and OnClick.
type Event struct {
	// Type is the event name without the "on" prefix (e.g., "change").
	Type string

	// Target is the node the event was dispatched to.
	Target *VNode

	// Value is the target's value after the event (for change events).
	Value string
}

// HandlerFunc handles a dispatched event.
type HandlerFunc func(Event)

// EventHandler represents an event handler.
type EventHandler struct {
	Event   string // "onclick", "onchange", etc.
	Handler HandlerFunc
}

// event creates an EventHandler with the given name and handler.
// The name is prefixed with "on" (e.g., "click" becomes "onclick").
func event(name string, handler HandlerFunc) EventHandler {
	return EventHandler{Event: "on" + name, Handler: handler}
}

// OnClick handles click events.
func OnClick(handler HandlerFunc) EventHandler { return event("click", handler) }

// OnChange handles change events (fired when a value is committed).
func OnChange(handler HandlerFunc) EventHandler { return event("change", handler) }

// HandlerFor returns the handler registered for name ("change", "click").
func (v *VNode) HandlerFor(name string) HandlerFunc {
	if v == nil || v.Props == nil {
		return nil
	}
	switch h := v.Props["on"+name].(type) {
	case HandlerFunc:
		return h
	case func(Event):
		return h
	}
	return nil
}
