package toast

import (
	"encoding/json"
	"strings"
)

// Kind is the toast type. Unknown kinds are displayed as given.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

// TriggerKey is the HX-Trigger event carrying a toast directive.
const TriggerKey = "showToast"

// Directive is a request to show a toast.
type Directive struct {
	Message string `json:"message"`
	Kind    Kind   `json:"type,omitempty"`
}

// normalized fills the default kind.
func (d Directive) normalized() Directive {
	if d.Kind == "" {
		d.Kind = KindSuccess
	}
	return d
}

// ParseTrigger extracts the showToast directive from an HX-Trigger header
// value. It reports false when the value is empty, not a JSON object, or
// has no showToast entry. A string showToast value is taken as the message.
func ParseTrigger(header string) (Directive, bool) {
	header = strings.TrimSpace(header)
	if !strings.HasPrefix(header, "{") {
		return Directive{}, false
	}

	var data map[string]json.RawMessage
	if err := json.Unmarshal([]byte(header), &data); err != nil {
		return Directive{}, false
	}
	raw, ok := data[TriggerKey]
	if !ok || string(raw) == "null" {
		return Directive{}, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err == nil && fields != nil {
		return directiveFromFields(fields)
	}
	var message string
	if err := json.Unmarshal(raw, &message); err == nil && message != "" {
		return Directive{Message: message}.normalized(), true
	}
	return Directive{}, false
}

// directiveFromFields reads the message and type keys exactly as written;
// JSON struct decoding would also accept "MESSAGE" or "Type".
func directiveFromFields(fields map[string]json.RawMessage) (Directive, bool) {
	var d Directive
	if raw, ok := fields["message"]; ok && string(raw) != "null" {
		if err := json.Unmarshal(raw, &d.Message); err != nil {
			return Directive{}, false
		}
	}
	if raw, ok := fields["type"]; ok && string(raw) != "null" {
		if err := json.Unmarshal(raw, &d.Kind); err != nil {
			return Directive{}, false
		}
	}
	return d.normalized(), true
}
