package toast

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Trigger adds a showToast directive to the HX-Trigger header of w,
// keeping any events already set. Call it before writing the body.
//
//	toast.Trigger(w, toast.KindInfo, "Index rebuilt")
func Trigger(w http.ResponseWriter, kind Kind, message string) {
	w.Header().Set("HX-Trigger", mergeTrigger(w.Header().Get("HX-Trigger"), kind, message))
}

// Success adds a success toast.
//
//	toast.Success(w, "Story saved")
func Success(w http.ResponseWriter, message string) {
	Trigger(w, KindSuccess, message)
}

// Error adds an error toast.
//
//	toast.Error(w, "Failed to move task")
func Error(w http.ResponseWriter, message string) {
	Trigger(w, KindError, message)
}

// Warning adds a warning toast.
func Warning(w http.ResponseWriter, message string) {
	Trigger(w, KindWarning, message)
}

// Info adds an info toast.
func Info(w http.ResponseWriter, message string) {
	Trigger(w, KindInfo, message)
}

// Encode returns an HX-Trigger value carrying only a showToast directive.
// The trigger hub broadcasts values in this form.
func Encode(kind Kind, message string) string {
	return mergeTrigger("", kind, message)
}

// mergeTrigger adds showToast to an existing HX-Trigger value, which may be
// a JSON object or a comma-separated list of event names.
func mergeTrigger(existing string, kind Kind, message string) string {
	events := make(map[string]any)

	existing = strings.TrimSpace(existing)
	switch {
	case existing == "":
	case strings.HasPrefix(existing, "{"):
		if err := json.Unmarshal([]byte(existing), &events); err != nil {
			events = make(map[string]any)
		}
	default:
		for _, name := range strings.Split(existing, ",") {
			if name = strings.TrimSpace(name); name != "" {
				events[name] = nil
			}
		}
	}

	events[TriggerKey] = Directive{Message: message, Kind: Directive{Kind: kind}.normalized().Kind}

	data, _ := json.Marshal(events)
	return string(data)
}
