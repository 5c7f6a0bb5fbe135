package toast

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseTrigger(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   Directive
		wantOK bool
	}{
		{"empty", "", Directive{}, false},
		{"plain event name", "itemSaved", Directive{}, false},
		{"malformed JSON", `{"showToast":`, Directive{}, false},
		{"JSON array", `["showToast"]`, Directive{}, false},
		{"other events only", `{"refreshBoard":true}`, Directive{}, false},
		{"null directive", `{"showToast":null}`, Directive{}, false},
		{"number directive", `{"showToast":5}`, Directive{}, false},
		{"full directive", `{"showToast":{"message":"Saved","type":"info"}}`, Directive{Message: "Saved", Kind: KindInfo}, true},
		{"default type", `{"showToast":{"message":"Saved"}}`, Directive{Message: "Saved", Kind: KindSuccess}, true},
		{"custom type", `{"showToast":{"message":"Heads up","type":"notice"}}`, Directive{Message: "Heads up", Kind: "notice"}, true},
		{"string directive", `{"showToast":"Saved"}`, Directive{Message: "Saved", Kind: KindSuccess}, true},
		{"keys match exactly", `{"showToast":{"MESSAGE":"x","Type":"error"}}`, Directive{Kind: KindSuccess}, true},
		{"non-string message", `{"showToast":{"message":7}}`, Directive{}, false},
		{"with other events", ` {"refreshBoard":null,"showToast":{"message":"Moved","type":"success"}}`, Directive{Message: "Moved", Kind: KindSuccess}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTrigger(tt.header)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseTrigger(%q) = %+v, %v; want %+v, %v", tt.header, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func decodeTrigger(t *testing.T, value string) map[string]json.RawMessage {
	t.Helper()
	var events map[string]json.RawMessage
	if err := json.Unmarshal([]byte(value), &events); err != nil {
		t.Fatalf("HX-Trigger %q is not JSON: %v", value, err)
	}
	return events
}

func TestHelpersSetTrigger(t *testing.T) {
	tests := []struct {
		name string
		fn   func(http.ResponseWriter, string)
		kind Kind
	}{
		{"Success", Success, KindSuccess},
		{"Error", Error, KindError},
		{"Warning", Warning, KindWarning},
		{"Info", Info, KindInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.fn(rec, "Story saved")

			d, ok := ParseTrigger(rec.Header().Get("HX-Trigger"))
			if !ok {
				t.Fatalf("header %q not parseable", rec.Header().Get("HX-Trigger"))
			}
			if d.Message != "Story saved" || d.Kind != tt.kind {
				t.Errorf("directive = %+v", d)
			}
		})
	}
}

func TestTriggerMergesExistingEvents(t *testing.T) {
	t.Run("JSON object", func(t *testing.T) {
		rec := httptest.NewRecorder()
		rec.Header().Set("HX-Trigger", `{"refreshBoard":{"column":"done"}}`)
		Info(rec, "Moved")

		events := decodeTrigger(t, rec.Header().Get("HX-Trigger"))
		if string(events["refreshBoard"]) != `{"column":"done"}` {
			t.Errorf("refreshBoard = %s", events["refreshBoard"])
		}
		if _, ok := events[TriggerKey]; !ok {
			t.Error("showToast missing")
		}
	})

	t.Run("event names", func(t *testing.T) {
		rec := httptest.NewRecorder()
		rec.Header().Set("HX-Trigger", "refreshBoard, closeModal")
		Success(rec, "Saved")

		events := decodeTrigger(t, rec.Header().Get("HX-Trigger"))
		for _, name := range []string{"refreshBoard", "closeModal", TriggerKey} {
			if _, ok := events[name]; !ok {
				t.Errorf("event %q missing from %v", name, events)
			}
		}
	})

	t.Run("replaces earlier toast", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Success(rec, "first")
		Error(rec, "second")

		d, _ := ParseTrigger(rec.Header().Get("HX-Trigger"))
		if d.Message != "second" || d.Kind != KindError {
			t.Errorf("directive = %+v, want the later toast", d)
		}
	})
}

func TestEncode(t *testing.T) {
	got := Encode("", "Index rebuilt")
	if got != `{"showToast":{"message":"Index rebuilt","type":"success"}}` {
		t.Errorf("Encode = %s", got)
	}
}
