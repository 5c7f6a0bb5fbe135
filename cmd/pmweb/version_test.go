package main

import (
	"strings"
	"testing"

	"github.com/projectman/pmweb/internal/config"
)

func TestWriteVersionShowsRuntimeSettings(t *testing.T) {
	cfg := config.New()
	cfg.Client.Storage.Backend = config.BackendS3
	cfg.Client.Storage.Bucket = "prefs"
	cfg.Client.Storage.Prefix = "users/"
	cfg.Client.Storage.Endpoint = "http://127.0.0.1:9000"

	var b strings.Builder
	writeVersion(&b, cfg)
	out := b.String()
	for _, want := range []string{
		"(commit none, built unknown)",
		"Settings:       defaults",
		"App config:     /api/config",
		"Trigger stream: /ws/triggers",
		"Theme store:    s3://prefs/users/ via http://127.0.0.1:9000",
		"Toasts:         3s visible, 300ms fade",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteVersionWithoutConfig(t *testing.T) {
	var b strings.Builder
	writeVersion(&b, nil)
	if out := b.String(); !strings.Contains(out, "commit none") || strings.Contains(out, "Theme store") {
		t.Errorf("output = %q", out)
	}
}

func TestStorageSummary(t *testing.T) {
	cfg := config.New()
	if got := storageSummary(cfg); got != "memory" {
		t.Errorf("default store = %q", got)
	}
	cfg.Client.Storage.Backend = config.BackendFile
	cfg.Client.Storage.Path = "/var/lib/pmweb/prefs.json"
	if got := storageSummary(cfg); got != "file /var/lib/pmweb/prefs.json" {
		t.Errorf("file store = %q", got)
	}
}
