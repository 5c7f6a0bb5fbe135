package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/projectman/pmweb/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Server.Host != DefaultHost {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, DefaultHost)
	}
	if cfg.Client.BaseURL != "http://127.0.0.1:8000" {
		t.Errorf("Client.BaseURL = %q", cfg.Client.BaseURL)
	}
	if cfg.Client.ConfigEndpoint != DefaultConfigEndpoint {
		t.Errorf("Client.ConfigEndpoint = %q", cfg.Client.ConfigEndpoint)
	}
	if cfg.Client.Storage.Backend != BackendMemory {
		t.Errorf("Client.Storage.Backend = %q, want memory", cfg.Client.Storage.Backend)
	}
	if cfg.ToastDisplay() != 3*time.Second || cfg.ToastFade() != 300*time.Millisecond {
		t.Errorf("toast timing = %v/%v", cfg.ToastDisplay(), cfg.ToastFade())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := Load(tmpDir)
	if !errors.HasCode(err, "E101") {
		t.Fatalf("Load on empty dir = %v, want E101", err)
	}

	configJSON := `{
  "name": "Acme",
  "server": {"host": "0.0.0.0", "port": 9090, "metrics": true},
  "client": {
    "storage": {"backend": "file", "path": "prefs.json"}
  },
  "toast": {"display": "5s"}
}
`
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Name != "Acme" {
		t.Errorf("Name = %q, want Acme", cfg.Name)
	}
	if cfg.Address() != "0.0.0.0:9090" {
		t.Errorf("Address() = %q", cfg.Address())
	}
	if !cfg.Server.Metrics {
		t.Error("Server.Metrics should be true")
	}
	if cfg.Client.BaseURL != "http://0.0.0.0:9090" {
		t.Errorf("Client.BaseURL = %q", cfg.Client.BaseURL)
	}
	if cfg.ToastDisplay() != 5*time.Second {
		t.Errorf("ToastDisplay() = %v, want 5s", cfg.ToastDisplay())
	}
	if cfg.ToastFade() != 300*time.Millisecond {
		t.Errorf("ToastFade() = %v, want default 300ms", cfg.ToastFade())
	}
	if cfg.Dir() != tmpDir {
		t.Errorf("Dir() = %q, want %q", cfg.Dir(), tmpDir)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ConfigFileName)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFile(path)
	if !errors.HasCode(err, "E102") {
		t.Fatalf("LoadFile = %v, want E102", err)
	}
}

func TestLoadOrDefault(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ConfigFileName)

	cfg, err := LoadOrDefault(path)
	if err != nil {
		t.Fatalf("LoadOrDefault on missing file: %v", err)
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want default", cfg.Server.Port)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q, want %q", cfg.Path(), path)
	}

	if err := os.WriteFile(path, []byte(`{"client":{"storage":{"backend":"redis"}}}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOrDefault(path); !errors.HasCode(err, "E103") {
		t.Errorf("LoadOrDefault with bad backend = %v, want E103", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(*Config) {}, ""},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"file backend without path", func(c *Config) { c.Client.Storage.Backend = BackendFile }, "client.storage.path"},
		{"s3 backend without bucket", func(c *Config) { c.Client.Storage.Backend = BackendS3 }, "client.storage.bucket"},
		{"s3 backend with bucket", func(c *Config) {
			c.Client.Storage.Backend = BackendS3
			c.Client.Storage.Bucket = "prefs"
		}, ""},
		{"unknown backend", func(c *Config) { c.Client.Storage.Backend = "redis" }, "not one of"},
		{"relative endpoint", func(c *Config) { c.Client.ConfigEndpoint = "api/config" }, "absolute path"},
		{"bad display", func(c *Config) { c.Toast.Display = "soon" }, "toast.display"},
		{"negative fade", func(c *Config) { c.Toast.Fade = "-1s" }, "toast.fade"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			pe, ok := err.(*errors.Error)
			if !ok || !strings.Contains(pe.Detail, tt.wantErr) {
				t.Errorf("Validate() = %v, want detail containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ConfigFileName)

	cfg := New()
	cfg.Name = "Saved"
	if err := cfg.Save(); err == nil {
		t.Error("Save without a path should fail")
	}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if loaded.Name != "Saved" {
		t.Errorf("Name = %q, want Saved", loaded.Name)
	}
	if !Exists(tmpDir) {
		t.Error("Exists should report the saved file")
	}
}

func TestProjectPath(t *testing.T) {
	cfg := New()
	if cfg.ProjectPath() != "." {
		t.Errorf("ProjectPath() without config path = %q, want .", cfg.ProjectPath())
	}

	cfg.configPath = filepath.Join("/srv/app", ConfigFileName)
	if cfg.ProjectPath() != "/srv/app" {
		t.Errorf("ProjectPath() = %q, want /srv/app", cfg.ProjectPath())
	}

	cfg.Server.ProjectDir = "workspace"
	if cfg.ProjectPath() != filepath.Join("/srv/app", "workspace") {
		t.Errorf("ProjectPath() = %q", cfg.ProjectPath())
	}

	cfg.Server.ProjectDir = "/data/hub"
	if cfg.ProjectPath() != "/data/hub" {
		t.Errorf("ProjectPath() = %q, want /data/hub", cfg.ProjectPath())
	}
}

func TestStoragePathExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	cfg := New()
	cfg.Client.Storage.Path = "~/prefs.json"
	if got := cfg.StoragePath(); got != filepath.Join(home, "prefs.json") {
		t.Errorf("StoragePath() = %q", got)
	}
}
