package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/projectman/pmweb/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "pmweb.json"

	// DefaultPort is the default server port.
	DefaultPort = 8000

	// DefaultHost is the default server host.
	DefaultHost = "127.0.0.1"

	// DefaultConfigEndpoint is the path the page runtime fetches AppConfig from.
	DefaultConfigEndpoint = "/api/config"

	// DefaultMetricsPath is where Prometheus metrics are exposed.
	DefaultMetricsPath = "/metrics"

	// DefaultToastDisplay is how long a toast stays fully visible.
	DefaultToastDisplay = "3s"

	// DefaultToastFade is the length of a toast's fade-out transition.
	DefaultToastFade = "300ms"
)

// Storage backends accepted in client.storage.backend.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendS3     = "s3"
)

// Config represents the complete pmweb.json configuration.
type Config struct {
	// Name overrides the brand name reported by /api/config.
	// Empty means the project config's name is used.
	Name string `json:"name,omitempty"`

	// Server contains HTTP server configuration.
	Server ServerConfig `json:"server,omitempty"`

	// Client contains headless page runtime configuration.
	Client ClientConfig `json:"client,omitempty"`

	// Toast contains notification timing.
	Toast ToastConfig `json:"toast,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`

	// ProjectDir is where the search for .project/config.yaml starts.
	// Defaults to the directory containing pmweb.json.
	ProjectDir string `json:"projectDir,omitempty"`

	// Metrics enables the Prometheus endpoint and request metrics.
	Metrics bool `json:"metrics,omitempty"`

	// MetricsPath is the path of the Prometheus endpoint.
	MetricsPath string `json:"metricsPath,omitempty"`

	// Tracing enables OpenTelemetry server spans.
	Tracing bool `json:"tracing,omitempty"`
}

// ClientConfig contains settings for the headless page runtime.
type ClientConfig struct {
	// BaseURL is the server the page is loaded from.
	BaseURL string `json:"baseURL,omitempty"`

	// ConfigEndpoint is the path of the AppConfig document.
	ConfigEndpoint string `json:"configEndpoint,omitempty"`

	// Storage configures where the theme preference is persisted.
	Storage StorageConfig `json:"storage,omitempty"`
}

// StorageConfig selects and configures a preference store.
type StorageConfig struct {
	// Backend is one of "memory", "file" or "s3".
	Backend string `json:"backend,omitempty"`

	// Path is the JSON file used by the file backend.
	Path string `json:"path,omitempty"`

	// Bucket is the S3 bucket used by the s3 backend.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is prepended to every S3 object key.
	Prefix string `json:"prefix,omitempty"`

	// Region is the S3 region.
	Region string `json:"region,omitempty"`

	// Endpoint overrides the S3 endpoint (MinIO, localstack).
	Endpoint string `json:"endpoint,omitempty"`

	// PathStyle forces path-style S3 addressing.
	PathStyle bool `json:"pathStyle,omitempty"`
}

// ToastConfig contains toast timing as Go duration strings.
type ToastConfig struct {
	// Display is how long a toast stays fully visible (e.g., "3s").
	Display string `json:"display,omitempty"`

	// Fade is the fade-out transition length (e.g., "300ms").
	Fade string `json:"fade,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads configuration from the specified directory.
// It looks for pmweb.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E101").
				WithDetail("No " + ConfigFileName + " found at " + path).
				WithSuggestion("Create " + ConfigFileName + " or run without --config to use defaults")
		}
		return nil, errors.New("E102").Wrap(err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E102").
			WithDetail("Failed to parse " + path + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// LoadOrDefault loads path, falling back to defaults when the file does not
// exist. Parse and validation failures are still returned.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if errors.HasCode(err, "E101") {
		cfg = New()
		cfg.configPath = path
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// LoadFromWorkingDir loads pmweb.json from the current working directory,
// falling back to defaults when it does not exist.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return LoadOrDefault(filepath.Join(wd, ConfigFileName))
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E102").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E102").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.MetricsPath == "" {
		c.Server.MetricsPath = DefaultMetricsPath
	}

	if c.Client.BaseURL == "" {
		c.Client.BaseURL = "http://" + net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
	}
	if c.Client.ConfigEndpoint == "" {
		c.Client.ConfigEndpoint = DefaultConfigEndpoint
	}
	if c.Client.Storage.Backend == "" {
		c.Client.Storage.Backend = BackendMemory
	}

	if c.Toast.Display == "" {
		c.Toast.Display = DefaultToastDisplay
	}
	if c.Toast.Fade == "" {
		c.Toast.Fade = DefaultToastFade
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E103").
			WithDetail("server.port must be between 0 and 65535")
	}

	switch c.Client.Storage.Backend {
	case BackendMemory:
	case BackendFile:
		if c.Client.Storage.Path == "" {
			return errors.New("E103").
				WithDetail("client.storage.path is required for the file backend")
		}
	case BackendS3:
		if c.Client.Storage.Bucket == "" {
			return errors.New("E103").
				WithDetail("client.storage.bucket is required for the s3 backend")
		}
	default:
		return errors.New("E103").
			WithDetail(fmt.Sprintf("client.storage.backend %q is not one of memory, file, s3", c.Client.Storage.Backend))
	}

	if !strings.HasPrefix(c.Client.ConfigEndpoint, "/") {
		return errors.New("E103").
			WithDetail("client.configEndpoint must be an absolute path")
	}

	for name, value := range map[string]string{"toast.display": c.Toast.Display, "toast.fade": c.Toast.Fade} {
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return errors.New("E103").
				WithDetail(fmt.Sprintf("%s must be a positive duration, got %q", name, value))
		}
	}

	return nil
}

// Address returns the listen address for the server.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// ProjectPath returns the directory where project discovery starts.
func (c *Config) ProjectPath() string {
	path := c.Server.ProjectDir
	switch {
	case path == "" && c.Dir() == "":
		return "."
	case path == "":
		return c.Dir()
	case filepath.IsAbs(path) || c.Dir() == "":
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// StoragePath returns the file backend path with a leading ~ expanded.
func (c *Config) StoragePath() string {
	path := c.Client.Storage.Path
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// ToastDisplay returns the parsed toast display duration.
func (c *Config) ToastDisplay() time.Duration {
	return parseDuration(c.Toast.Display, DefaultToastDisplay)
}

// ToastFade returns the parsed toast fade duration.
func (c *Config) ToastFade() time.Duration {
	return parseDuration(c.Toast.Fade, DefaultToastFade)
}

func parseDuration(value, fallback string) time.Duration {
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	d, _ := time.ParseDuration(fallback)
	return d
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}
