// Package project discovers and loads ProjectMan project configuration
// from .project/config.yaml.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/projectman/pmweb/internal/errors"
)

const (
	// DirName is the per-project metadata directory.
	DirName = ".project"

	// FileName is the project config file inside DirName.
	FileName = "config.yaml"

	// DefaultPrefix is used when config.yaml has no prefix.
	DefaultPrefix = "PRJ"
)

// Config is the contents of .project/config.yaml.
type Config struct {
	Name        string   `yaml:"name" json:"name"`
	Prefix      string   `yaml:"prefix" json:"prefix"`
	Description string   `yaml:"description" json:"description"`
	Hub         bool     `yaml:"hub" json:"hub"`
	NextStoryID int      `yaml:"next_story_id" json:"next_story_id"`
	NextEpicID  int      `yaml:"next_epic_id" json:"next_epic_id"`
	Projects    []string `yaml:"projects" json:"projects"`
}

// FindRoot walks up from start to the first directory containing
// .project/config.yaml.
func FindRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(ConfigPath(dir)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E110").
				WithDetail("No " + filepath.Join(DirName, FileName) + " found in " + start + " or any parent directory")
		}
		dir = parent
	}
}

// ConfigPath returns the config.yaml path for a project root.
func ConfigPath(root string) string {
	return filepath.Join(root, DirName, FileName)
}

// Load reads and validates the project config under root.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		return nil, errors.New("E111").Wrap(err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E111").Wrap(err)
	}
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	if cfg.NextStoryID == 0 {
		cfg.NextStoryID = 1
	}
	if cfg.NextEpicID == 0 {
		cfg.NextEpicID = 1
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Discover finds the project root above start and loads its config.
func Discover(start string) (string, *Config, error) {
	root, err := FindRoot(start)
	if err != nil {
		return "", nil, err
	}
	cfg, err := Load(root)
	if err != nil {
		return "", nil, err
	}
	return root, cfg, nil
}

// Validate checks the fields ProjectMan constrains.
func (c *Config) Validate() error {
	if c.Name == "" {
		return errors.New("E111").WithDetail("name is required")
	}
	for _, r := range c.Prefix {
		if !unicode.IsUpper(r) || !unicode.IsLetter(r) {
			return errors.New("E111").
				WithDetail(fmt.Sprintf("prefix %q must be uppercase letters", c.Prefix))
		}
	}
	return nil
}

// Save writes the config back to .project/config.yaml under root.
func Save(root string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.New("E111").Wrap(err)
	}
	if err := os.MkdirAll(filepath.Join(root, DirName), 0o755); err != nil {
		return err
	}
	return os.WriteFile(ConfigPath(root), data, 0o644)
}

// ProjectRoot returns the directory of a sub-project in a hub, or "" when
// name is not one of the hub's projects.
func (c *Config) ProjectRoot(root, name string) string {
	if !c.Hub {
		return ""
	}
	for _, p := range c.Projects {
		if p == name {
			return filepath.Join(root, "projects", name)
		}
	}
	return ""
}
