// Package config loads and saves the boardframe YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/thenoetrevino/boardframe/internal/models"
	"github.com/thenoetrevino/boardframe/internal/monday"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the config file location
const EnvConfigPath = "BOARDFRAME_CONFIG"

// Config represents the application configuration
type Config struct {
	API   APIConfig   `yaml:"api"`
	Read  ReadConfig  `yaml:"read"`
	Write WriteConfig `yaml:"write"`
	Theme Theme       `yaml:"theme"`

	path string
}

// APIConfig configures the Monday.com client
type APIConfig struct {
	URL               string        `yaml:"url,omitempty"`
	Version           string        `yaml:"version,omitempty"`
	Token             string        `yaml:"token,omitempty"`
	TokenEnv          string        `yaml:"token_env,omitempty"`
	Timeout           time.Duration `yaml:"timeout,omitempty"`
	MaxRetries        int           `yaml:"max_retries,omitempty"`
	RequestsPerSecond float64       `yaml:"requests_per_second,omitempty"`
	UserAgent         string        `yaml:"user_agent,omitempty"`
	// VerifyToken checks the token with a `me` query before each command
	VerifyToken bool `yaml:"verify_token,omitempty"`
}

// ReadConfig holds defaults for board read
type ReadConfig struct {
	PageSize int `yaml:"page_size,omitempty"`
}

// WriteConfig holds defaults for board write
type WriteConfig struct {
	ChunkSize             int  `yaml:"chunk_size,omitempty"`
	Concurrency           int  `yaml:"concurrency,omitempty"`
	CreateLabelsIfMissing bool `yaml:"create_labels_if_missing,omitempty"`
}

// Defaults for the write section
const (
	DefaultChunkSize   = 50
	DefaultConcurrency = 4
)

// Default returns a config with every default filled in
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load loads the config from path. An empty path falls back to
// BOARDFRAME_CONFIG and then the user's config directory.
// Returns default config if the file doesn't exist.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		p, err := defaultPath()
		if err != nil {
			// Return default config if we can't determine config path
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		c := Default()
		c.path = path
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	config.path = path

	// Fill in any missing values with defaults
	config.applyDefaults()

	return &config, nil
}

// Path returns the file the config was loaded from and saves to
func (c *Config) Path() string {
	return c.path
}

// Save writes the config back to its file. The file may hold a token so it
// is only readable by the owner.
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		p, err := defaultPath()
		if err != nil {
			return err
		}
		path = p
		c.path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// defaultPath returns the path to the config file
func defaultPath() (string, error) {
	// Try XDG_CONFIG_HOME first
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "boardframe", "config.yaml"), nil
	}

	// Fall back to ~/.config
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", "boardframe", "config.yaml"), nil
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	c.API.applyDefaults()
	c.Read.applyDefaults()
	c.Write.applyDefaults()
	c.Theme.ApplyDefaults()
}

func (a *APIConfig) applyDefaults() {
	if a.URL == "" {
		a.URL = monday.DefaultURL
	}
	if a.Version == "" {
		a.Version = monday.DefaultAPIVersion
	}
	if a.TokenEnv == "" {
		a.TokenEnv = monday.DefaultTokenEnv
	}
	if a.Timeout <= 0 {
		a.Timeout = monday.DefaultTimeout
	}
	if a.MaxRetries <= 0 {
		a.MaxRetries = monday.DefaultMaxRetries
	}
	if a.RequestsPerSecond <= 0 {
		a.RequestsPerSecond = monday.DefaultRequestsPerSecond
	}
}

func (r *ReadConfig) applyDefaults() {
	if r.PageSize <= 0 {
		r.PageSize = models.DefaultPageSize
	}
	if r.PageSize > models.MaxPageSize {
		r.PageSize = models.MaxPageSize
	}
}

func (w *WriteConfig) applyDefaults() {
	if w.ChunkSize <= 0 {
		w.ChunkSize = DefaultChunkSize
	}
	if w.Concurrency <= 0 {
		w.Concurrency = DefaultConcurrency
	}
}

// ClientOptions converts the api section into monday client options
func (a APIConfig) ClientOptions() []monday.Option {
	opts := []monday.Option{
		monday.WithURL(a.URL),
		monday.WithAPIVersion(a.Version),
		monday.WithTimeout(a.Timeout),
		monday.WithMaxRetries(a.MaxRetries),
		monday.WithRequestsPerSecond(a.RequestsPerSecond),
	}
	if a.UserAgent != "" {
		opts = append(opts, monday.WithUserAgent(a.UserAgent))
	}
	return opts
}
