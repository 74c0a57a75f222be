// Package clientconfig persists the CLI's connection settings as a flat
// JSON record at a well-known location, with environment overrides bound
// through viper.
package clientconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces the CLI's environment overrides, e.g.
// TRANSLATE_CLI_API_ENDPOINT.
const EnvPrefix = "TRANSLATE_CLI"

// DefaultRegion is used when no region was configured.
const DefaultRegion = "eu-west-1"

// Config is the client-side connection record.
type Config struct {
	APIEndpoint  string    `json:"api_endpoint"`
	APIKey       string    `json:"api_key"`
	OutputBucket string    `json:"output_bucket,omitempty"`
	AWSRegion    string    `json:"aws_region"`
	ConfiguredAt time.Time `json:"configured_at"`
}

// Store loads and saves the connection record.
type Store interface {
	Load() (Config, error)
	Save(cfg Config) error
}

// DefaultPath returns the well-known config location under the user's home
// directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".translate-cli", "config.json"), nil
}

// FileStore is the production Store.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a file-backed store at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the config file and applies environment overrides. A missing
// file yields a zero config without error so `configure` can run first.
func (s *FileStore) Load() (Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cfg Config
	body, err := os.ReadFile(s.path)
	switch {
	case os.IsNotExist(err):
		// fall through to env overrides
	case err != nil:
		return Config{}, fmt.Errorf("read config %s: %w", s.path, err)
	default:
		if err := json.Unmarshal(body, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", s.path, err)
		}
	}

	applyEnvOverrides(&cfg)
	if cfg.AWSRegion == "" {
		cfg.AWSRegion = DefaultRegion
	}
	return cfg, nil
}

// Save writes the config file with owner-only permissions (it holds the API
// key).
func (s *FileStore) Save(cfg Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	cfg.ConfiguredAt = time.Now().UTC()
	body, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, body, 0o600)
}

// applyEnvOverrides lets TRANSLATE_CLI_* variables take precedence over the
// stored record.
func applyEnvOverrides(cfg *Config) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if endpoint := v.GetString("api_endpoint"); endpoint != "" {
		cfg.APIEndpoint = endpoint
	}
	if key := v.GetString("api_key"); key != "" {
		cfg.APIKey = key
	}
	if bucket := v.GetString("output_bucket"); bucket != "" {
		cfg.OutputBucket = bucket
	}
	if region := v.GetString("aws_region"); region != "" {
		cfg.AWSRegion = region
	}
}

// MemoryStore is an in-process Store for tests.
type MemoryStore struct {
	mu  sync.Mutex
	cfg Config
	set bool
}

// NewMemoryStore creates a MemoryStore, optionally seeded.
func NewMemoryStore(cfg *Config) *MemoryStore {
	s := &MemoryStore{}
	if cfg != nil {
		s.cfg = *cfg
		s.set = true
	}
	return s
}

// Load returns the seeded or last-saved config.
func (s *MemoryStore) Load() (Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.cfg
	if cfg.AWSRegion == "" {
		cfg.AWSRegion = DefaultRegion
	}
	return cfg, nil
}

// Save replaces the stored config.
func (s *MemoryStore) Save(cfg Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	s.set = true
	return nil
}
