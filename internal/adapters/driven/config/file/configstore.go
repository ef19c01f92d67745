package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/cerval-labs/cerval-cli/internal/core/domain"
)

// Store is the TOML-backed configuration store.
type Store struct {
	mu       sync.RWMutex
	filePath string
	config   Config
	validate *validator.Validate
}

// NewStore creates a config store rooted at configDir.
// If configDir is empty, defaults to ~/.cerval/config.toml.
func NewStore(configDir string) (*Store, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".cerval")
	}

	// Ensure directory exists
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	s := &Store{
		filePath: filepath.Join(configDir, "config.toml"),
		config:   Default(),
		validate: validator.New(),
	}

	if err := s.Load(); err != nil {
		return nil, err
	}

	return s, nil
}

// Load reads the configuration file. Keys absent from the file keep
// their defaults; a missing file yields the full defaults.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := Default()

	data, err := os.ReadFile(s.filePath)
	switch {
	case os.IsNotExist(err):
		// No config file yet - defaults apply
	case err != nil:
		return fmt.Errorf("reading config file: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("parsing %s: %w", s.filePath, err)
		}
	}

	if err := s.check(cfg); err != nil {
		return err
	}

	s.config = cfg
	return nil
}

// Config returns a copy of the current configuration.
func (s *Store) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// Update applies fn to a copy of the configuration, validates the
// result and persists it.
func (s *Store) Update(fn func(*Config)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.config
	fn(&cfg)

	if err := s.check(cfg); err != nil {
		return err
	}

	s.config = cfg
	return s.save()
}

// Save persists the current configuration to disk.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// Path returns the configuration file path.
func (s *Store) Path() string {
	return s.filePath
}

// save writes the configuration to the TOML file (caller must hold lock).
func (s *Store) save() error {
	data, err := toml.Marshal(s.config)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	// Restricted permissions: the file can hold service credentials
	return os.WriteFile(s.filePath, data, 0600)
}

// check validates a configuration before it is adopted.
func (s *Store) check(cfg Config) error {
	if err := s.validate.Struct(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if !domain.Framework(cfg.Validation.Framework).IsValid() {
		return fmt.Errorf("configuration validation failed: unknown framework %q", cfg.Validation.Framework)
	}
	if cfg.Knowledge.Backend == BackendREST && cfg.Knowledge.Service.BaseURL == "" {
		return fmt.Errorf("configuration validation failed: rest backend requires knowledge.service.base_url")
	}
	return nil
}
