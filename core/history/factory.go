package history

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config selects the history backend.
type Config struct {
	// Backend is one of "none", "jsonl" or "sqlite".
	Backend    string `json:"backend"`
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

// SetDefaults fills unset rotation options and the default path.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "none"
	}
	if c.Path == "" {
		switch c.Backend {
		case "jsonl":
			c.Path = filepath.Join("data", "runs.jsonl")
		case "sqlite":
			c.Path = filepath.Join("data", "runs.db")
		}
	}
	if c.MaxSizeMB == 0 {
		c.MaxSizeMB = 10
	}
	if c.MaxBackups == 0 {
		c.MaxBackups = 3
	}
	if c.MaxAgeDays == 0 {
		c.MaxAgeDays = 30
	}
}

// Validate checks the backend name.
func (c Config) Validate() error {
	switch c.Backend {
	case "", "none", "jsonl", "sqlite":
		return nil
	default:
		return fmt.Errorf("history.backend: unknown backend %q", c.Backend)
	}
}

// Open creates the configured store.
func Open(c Config) (Store, error) {
	c.SetDefaults()
	switch c.Backend {
	case "none":
		return NopStore{}, nil
	case "jsonl":
		return NewRotatingJSONLStore(c.Path, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays)
	case "sqlite":
		if dir := filepath.Dir(c.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
		return NewSQLiteStore(c.Path)
	default:
		return nil, fmt.Errorf("unknown history backend %q", c.Backend)
	}
}
