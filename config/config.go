package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/chargeplan/core/history"
	"github.com/kilianp07/chargeplan/core/metrics"
	"github.com/kilianp07/chargeplan/core/placement"
	"github.com/kilianp07/chargeplan/infra/mqtt"
)

type Config struct {
	Planner placement.Params `json:"planner"`
	Solver  SolverConfig     `json:"solver"`
	Catalog CatalogConfig    `json:"catalog"`
	Metrics metrics.Config   `json:"metrics"`
	History history.Config   `json:"history"`
	Publish mqtt.Config      `json:"publish"`
	Logging LoggingConfig    `json:"logging"`
	API     APIConfig        `json:"api"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{Planner: placement.DefaultParams()}
	cfg.SetDefaults()
	return cfg
}

// Load reads a yaml or json file, applies K_ prefixed environment overrides
// and validates the result. An empty path starts from Default.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("K_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	cfg := &Config{Planner: placement.DefaultParams()}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetDefaults fills unset fields of every section.
func (c *Config) SetDefaults() {
	c.Planner.SetDefaults()
	c.Solver.SetDefaults()
	c.Catalog.SetDefaults()
	c.History.SetDefaults()
	c.Logging.SetDefaults()
	c.API.SetDefaults()
	if c.Publish.Enabled() {
		c.Publish.SetDefaults()
	}
}

// Validate checks every section. Planner parameters are checked against the
// catalog at run time.
func (c *Config) Validate() error {
	if err := c.Solver.Validate(); err != nil {
		return err
	}
	if err := c.History.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := c.API.Validate(); err != nil {
		return err
	}
	if c.Publish.Enabled() {
		if err := c.Publish.Validate(); err != nil {
			return err
		}
	}
	return nil
}
