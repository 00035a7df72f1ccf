package config

import (
	"fmt"
	"time"

	"github.com/kilianp07/chargeplan/core/factory"
)

// DefaultTimeLimitSeconds bounds a solve when the configuration is silent.
const DefaultTimeLimitSeconds = 60

// SolverConfig selects the MILP solver and its time limit.
type SolverConfig struct {
	// Type names a registered solver; empty selects the default.
	Type             string         `json:"type"`
	TimeLimitSeconds float64        `json:"time_limit_seconds"`
	Conf             map[string]any `json:"conf"`
}

// SetDefaults applies the default time limit.
func (c *SolverConfig) SetDefaults() {
	if c.TimeLimitSeconds == 0 {
		c.TimeLimitSeconds = DefaultTimeLimitSeconds
	}
}

// Validate rejects negative time limits.
func (c SolverConfig) Validate() error {
	if c.TimeLimitSeconds < 0 {
		return fmt.Errorf("solver.time_limit_seconds must not be negative")
	}
	return nil
}

// TimeLimit returns the limit as a duration.
func (c SolverConfig) TimeLimit() time.Duration {
	return time.Duration(c.TimeLimitSeconds * float64(time.Second))
}

// Module returns the factory configuration of the solver.
func (c SolverConfig) Module() factory.ModuleConfig {
	return factory.ModuleConfig{Type: c.Type, Conf: c.Conf}
}

// CatalogConfig locates the candidate site catalog.
type CatalogConfig struct {
	// Path to a YAML catalog; empty selects the built-in dataset.
	Path     string `json:"path"`
	Currency string `json:"currency"`
	CostUnit string `json:"cost_unit"`
}

// SetDefaults applies the currency of the built-in dataset.
func (c *CatalogConfig) SetDefaults() {
	if c.Currency == "" && c.CostUnit == "" {
		c.Currency = "₹"
		c.CostUnit = " Cr"
	}
}
