package placement

import (
	"errors"
	"fmt"
)

// ErrInvalidParams is returned for policy parameters outside their domain.
var ErrInvalidParams = errors.New("invalid planning parameters")

// Params holds the policy inputs of a planning run.
type Params struct {
	// Budget is the capital available for construction.
	Budget float64 `json:"budget"`
	// CoverageRangeKm is the maximum distance at which a station serves a
	// demand point.
	CoverageRangeKm float64 `json:"coverage_range_km"`
	// MinStations is the minimum number of stations to build.
	MinStations int `json:"min_stations"`
	// DemandMultiplier scales every baseline demand.
	DemandMultiplier float64 `json:"demand_multiplier"`
}

// DefaultParams returns the default planning policy.
func DefaultParams() Params {
	return Params{Budget: 1500, CoverageRangeKm: 250, MinStations: 10, DemandMultiplier: 1.0}
}

// SetDefaults fills a zero multiplier with 1.
func (p *Params) SetDefaults() {
	if p.DemandMultiplier == 0 {
		p.DemandMultiplier = 1.0
	}
}

// Validate checks the parameters against a catalog of n sites.
func (p Params) Validate(n int) error {
	switch {
	case p.Budget < 0:
		return fmt.Errorf("%w: budget %v must not be negative", ErrInvalidParams, p.Budget)
	case p.CoverageRangeKm <= 0:
		return fmt.Errorf("%w: coverage range %v must be positive", ErrInvalidParams, p.CoverageRangeKm)
	case p.MinStations < 0:
		return fmt.Errorf("%w: min stations %d must not be negative", ErrInvalidParams, p.MinStations)
	case p.MinStations > n:
		return fmt.Errorf("%w: min stations %d exceeds %d candidate sites", ErrInvalidParams, p.MinStations, n)
	case p.DemandMultiplier <= 0:
		return fmt.Errorf("%w: demand multiplier %v must be positive", ErrInvalidParams, p.DemandMultiplier)
	}
	return nil
}
