package model

import (
	"fmt"

	"github.com/paulmach/orb"
)

// SiteType classifies a candidate site.
type SiteType int

const (
	SiteMetro SiteType = iota
	SiteCity
	SiteHighway
	SiteTourism
)

// String returns the catalog label of the site type.
func (t SiteType) String() string {
	switch t {
	case SiteMetro:
		return "metro"
	case SiteCity:
		return "city"
	case SiteHighway:
		return "highway"
	case SiteTourism:
		return "tourism"
	default:
		return "unknown"
	}
}

// ParseSiteType converts a catalog label into a SiteType.
func ParseSiteType(s string) (SiteType, error) {
	switch s {
	case "metro":
		return SiteMetro, nil
	case "city":
		return SiteCity, nil
	case "highway":
		return SiteHighway, nil
	case "tourism":
		return SiteTourism, nil
	default:
		return 0, fmt.Errorf("unknown site type %q", s)
	}
}

// CandidateSite is a location eligible for a charging station. Every site is
// also a demand point.
type CandidateSite struct {
	ID       int
	Name     string
	Location orb.Point // lng, lat in degrees
	Type     SiteType
	Cost     float64 // construction cost in capital units
	Demand   float64 // baseline daily demand
	Region   string

	// Informational columns carried over from the source dataset.
	GridCapacity float64
	Tier         int
}

// NewSite builds a site from latitude and longitude in degrees.
func NewSite(id int, name string, lat, lng float64, typ SiteType, cost, demand float64, region string) CandidateSite {
	return CandidateSite{
		ID:       id,
		Name:     name,
		Location: orb.Point{lng, lat},
		Type:     typ,
		Cost:     cost,
		Demand:   demand,
		Region:   region,
	}
}

// Lat returns the latitude in degrees.
func (s CandidateSite) Lat() float64 { return s.Location.Lat() }

// Lng returns the longitude in degrees.
func (s CandidateSite) Lng() float64 { return s.Location.Lon() }

// Validate checks that the site carries usable reference data.
func (s CandidateSite) Validate() error {
	if s.Cost <= 0 {
		return fmt.Errorf("site %d: cost must be positive", s.ID)
	}
	if s.Demand < 0 {
		return fmt.Errorf("site %d: demand must not be negative", s.ID)
	}
	if s.Lat() < -90 || s.Lat() > 90 || s.Lng() < -180 || s.Lng() > 180 {
		return fmt.Errorf("site %d: coordinate out of range", s.ID)
	}
	return nil
}
