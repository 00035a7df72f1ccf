package model

import (
	"fmt"

	"github.com/paulmach/orb"
)

// HighwayCorridor is an ordered route of site IDs. Consecutive entries form
// segments.
type HighwayCorridor struct {
	Name  string
	Sites []int
}

// Segments returns the number of consecutive pairs in the corridor.
func (c HighwayCorridor) Segments() int {
	if len(c.Sites) < 2 {
		return 0
	}
	return len(c.Sites) - 1
}

// Catalog is the immutable reference data a plan is computed against.
type Catalog struct {
	Sites     []CandidateSite
	Corridors []HighwayCorridor

	index map[int]int
}

// NewCatalog indexes the sites and validates the catalog.
func NewCatalog(sites []CandidateSite, corridors []HighwayCorridor) (*Catalog, error) {
	c := &Catalog{Sites: sites, Corridors: corridors}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks ID uniqueness, per-site data and corridor references.
func (c *Catalog) Validate() error {
	idx := make(map[int]int, len(c.Sites))
	for i, s := range c.Sites {
		if _, dup := idx[s.ID]; dup {
			return fmt.Errorf("duplicate site id %d", s.ID)
		}
		if err := s.Validate(); err != nil {
			return err
		}
		idx[s.ID] = i
	}
	for _, hw := range c.Corridors {
		for _, id := range hw.Sites {
			if _, ok := idx[id]; !ok {
				return fmt.Errorf("corridor %q references unknown site %d", hw.Name, id)
			}
		}
	}
	c.index = idx
	return nil
}

// Index returns the position of the site with the given ID.
func (c *Catalog) Index(id int) (int, bool) {
	if c.index == nil {
		c.index = make(map[int]int, len(c.Sites))
		for i, s := range c.Sites {
			c.index[s.ID] = i
		}
	}
	i, ok := c.index[id]
	return i, ok
}

// Site returns the site with the given ID.
func (c *Catalog) Site(id int) (CandidateSite, bool) {
	i, ok := c.Index(id)
	if !ok {
		return CandidateSite{}, false
	}
	return c.Sites[i], true
}

// Len returns the number of candidate sites.
func (c *Catalog) Len() int { return len(c.Sites) }

// Points returns the site locations in catalog order.
func (c *Catalog) Points() []orb.Point {
	pts := make([]orb.Point, len(c.Sites))
	for i, s := range c.Sites {
		pts[i] = s.Location
	}
	return pts
}

// Bound returns the bounding box of all sites.
func (c *Catalog) Bound() orb.Bound {
	return orb.MultiPoint(c.Points()).Bound()
}
