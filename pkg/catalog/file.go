// Package catalog provides candidate site catalogs: the built-in Indian
// dataset and YAML catalog files.
package catalog

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/chargeplan/core/model"
)

// SiteFile is the YAML representation of a candidate site.
type SiteFile struct {
	ID           int     `yaml:"id"`
	Name         string  `yaml:"name"`
	Lat          float64 `yaml:"lat"`
	Lng          float64 `yaml:"lng"`
	Type         string  `yaml:"type"`
	Cost         float64 `yaml:"cost"`
	Demand       float64 `yaml:"demand"`
	Region       string  `yaml:"region,omitempty"`
	GridCapacity float64 `yaml:"grid_capacity,omitempty"`
	Tier         int     `yaml:"tier,omitempty"`
}

// CorridorFile is the YAML representation of a highway corridor.
type CorridorFile struct {
	Name  string `yaml:"name"`
	Sites []int  `yaml:"sites"`
}

// File is the top-level layout of a catalog file.
type File struct {
	Sites     []SiteFile     `yaml:"sites"`
	Corridors []CorridorFile `yaml:"corridors"`
}

// Load reads a catalog file. An empty path returns the built-in catalog.
func Load(path string) (*model.Catalog, error) {
	if path == "" {
		return India(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer func() { _ = f.Close() }()
	cat, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return cat, nil
}

// Decode parses a YAML catalog and validates it.
func Decode(r io.Reader) (*model.Catalog, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return file.Catalog()
}

// Catalog converts the file into a validated catalog.
func (f File) Catalog() (*model.Catalog, error) {
	sites := make([]model.CandidateSite, len(f.Sites))
	for i, s := range f.Sites {
		typ, err := model.ParseSiteType(s.Type)
		if err != nil {
			return nil, fmt.Errorf("site %d: %w", s.ID, err)
		}
		site := model.NewSite(s.ID, s.Name, s.Lat, s.Lng, typ, s.Cost, s.Demand, s.Region)
		site.GridCapacity = s.GridCapacity
		site.Tier = s.Tier
		sites[i] = site
	}
	corridors := make([]model.HighwayCorridor, len(f.Corridors))
	for i, c := range f.Corridors {
		corridors[i] = model.HighwayCorridor{Name: c.Name, Sites: c.Sites}
	}
	return model.NewCatalog(sites, corridors)
}

// FromCatalog converts a catalog back into its file representation.
func FromCatalog(cat *model.Catalog) File {
	var f File
	for _, s := range cat.Sites {
		f.Sites = append(f.Sites, SiteFile{
			ID:           s.ID,
			Name:         s.Name,
			Lat:          s.Lat(),
			Lng:          s.Lng(),
			Type:         s.Type.String(),
			Cost:         s.Cost,
			Demand:       s.Demand,
			Region:       s.Region,
			GridCapacity: s.GridCapacity,
			Tier:         s.Tier,
		})
	}
	for _, c := range cat.Corridors {
		f.Corridors = append(f.Corridors, CorridorFile{Name: c.Name, Sites: c.Sites})
	}
	return f
}

// Encode writes the catalog as YAML.
func Encode(w io.Writer, cat *model.Catalog) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(FromCatalog(cat)); err != nil {
		return err
	}
	return enc.Close()
}
