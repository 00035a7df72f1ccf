package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/chargeplan/core/model"
	"github.com/kilianp07/chargeplan/core/placement"
	"github.com/kilianp07/chargeplan/pkg/catalog"
)

type ParamsDef struct {
	Budget           float64 `yaml:"budget"`
	RangeKm          float64 `yaml:"range_km"`
	MinStations      int     `yaml:"min_stations"`
	DemandMultiplier float64 `yaml:"demand_multiplier"`
}

func (p ParamsDef) ToModel() placement.Params {
	return placement.Params{
		Budget:           p.Budget,
		CoverageRangeKm:  p.RangeKm,
		MinStations:      p.MinStations,
		DemandMultiplier: p.DemandMultiplier,
	}
}

// Expected lists the checked outcomes. Nil fields are not checked.
type Expected struct {
	Status       string         `yaml:"status"`
	Selected     []int          `yaml:"selected,omitempty"`
	Stations     *int           `yaml:"stations,omitempty"`
	DemandServed *float64       `yaml:"demand_served,omitempty"`
	DemandPct    *int           `yaml:"demand_pct,omitempty"`
	CityPct      *int           `yaml:"city_pct,omitempty"`
	Uncovered    *int           `yaml:"uncovered,omitempty"`
	Corridors    map[string]int `yaml:"corridors,omitempty"`
}

type Scenario struct {
	Name        string                 `yaml:"name"`
	Description string                 `yaml:"description,omitempty"`
	Solvers     []string               `yaml:"solvers,omitempty"`
	Sites       []catalog.SiteFile     `yaml:"sites"`
	Corridors   []catalog.CorridorFile `yaml:"corridors,omitempty"`
	Params      ParamsDef              `yaml:"params"`
	Expected    Expected               `yaml:"expected"`
}

// Catalog builds the scenario catalog. A scenario without sites uses the
// built-in dataset.
func (s *Scenario) Catalog() (*model.Catalog, error) {
	if len(s.Sites) == 0 {
		return catalog.India(), nil
	}
	return catalog.File{Sites: s.Sites, Corridors: s.Corridors}.Catalog()
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if len(sc.Solvers) == 0 {
		sc.Solvers = []string{"bnb", "lp", "exhaustive"}
	}
	return &sc, nil
}
