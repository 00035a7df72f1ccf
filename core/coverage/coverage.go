// Package coverage derives city, demand and highway corridor coverage from an
// interpreted plan.
package coverage

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/kilianp07/chargeplan/core/geo"
	"github.com/kilianp07/chargeplan/core/model"
)

// Percent returns round(100 * part / whole), rounding half to even. A zero
// whole yields 0.
func Percent(part, whole float64) int {
	if whole == 0 {
		return 0
	}
	return int(math.RoundToEven(100 * part / whole))
}

// CityPercent is the share of demand points with a serving station.
func CityPercent(covered, total int) int {
	return Percent(float64(covered), float64(total))
}

// DemandPercent is the share of effective demand that is served.
func DemandPercent(served, total float64) int {
	return Percent(served, total)
}

// Corridor evaluates one highway corridor against the selected stations.
// A segment is covered when its arithmetic midpoint lies within rangeKm of a
// station. Segments joining a site to itself are skipped.
func Corridor(cat *model.Catalog, hw model.HighwayCorridor, stations []orb.Point, rangeKm float64) model.CorridorCoverage {
	cc := model.CorridorCoverage{Name: hw.Name}
	for k := 0; k+1 < len(hw.Sites); k++ {
		a, b := hw.Sites[k], hw.Sites[k+1]
		if a == b {
			cc.Skipped++
			continue
		}
		sa, okA := cat.Site(a)
		sb, okB := cat.Site(b)
		if !okA || !okB {
			cc.Skipped++
			continue
		}
		cc.Segments++
		if geo.WithinRange(geo.Midpoint(sa.Location, sb.Location), stations, rangeKm) {
			cc.Covered++
		}
	}
	cc.Percent = Percent(float64(cc.Covered), float64(cc.Segments))
	return cc
}

// Corridors evaluates every corridor of the catalog.
func Corridors(cat *model.Catalog, selected []int, rangeKm float64) []model.CorridorCoverage {
	stations := make([]orb.Point, 0, len(selected))
	for _, id := range selected {
		if s, ok := cat.Site(id); ok {
			stations = append(stations, s.Location)
		}
	}
	out := make([]model.CorridorCoverage, len(cat.Corridors))
	for i, hw := range cat.Corridors {
		out[i] = Corridor(cat, hw, stations, rangeKm)
	}
	return out
}

// Analyze fills the coverage figures of res in place.
func Analyze(cat *model.Catalog, res *model.SolutionResult, rangeKm float64) {
	res.CitiesCovered = len(res.Assignments)
	res.CityCoveragePct = CityPercent(res.CitiesCovered, cat.Len())
	res.DemandCoveragePct = DemandPercent(res.DemandServed, res.TotalDemand)
	res.Corridors = Corridors(cat, res.Selected, rangeKm)
}
