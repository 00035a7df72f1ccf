// Package geo computes great-circle distances between candidate sites.
package geo

import (
	"math"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/mat"
)

// EarthRadiusKm is the mean Earth radius used for all distances.
const EarthRadiusKm = 6371.0

func degToRad(d float64) float64 { return d * math.Pi / 180 }

// Haversine returns the great-circle distance between a and b in kilometres.
// Points are orb.Point{lng, lat} in degrees.
func Haversine(a, b orb.Point) float64 {
	if a == b {
		return 0
	}
	dLat := degToRad(b.Lat() - a.Lat())
	dLon := degToRad(b.Lon() - a.Lon())
	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(degToRad(a.Lat()))*math.Cos(degToRad(b.Lat()))*sinLon*sinLon
	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Midpoint returns the arithmetic mean of the two coordinates. It is not the
// geodesic midpoint.
func Midpoint(a, b orb.Point) orb.Point {
	return orb.Point{(a[0] + b[0]) / 2, (a[1] + b[1]) / 2}
}

// WithinRange reports whether p lies within rangeKm of any of the points.
func WithinRange(p orb.Point, points []orb.Point, rangeKm float64) bool {
	for _, q := range points {
		if Haversine(p, q) <= rangeKm {
			return true
		}
	}
	return false
}

// DistanceMatrix holds pairwise distances in kilometres. It is symmetric with
// a zero diagonal.
type DistanceMatrix struct {
	n int
	m *mat.SymDense
}

// NewDistanceMatrix computes every unordered pair once and mirrors it.
func NewDistanceMatrix(points []orb.Point) *DistanceMatrix {
	n := len(points)
	if n == 0 {
		return &DistanceMatrix{}
	}
	m := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			m.SetSym(i, j, Haversine(points[i], points[j]))
		}
	}
	return &DistanceMatrix{n: n, m: m}
}

// Len returns the number of points.
func (d *DistanceMatrix) Len() int { return d.n }

// At returns the distance between points i and j.
func (d *DistanceMatrix) At(i, j int) float64 {
	return d.m.At(i, j)
}

// Max returns the largest pairwise distance, 0 for fewer than two points.
func (d *DistanceMatrix) Max() float64 {
	var max float64
	for i := 0; i < d.n; i++ {
		for j := i + 1; j < d.n; j++ {
			if v := d.m.At(i, j); v > max {
				max = v
			}
		}
	}
	return max
}
