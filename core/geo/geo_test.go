package geo

import (
	"math/rand"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestHaversineKnownDistances(t *testing.T) {
	delhi := orb.Point{77.21, 28.61}
	mumbai := orb.Point{72.88, 19.08}
	assert.InDelta(t, 1147.23, Haversine(delhi, mumbai), 0.01)
	assert.InDelta(t, 111.195, Haversine(orb.Point{0, 0}, orb.Point{1, 0}), 0.001)
}

func TestHaversineProperties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		a := orb.Point{r.Float64()*360 - 180, r.Float64()*180 - 90}
		b := orb.Point{r.Float64()*360 - 180, r.Float64()*180 - 90}
		ab, ba := Haversine(a, b), Haversine(b, a)
		if ab < 0 {
			t.Fatalf("negative distance %v for %v %v", ab, a, b)
		}
		if ab != ba {
			t.Fatalf("asymmetric distance %v != %v", ab, ba)
		}
		if d := Haversine(a, a); d != 0 {
			t.Fatalf("self distance %v", d)
		}
	}
}

func TestMidpointIsArithmetic(t *testing.T) {
	m := Midpoint(orb.Point{72.88, 19.08}, orb.Point{77.21, 28.61})
	assert.InDelta(t, 75.045, m.Lon(), 1e-9)
	assert.InDelta(t, 23.845, m.Lat(), 1e-9)
}

func TestWithinRange(t *testing.T) {
	pts := []orb.Point{{0, 0}, {10, 0}}
	assert.True(t, WithinRange(orb.Point{1, 0}, pts, 112))
	assert.False(t, WithinRange(orb.Point{5, 0}, pts, 500))
	assert.False(t, WithinRange(orb.Point{5, 0}, nil, 1e6))
}

func TestDistanceMatrix(t *testing.T) {
	pts := []orb.Point{{0, 0}, {1, 0}, {0, 1}, {77.21, 28.61}}
	d := NewDistanceMatrix(pts)
	assert.Equal(t, 4, d.Len())
	for i := range pts {
		assert.Equal(t, 0.0, d.At(i, i))
		for j := range pts {
			assert.Equal(t, d.At(i, j), d.At(j, i))
			assert.Equal(t, Haversine(pts[i], pts[j]), d.At(i, j))
		}
	}
	assert.Equal(t, Haversine(pts[0], pts[3]), d.Max())
}

func TestDistanceMatrixEmpty(t *testing.T) {
	d := NewDistanceMatrix(nil)
	assert.Equal(t, 0, d.Len())
	assert.Equal(t, 0.0, d.Max())
}
