package catalog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/chargeplan/core/geo"
	"github.com/kilianp07/chargeplan/core/model"
)

func TestIndia(t *testing.T) {
	cat := India()
	require.Equal(t, 35, cat.Len())
	require.Len(t, cat.Corridors, 7)

	delhi, ok := cat.Site(0)
	require.True(t, ok)
	assert.Equal(t, "Delhi", delhi.Name)
	assert.Equal(t, model.SiteMetro, delhi.Type)
	assert.Equal(t, 95.0, delhi.Cost)
	assert.Equal(t, 480.0, delhi.Demand)
	assert.Equal(t, 800.0, delhi.GridCapacity)
	assert.Equal(t, 1, delhi.Tier)

	mumbai, _ := cat.Site(1)
	assert.InDelta(t, 1147.2, geo.Haversine(delhi.Location, mumbai.Location), 0.5)

	var total float64
	for _, s := range cat.Sites {
		total += s.Demand
	}
	assert.Equal(t, 7380.0, total)

	segments := 0
	for _, hw := range cat.Corridors {
		segments += hw.Segments()
	}
	assert.Equal(t, 33, segments)
}

func TestIndiaReturnsFreshCopies(t *testing.T) {
	a := India()
	a.Corridors[0].Sites[0] = 34
	b := India()
	assert.Equal(t, 0, b.Corridors[0].Sites[0])
}

func TestLoad(t *testing.T) {
	cat, err := Load(filepath.Join("testdata", "small.yaml"))
	require.NoError(t, err)
	require.Equal(t, 3, cat.Len())
	g, ok := cat.Site(3)
	require.True(t, ok)
	assert.Equal(t, model.SiteHighway, g.Type)
	assert.Equal(t, 2.0, g.Lng())
	assert.Equal(t, "North", cat.Sites[0].Region)
	assert.Equal(t, []int{1, 2, 3}, cat.Corridors[0].Sites)

	cat, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 35, cat.Len())

	_, err = Load(filepath.Join("testdata", "missing.yaml"))
	assert.Error(t, err)
}

func TestDecodeErrors(t *testing.T) {
	cases := map[string]string{
		"bad type":     "sites:\n  - {id: 1, name: A, lat: 0, lng: 0, type: airport, cost: 1, demand: 1}\n",
		"unknown key":  "sites:\n  - {id: 1, name: A, lat: 0, lng: 0, type: city, cost: 1, demand: 1, colour: red}\n",
		"bad corridor": "sites:\n  - {id: 1, name: A, lat: 0, lng: 0, type: city, cost: 1, demand: 1}\ncorridors:\n  - {name: X, sites: [1, 9]}\n",
		"zero cost":    "sites:\n  - {id: 1, name: A, lat: 0, lng: 0, type: city, cost: 0, demand: 1}\n",
		"not yaml":     "sites: [",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestEncodeDecode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, India()))
	back, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, India().Sites, back.Sites)
	assert.Equal(t, India().Corridors, back.Corridors)
}

func TestLoadWrittenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cat.yaml")
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, India()))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	cat, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 35, cat.Len())
}
