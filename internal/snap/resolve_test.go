package snap

import (
	"testing"

	"github.com/OCAP2/mapsnap/internal/geo"
	"github.com/OCAP2/mapsnap/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidates(features ...core.Feature) []Candidate {
	out := make([]Candidate, len(features))
	for i, f := range features {
		out[i] = Candidate{Feature: f, IsMarker: f.Kind == core.KindPoint}
	}
	return out
}

func TestClosest_Empty(t *testing.T) {
	_, ok := Closest(c(0, 0), nil)
	assert.False(t, ok)
}

func TestClosest_Marker(t *testing.T) {
	m, ok := Closest(c(0, 0), candidates(core.NewPoint("p", c(0, 1))))
	require.True(t, ok)

	assert.True(t, m.IsMarker)
	assert.Nil(t, m.Segment)
	assert.Equal(t, c(0, 1), m.Point)
	assert.Equal(t, "p", m.Feature.ID)
	assert.InDelta(t, geo.Distance(c(0, 0), c(0, 1)), m.Distance, 1e-12)
}

func TestClosest_Line(t *testing.T) {
	m, ok := Closest(c(0.0001, 5), candidates(core.NewLine("l", c(0, 0), c(0, 10))))
	require.True(t, ok)

	assert.False(t, m.IsMarker)
	assert.Equal(t, []core.Coordinate{c(0, 0), c(0, 10)}, m.Segment)
	assert.InDelta(t, 0, m.Point.Lng, 1e-9)
	assert.InDelta(t, 5, m.Point.Lat, 1e-9)
}

func TestClosest_PicksNearestCandidate(t *testing.T) {
	m, ok := Closest(c(5, 5), candidates(
		core.NewPoint("far", c(9, 9)),
		core.NewLine("near", c(5.1, 0), c(5.1, 10)),
		core.NewPoint("middle", c(6, 6)),
	))
	require.True(t, ok)
	assert.Equal(t, "near", m.Feature.ID)
}

func TestClosest_PolygonInnerRing(t *testing.T) {
	poly := core.NewPolygon("donut",
		[]core.Coordinate{c(0, 0), c(10, 0), c(10, 10), c(0, 10), c(0, 0)},
		[]core.Coordinate{c(4, 4), c(6, 4), c(6, 6), c(4, 6), c(4, 4)},
	)
	m, ok := Closest(c(5, 6.01), candidates(poly))
	require.True(t, ok)

	assert.Equal(t, []core.Coordinate{c(6, 6), c(4, 6)}, m.Segment)
	assert.InDelta(t, 5, m.Point.Lng, 1e-9)
}

func TestClosest_DegenerateLineFallsThrough(t *testing.T) {
	_, ok := Closest(c(0, 0), candidates(core.NewLine("stub", c(1, 1))))
	assert.False(t, ok)

	m, ok := Closest(c(0, 0), candidates(
		core.NewLine("stub", c(0.1, 0.1)),
		core.NewPoint("p", c(2, 2)),
	))
	require.True(t, ok)
	assert.Equal(t, "p", m.Feature.ID)
}

func TestClosest_ZeroDistanceNeverWins(t *testing.T) {
	m, ok := Closest(c(1, 1), candidates(
		core.NewPoint("under", c(1, 1)),
		core.NewPoint("next", c(1, 2)),
	))
	require.True(t, ok)
	assert.Equal(t, "next", m.Feature.ID)

	_, ok = Closest(c(1, 1), candidates(core.NewPoint("under", c(1, 1))))
	assert.False(t, ok)
}

func TestClosest_FirstWinsOnTie(t *testing.T) {
	m, ok := Closest(c(0, 0), candidates(
		core.NewPoint("north", c(0, 1)),
		core.NewPoint("south", c(0, -1)),
	))
	require.True(t, ok)
	assert.Equal(t, "north", m.Feature.ID)
}
