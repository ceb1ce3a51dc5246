package snap

import (
	"testing"

	"github.com/OCAP2/mapsnap/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func meridianState(vertices ...core.Coordinate) State {
	return State{
		Index: Index{
			SnapList: candidates(core.NewLine("meridian", c(0, 0), c(0, 10))),
			Vertices: vertices,
		},
		Zoom: 10,
	}
}

func TestResolve_AltBypassesEverything(t *testing.T) {
	allOptions := []Options{
		DefaultOptions(),
		{},
		{Snap: true},
		{Guides: true},
		{Snap: true, Guides: true, SnapOptions: SnapOptions{SnapPx: 500, SnapToMidPoints: true}},
	}
	states := []State{
		{},
		meridianState(c(0.0001, 5)),
		{Index: Index{SnapList: candidates(core.NewPoint("p", c(0.0001, 5)))}, Zoom: 20},
	}
	cursors := []core.Coordinate{c(0.0001, 5), c(0, 5), c(-120.5, 33.25), c(0.00011, 4.99999)}

	for _, opts := range allOptions {
		for _, st := range states {
			st.Guides = GuideLines{Vertical: GuideLine{Visible: true}, Horizontal: GuideLine{Visible: true}}
			for _, x := range cursors {
				res, next, err := Resolve(st, Event{Coordinate: x, AltKey: true}, opts)
				require.NoError(t, err)
				assert.Equal(t, x, res.Coordinate)
				assert.Equal(t, BranchAlt, res.Branch)
				assert.False(t, next.Guides.Vertical.Visible)
				assert.False(t, next.Guides.Horizontal.Visible)
			}
		}
	}
}

func TestResolve_ShiftAlignsToLastVertex(t *testing.T) {
	last := c(1, 1)
	st := meridianState(c(1.004, 3))
	st.LastVertex = &last
	st.Guides.Vertical.Visible = true

	res, next, err := Resolve(st, Event{Coordinate: c(1.005, 3), ShiftKey: true, AltKey: true}, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, BranchShift, res.Branch)
	assert.Equal(t, c(1, 3), res.Coordinate, "only the last vertex counts, not the pool")
	assert.Equal(t, st.Guides, next.Guides, "shift leaves guides alone")
}

func TestResolve_ShiftWithoutLastVertex(t *testing.T) {
	res, _, err := Resolve(meridianState(), Event{Coordinate: c(0.0001, 5), ShiftKey: true}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, BranchRaw, res.Branch)
	assert.Equal(t, c(0.0001, 5), res.Coordinate)
}

func TestResolve_SnapsOntoLine(t *testing.T) {
	// 15px at zoom 10 around latitude 5 is ~2284m; the cursor is ~11m away
	opts := Options{Snap: true, SnapOptions: SnapOptions{SnapPx: 15}}
	res, _, err := Resolve(meridianState(), Event{Coordinate: c(0.0001, 5)}, opts)
	require.NoError(t, err)

	assert.Equal(t, BranchFeature, res.Branch)
	assert.InDelta(t, 0, res.Coordinate.Lng, 1e-9)
	assert.InDelta(t, 5, res.Coordinate.Lat, 1e-9)
	require.NotNil(t, res.Match)
	assert.InDelta(t, 0.01108, res.Match.Distance, 1e-5)
}

func TestResolve_OutsideThreshold(t *testing.T) {
	// ~5.5km from the line
	opts := Options{Snap: true, SnapOptions: SnapOptions{SnapPx: 15}}
	res, _, err := Resolve(meridianState(), Event{Coordinate: c(0.05, 5)}, opts)
	require.NoError(t, err)

	assert.Equal(t, BranchRaw, res.Branch)
	assert.Equal(t, c(0.05, 5), res.Coordinate)
	assert.NotNil(t, res.Match, "the candidate was considered")
}

func TestResolve_LargerSnapPxWidensThreshold(t *testing.T) {
	opts := Options{Snap: true, SnapOptions: SnapOptions{SnapPx: 50}}
	res, _, err := Resolve(meridianState(), Event{Coordinate: c(0.05, 5)}, opts)
	require.NoError(t, err)
	assert.Equal(t, BranchFeature, res.Branch)
}

func TestResolve_FeatureBeatsGuide(t *testing.T) {
	st := meridianState(c(0.003, 5.002))
	res, next, err := Resolve(st, Event{Coordinate: c(0.0001, 5)}, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, BranchFeature, res.Branch)
	assert.InDelta(t, 0, res.Coordinate.Lng, 1e-9)
	// guides are still detected and shown
	assert.True(t, next.Guides.Vertical.Visible)
	assert.True(t, next.Guides.Horizontal.Visible)
	assert.Equal(t, 0.003, next.Guides.Vertical.Coordinates[0].Lng)
}

func TestResolve_GuideWhenFeatureTooFar(t *testing.T) {
	st := meridianState(c(0.052, 7))
	res, next, err := Resolve(st, Event{Coordinate: c(0.05, 5)}, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, BranchGuide, res.Branch)
	assert.Equal(t, c(0.052, 5), res.Coordinate, "latitude stays raw without a horizontal guide")
	assert.True(t, next.Guides.Vertical.Visible)
	assert.False(t, next.Guides.Horizontal.Visible)
	assert.Equal(t, [2]core.Coordinate{c(0.052, 15), c(0.052, -5)}, next.Guides.Vertical.Coordinates)
}

func TestResolve_SnapDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.Snap = false
	res, _, err := Resolve(meridianState(), Event{Coordinate: c(0.0001, 5)}, opts)
	require.NoError(t, err)

	assert.Equal(t, BranchRaw, res.Branch)
	assert.Nil(t, res.Match)
}

func TestResolve_GuidesDisabledHides(t *testing.T) {
	st := meridianState(c(0.052, 5.001))
	st.Guides = GuideLines{Vertical: GuideLine{Visible: true}, Horizontal: GuideLine{Visible: true}}
	opts := DefaultOptions()
	opts.Guides = false

	res, next, err := Resolve(st, Event{Coordinate: c(0.05, 5)}, opts)
	require.NoError(t, err)

	assert.Equal(t, BranchRaw, res.Branch)
	assert.False(t, next.Guides.Vertical.Visible)
	assert.False(t, next.Guides.Horizontal.Visible)
}

func TestResolve_GuidesWithoutCandidates(t *testing.T) {
	st := State{Index: Index{Vertices: []core.Coordinate{c(3, 4)}}, Zoom: 10}
	res, _, err := Resolve(st, Event{Coordinate: c(3.001, 4.002)}, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, BranchGuide, res.Branch)
	assert.Equal(t, c(3, 4), res.Coordinate)
}

func TestResolve_MarkerSnapIsExact(t *testing.T) {
	st := State{Index: Index{SnapList: candidates(core.NewPoint("p", c(0.001, 5)))}, Zoom: 10}
	res, _, err := Resolve(st, Event{Coordinate: c(0, 5)}, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, BranchFeature, res.Branch)
	assert.Equal(t, c(0.001, 5), res.Coordinate)
}

func TestResolve_CornerPriority(t *testing.T) {
	// close to the start of the segment: the vertex wins over the edge point
	st := State{Index: Index{SnapList: candidates(core.NewLine("l", c(0, 0), c(0, 1)))}, Zoom: 10}
	res, _, err := Resolve(st, Event{Coordinate: c(0.0001, 0.01)}, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, BranchFeature, res.Branch)
	assert.Equal(t, c(0, 0), res.Coordinate)
}

func TestCommit_LeavesGuidesAlone(t *testing.T) {
	st := meridianState(c(0.052, 7))
	ev := Event{Coordinate: c(0.05, 5)}

	moved, _, err := Resolve(st, ev, DefaultOptions())
	require.NoError(t, err)
	committed, err := Commit(st, ev, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, moved.Coordinate, committed.Coordinate)

	// alt on commit does not touch the caller's state either
	st.Guides.Vertical.Visible = true
	_, err = Commit(st, Event{Coordinate: c(1, 1), AltKey: true}, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, st.Guides.Vertical.Visible)
}

func TestResolve_PriorityErrorPropagates(t *testing.T) {
	// a point candidate not flagged as a marker has no segment
	st := State{Index: Index{SnapList: []Candidate{{Feature: core.NewPoint("p", c(1, 1)), IsMarker: false}}}, Zoom: 10}
	_, _, err := Resolve(st, Event{Coordinate: c(1.001, 1)}, DefaultOptions())
	require.ErrorIs(t, err, ErrNoSegment)
}

func TestBranch_String(t *testing.T) {
	assert.Equal(t, "feature", BranchFeature.String())
	assert.Equal(t, "Branch(42)", Branch(42).String())
}
