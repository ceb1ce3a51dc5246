package snap

import (
	"math"

	"github.com/OCAP2/mapsnap/pkg/core"
)

const (
	// GuideEpsilon is how close, in degrees, a vertex must be on one axis
	// for the cursor to align with it.
	GuideEpsilon = 0.009
	// GuideSpan is the half length, in degrees, of a drawn guide line.
	GuideSpan = 10.0
)

// Guides holds the nearest aligned value per axis.
type Guides struct {
	// Vertical is the longitude of a vertical guide, valid when HasVertical.
	Vertical    float64
	HasVertical bool
	// Horizontal is the latitude of a horizontal guide, valid when HasHorizontal.
	Horizontal    float64
	HasHorizontal bool
}

// Found reports whether either axis aligned.
func (g Guides) Found() bool {
	return g.HasVertical || g.HasHorizontal
}

// Apply moves cursor onto whichever guides were found, axis by axis.
func (g Guides) Apply(cursor core.Coordinate) core.Coordinate {
	if g.HasVertical {
		cursor.Lng = g.Vertical
	}
	if g.HasHorizontal {
		cursor.Lat = g.Horizontal
	}
	return cursor
}

// nearestAxis returns the value closest to target among those within
// GuideEpsilon. Ties keep the first value seen.
func nearestAxis(values []float64, target float64) (float64, bool) {
	var (
		best  float64
		delta = math.Inf(1)
		found bool
	)
	for _, v := range values {
		d := math.Abs(v - target)
		if d < GuideEpsilon && d < delta {
			best, delta, found = v, d, true
		}
	}
	return best, found
}

// NearbyGuides scans vertices for longitudes and latitudes within
// GuideEpsilon of the cursor.
func NearbyGuides(vertices []core.Coordinate, cursor core.Coordinate) Guides {
	verticals := make([]float64, len(vertices))
	horizontals := make([]float64, len(vertices))
	for i, v := range vertices {
		verticals[i] = v.Lng
		horizontals[i] = v.Lat
	}

	var g Guides
	g.Vertical, g.HasVertical = nearestAxis(verticals, cursor.Lng)
	g.Horizontal, g.HasHorizontal = nearestAxis(horizontals, cursor.Lat)
	return g
}

// GuideLine is one of the two guide pseudo-features the session owns.
type GuideLine struct {
	Coordinates [2]core.Coordinate
	Visible     bool
}

// GuideLines is the rendering state of both guides.
type GuideLines struct {
	Vertical   GuideLine
	Horizontal GuideLine
}

// Update rewrites the guides for a detection at cursor. Geometry is only
// rewritten on axes that aligned; visibility follows the detection.
func (gl GuideLines) Update(g Guides, cursor core.Coordinate) GuideLines {
	if g.HasVertical {
		gl.Vertical.Coordinates = [2]core.Coordinate{
			{Lng: g.Vertical, Lat: cursor.Lat + GuideSpan},
			{Lng: g.Vertical, Lat: cursor.Lat - GuideSpan},
		}
	}
	if g.HasHorizontal {
		gl.Horizontal.Coordinates = [2]core.Coordinate{
			{Lng: cursor.Lng + GuideSpan, Lat: g.Horizontal},
			{Lng: cursor.Lng - GuideSpan, Lat: g.Horizontal},
		}
	}
	gl.Vertical.Visible = g.HasVertical
	gl.Horizontal.Visible = g.HasHorizontal
	return gl
}

// Hide clears both visibility flags and keeps the last geometry.
func (gl GuideLines) Hide() GuideLines {
	gl.Vertical.Visible = false
	gl.Horizontal.Visible = false
	return gl
}
