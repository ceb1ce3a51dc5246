package geo

import (
	"github.com/OCAP2/mapsnap/pkg/core"
	"github.com/golang/geo/s2"
)

// LinePoint is the closest point on a polyline to some query point.
type LinePoint struct {
	Point core.Coordinate
	// Index of the first vertex of the segment holding Point. Always leaves
	// room for the segment's second vertex.
	Index int
	// Fraction is the position of Point along its segment, 0 at the first
	// vertex and 1 at the second.
	Fraction float64
	// Distance from the query point to Point in kilometers.
	Distance float64
}

// Segment returns the two vertices of the segment lp lies on.
func (lp LinePoint) Segment(line []core.Coordinate) []core.Coordinate {
	return line[lp.Index : lp.Index+2]
}

// NearestPointOnLine returns the point along line closest to p. The boolean
// is false when line has fewer than two vertices.
func NearestPointOnLine(line []core.Coordinate, p core.Coordinate) (LinePoint, bool) {
	if len(line) < 2 {
		return LinePoint{}, false
	}

	x := toPoint(p)
	best := LinePoint{Index: -1}

	for i := 0; i < len(line)-1; i++ {
		var candidate LinePoint
		a, b := toPoint(line[i]), toPoint(line[i+1])

		switch {
		case line[i] == line[i+1]:
			candidate = LinePoint{Point: line[i], Index: i}
		default:
			proj := s2.Project(x, a, b)
			// Project hands back the endpoint itself when the foot of the
			// perpendicular falls outside the edge; keep the caller's exact
			// coordinate in that case.
			switch proj {
			case a:
				candidate = LinePoint{Point: line[i], Index: i}
			case b:
				candidate = LinePoint{Point: line[i+1], Index: i, Fraction: 1}
			default:
				candidate = LinePoint{
					Point:    fromPoint(proj),
					Index:    i,
					Fraction: s2.DistanceFraction(proj, a, b),
				}
			}
		}
		candidate.Distance = Distance(p, candidate.Point)

		if best.Index < 0 || candidate.Distance < best.Distance {
			best = candidate
		}
	}

	return best, true
}
