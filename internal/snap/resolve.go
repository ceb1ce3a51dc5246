package snap

import (
	"github.com/OCAP2/mapsnap/internal/geo"
	"github.com/OCAP2/mapsnap/pkg/core"
)

// Match is the closest point of one candidate to the cursor.
type Match struct {
	Point core.Coordinate
	// Segment is the edge Point lies on. Nil for markers.
	Segment []core.Coordinate
	// Distance to the cursor in kilometers.
	Distance float64
	IsMarker bool
	Feature  core.Feature
}

// matchFuncs dispatches on the candidate geometry kind. A false result
// means the candidate produced no usable projection.
var matchFuncs = map[core.Kind]func(core.Coordinate, core.Feature) (Match, bool){
	core.KindPoint:   matchPoint,
	core.KindLine:    matchBoundary,
	core.KindPolygon: matchBoundary,
}

func matchPoint(cursor core.Coordinate, f core.Feature) (Match, bool) {
	if len(f.Coordinates) != 1 {
		return Match{}, false
	}
	p := f.Coordinates[0]
	return Match{Point: p, Distance: geo.Distance(p, cursor), IsMarker: true}, true
}

func matchBoundary(cursor core.Coordinate, f core.Feature) (Match, bool) {
	var (
		best  Match
		found bool
	)
	for _, line := range geo.Boundaries(f) {
		lp, ok := geo.NearestPointOnLine(line, cursor)
		if !ok {
			continue
		}
		if !found || lp.Distance < best.Distance {
			best = Match{Point: lp.Point, Segment: lp.Segment(line), Distance: lp.Distance}
			found = true
		}
	}
	return best, found
}

// Closest returns the candidate nearest to cursor. Candidates without a
// usable projection, and those at distance zero, never replace the current
// best. The boolean is false when nothing qualified.
func Closest(cursor core.Coordinate, candidates []Candidate) (Match, bool) {
	var (
		best  Match
		found bool
	)
	for _, c := range candidates {
		fn, ok := matchFuncs[c.Feature.Kind]
		if !ok {
			continue
		}
		m, ok := fn(cursor, c.Feature)
		if !ok || m.Distance == 0 {
			continue
		}
		if !found || m.Distance < best.Distance {
			m.Feature = c.Feature
			m.IsMarker = c.IsMarker
			best = m
			found = true
		}
	}
	return best, found
}
