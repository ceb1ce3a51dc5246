package snap

import (
	"errors"

	"github.com/OCAP2/mapsnap/internal/geo"
	"github.com/OCAP2/mapsnap/pkg/core"
)

// ErrNoSegment is returned when a priority check is asked of a match that
// carries no segment.
var ErrNoSegment = errors.New("no segment available")

// PrioritySnap decides whether an endpoint of the matched segment, or its
// midpoint when enabled, should replace the nearest point on the edge. The
// nearer of A and B, or M if it beats both, wins when it lies within the
// priority distance of the projected point C.
func PrioritySnap(m Match, opts SnapOptions) (core.Coordinate, error) {
	if len(m.Segment) != 2 {
		return core.Coordinate{}, ErrNoSegment
	}
	a, b, c := m.Segment[0], m.Segment[1], m.Point

	distanceAC := geo.Distance(a, c)
	distanceBC := geo.Distance(b, c)

	closest, shortest := b, distanceBC
	if distanceAC < distanceBC {
		closest, shortest = a, distanceAC
	}

	if opts.SnapToMidPoints {
		mid := geo.Midpoint(a, b)
		distanceMC := geo.Distance(mid, c)
		if distanceMC < distanceAC && distanceMC < distanceBC {
			closest, shortest = mid, distanceMC
		}
	}

	if shortest < opts.PriorityDistance() {
		return closest, nil
	}
	return c, nil
}
