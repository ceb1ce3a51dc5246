// Package snap resolves a raw cursor position against nearby drawn features
// and axis-aligned guides.
package snap

import (
	"fmt"

	"github.com/OCAP2/mapsnap/internal/geo"
	"github.com/OCAP2/mapsnap/pkg/core"
)

// Branch names the rule that produced a resolved coordinate.
type Branch uint8

const (
	BranchRaw Branch = iota
	BranchShift
	BranchAlt
	BranchFeature
	BranchGuide
)

func (b Branch) String() string {
	switch b {
	case BranchRaw:
		return "raw"
	case BranchShift:
		return "shift"
	case BranchAlt:
		return "alt"
	case BranchFeature:
		return "feature"
	case BranchGuide:
		return "guide"
	default:
		return fmt.Sprintf("Branch(%d)", uint8(b))
	}
}

// Event is a pointer move or click.
type Event struct {
	Coordinate core.Coordinate
	ShiftKey   bool
	AltKey     bool
}

// State is the per-session input to every resolution.
type State struct {
	Index
	// LastVertex is the last committed vertex of the shape being drawn.
	LastVertex *core.Coordinate
	// Zoom is the map zoom level at the time of the event.
	Zoom   float64
	Guides GuideLines
}

// Result is the outcome of one resolution.
type Result struct {
	Coordinate core.Coordinate
	Branch     Branch
	// Match is the feature snap candidate considered, if any. It may be set
	// even when another branch won.
	Match *Match
}

// Resolve corrects the cursor of a pointer move. The returned State carries
// rewritten guide lines and visibility.
func Resolve(st State, ev Event, opts Options) (Result, State, error) {
	return resolve(st, ev, opts, true)
}

// Commit corrects the cursor of a click. Guide lines are left untouched.
func Commit(st State, ev Event, opts Options) (Result, error) {
	res, _, err := resolve(st, ev, opts, false)
	return res, err
}

func resolve(st State, ev Event, opts Options, writeGuides bool) (Result, State, error) {
	cursor := ev.Coordinate

	if ev.ShiftKey {
		res := Result{Coordinate: cursor, Branch: BranchRaw}
		if st.LastVertex != nil {
			res.Coordinate = NearbyGuides([]core.Coordinate{*st.LastVertex}, cursor).Apply(cursor)
			res.Branch = BranchShift
		}
		recordResolution(res.Branch)
		return res, st, nil
	}

	if ev.AltKey {
		if writeGuides {
			st.Guides = st.Guides.Hide()
		}
		recordResolution(BranchAlt)
		return Result{Coordinate: cursor, Branch: BranchAlt}, st, nil
	}

	var (
		res       Result
		target    core.Coordinate
		threshold float64
	)
	if opts.Snap && len(st.SnapList) > 0 {
		if m, ok := Closest(cursor, st.SnapList); ok {
			target = m.Point
			if !m.IsMarker {
				var err error
				target, err = PrioritySnap(m, opts.SnapOptions)
				if err != nil {
					return Result{}, st, fmt.Errorf("priority snap on %q: %w", m.Feature.ID, err)
				}
			}
			threshold = opts.SnapOptions.Px() * geo.MetersPerPixel(target.Lat, st.Zoom)
			res.Match = &m
		}
	}

	var guides Guides
	if opts.Guides {
		guides = NearbyGuides(st.Vertices, cursor)
		if writeGuides {
			st.Guides = st.Guides.Update(guides, cursor)
		}
	} else if writeGuides {
		st.Guides = st.Guides.Hide()
	}

	switch {
	case res.Match != nil && res.Match.Distance*1000 < threshold:
		res.Coordinate, res.Branch = target, BranchFeature
	case guides.Found():
		res.Coordinate, res.Branch = guides.Apply(cursor), BranchGuide
	default:
		res.Coordinate, res.Branch = cursor, BranchRaw
	}

	recordResolution(res.Branch)
	return res, st, nil
}
