package snap

import (
	"fmt"

	"github.com/OCAP2/mapsnap/internal/geo"
	"github.com/OCAP2/mapsnap/internal/viewport"
	"github.com/OCAP2/mapsnap/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
)

// Candidate is a feature eligible for snapping during the current resolution.
type Candidate struct {
	Feature  core.Feature
	IsMarker bool
}

// Index holds the snap candidates and the guide vertex pool for one viewport.
type Index struct {
	SnapList []Candidate
	Vertices []core.Coordinate
}

// OwnVertices returns the already placed vertices of the feature being
// drawn: the live cursor vertex is dropped from lines, and from polygons
// both the live vertex and the ring-closing duplicate.
func OwnVertices(f core.Feature) []core.Coordinate {
	switch f.Kind {
	case core.KindLine:
		if len(f.Coordinates) < 2 {
			return nil
		}
		return f.Coordinates[:len(f.Coordinates)-1]
	case core.KindPolygon:
		if len(f.Rings) == 0 || len(f.Rings[0]) < 3 {
			return nil
		}
		return f.Rings[0][:len(f.Rings[0])-2]
	default:
		return nil
	}
}

// BuildIndex culls features to the viewport. The feature with currentID is
// never a candidate, but its placed vertices always join the pool even when
// off-screen. Guide features are skipped. Vertices of other features join
// the pool only when on-screen, while candidacy uses true geometric overlap
// with the viewport quadrilateral.
func BuildIndex(features []core.Feature, currentID string, vp viewport.Viewport) (Index, error) {
	bounds, err := viewport.Bounds(vp)
	if err != nil {
		return Index{}, fmt.Errorf("building viewport bounds: %w", err)
	}

	var ix Index
	for _, f := range features {
		if f.ID == currentID {
			ix.Vertices = append(ix.Vertices, OwnVertices(f)...)
			continue
		}
		if core.IsGuide(f.ID) {
			continue
		}

		coords, err := geo.Flatten(f)
		if err != nil {
			return Index{}, err
		}
		for _, c := range coords {
			if viewport.OnScreen(vp, c) {
				ix.Vertices = append(ix.Vertices, c)
			}
		}

		g, err := geo.ToGeometry(f)
		if err != nil {
			return Index{}, err
		}
		if geom.Intersects(bounds, g) {
			ix.SnapList = append(ix.SnapList, Candidate{
				Feature:  f,
				IsMarker: f.Kind == core.KindPoint,
			})
		}
	}

	recordIndex(ix)
	return ix, nil
}
