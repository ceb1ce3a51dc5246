// pkg/core/feature.go
package core

// Feature is a drawn shape owned by the host feature store.
//
// Point and Line features use Coordinates. Polygon features use Rings, where
// the first ring is the outer boundary and every ring repeats its first
// vertex at the end.
type Feature struct {
	ID          string
	Kind        Kind
	Coordinates []Coordinate
	Rings       [][]Coordinate
	Properties  map[string]any
}

// NewPoint creates a point feature
func NewPoint(id string, c Coordinate) Feature {
	return Feature{ID: id, Kind: KindPoint, Coordinates: []Coordinate{c}}
}

// NewLine creates a line feature from its vertices
func NewLine(id string, coords ...Coordinate) Feature {
	return Feature{ID: id, Kind: KindLine, Coordinates: coords}
}

// NewPolygon creates a polygon feature from its rings
func NewPolygon(id string, rings ...[]Coordinate) Feature {
	return Feature{ID: id, Kind: KindPolygon, Rings: rings}
}

// Clone returns a deep copy so callers can hand features across the store
// boundary without sharing backing arrays.
func (f Feature) Clone() Feature {
	out := Feature{ID: f.ID, Kind: f.Kind}
	if f.Coordinates != nil {
		out.Coordinates = append([]Coordinate(nil), f.Coordinates...)
	}
	if f.Rings != nil {
		out.Rings = make([][]Coordinate, len(f.Rings))
		for i, r := range f.Rings {
			out.Rings[i] = append([]Coordinate(nil), r...)
		}
	}
	if f.Properties != nil {
		out.Properties = make(map[string]any, len(f.Properties))
		for k, v := range f.Properties {
			out.Properties[k] = v
		}
	}
	return out
}
