package geo

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/OCAP2/mapsnap/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
)

// ErrMalformedFeature is returned when a feature's coordinates do not match
// its declared kind.
var ErrMalformedFeature = errors.New("malformed feature")

// Flatten returns every vertex of f in storage order.
func Flatten(f core.Feature) ([]core.Coordinate, error) {
	switch f.Kind {
	case core.KindPoint:
		if len(f.Coordinates) != 1 {
			return nil, fmt.Errorf("%w: point %q has %d coordinates", ErrMalformedFeature, f.ID, len(f.Coordinates))
		}
		return f.Coordinates, nil
	case core.KindLine:
		return f.Coordinates, nil
	case core.KindPolygon:
		var out []core.Coordinate
		for _, ring := range f.Rings {
			out = append(out, ring...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: feature %q has unknown kind %s", ErrMalformedFeature, f.ID, f.Kind)
	}
}

// Boundaries returns the polylines a cursor can snap onto: the line itself,
// or every ring of a polygon.
func Boundaries(f core.Feature) [][]core.Coordinate {
	switch f.Kind {
	case core.KindLine:
		return [][]core.Coordinate{f.Coordinates}
	case core.KindPolygon:
		return f.Rings
	default:
		return nil
	}
}

func sequence(coords []core.Coordinate, closed bool) geom.Sequence {
	flat := make([]float64, 0, len(coords)*2+2)
	for _, c := range coords {
		flat = append(flat, c.Lng, c.Lat)
	}
	if closed && len(coords) > 0 && coords[0] != coords[len(coords)-1] {
		flat = append(flat, coords[0].Lng, coords[0].Lat)
	}
	return geom.NewSequence(flat, geom.DimXY)
}

func point(c core.Coordinate) geom.Geometry {
	return geom.NewPoint(geom.Coordinates{
		XY:   geom.XY{X: c.Lng, Y: c.Lat},
		Type: geom.DimXY,
	}).AsGeometry()
}

// ToGeometry converts f into a simplefeatures geometry for spatial predicates.
// Lines with a single vertex degrade to a point, and empty features to an
// empty geometry that intersects nothing.
func ToGeometry(f core.Feature) (geom.Geometry, error) {
	switch f.Kind {
	case core.KindPoint:
		if len(f.Coordinates) != 1 {
			return geom.Geometry{}, fmt.Errorf("%w: point %q has %d coordinates", ErrMalformedFeature, f.ID, len(f.Coordinates))
		}
		return point(f.Coordinates[0]), nil
	case core.KindLine:
		switch len(f.Coordinates) {
		case 0:
			return geom.Geometry{}, nil
		case 1:
			return point(f.Coordinates[0]), nil
		}
		return geom.NewLineString(sequence(f.Coordinates, false)).AsGeometry(), nil
	case core.KindPolygon:
		rings := make([]geom.LineString, 0, len(f.Rings))
		for _, r := range f.Rings {
			if len(r) < 3 {
				continue
			}
			rings = append(rings, geom.NewLineString(sequence(r, true)))
		}
		if len(rings) == 0 {
			if len(f.Rings) > 0 && len(f.Rings[0]) > 0 {
				return point(f.Rings[0][0]), nil
			}
			return geom.Geometry{}, nil
		}
		return geom.NewPolygon(rings).AsGeometry(), nil
	default:
		return geom.Geometry{}, fmt.Errorf("%w: feature %q has unknown kind %s", ErrMalformedFeature, f.ID, f.Kind)
	}
}

func fromSequence(seq geom.Sequence) []core.Coordinate {
	n := seq.Length()
	out := make([]core.Coordinate, n)
	for i := 0; i < n; i++ {
		xy := seq.GetXY(i)
		out[i] = core.Coordinate{Lng: xy.X, Lat: xy.Y}
	}
	return out
}

// FromGeometry converts a simplefeatures Point, LineString or Polygon into a
// Feature with the given ID.
func FromGeometry(id string, g geom.Geometry) (core.Feature, error) {
	switch g.Type() {
	case geom.TypePoint:
		c, ok := g.MustAsPoint().Coordinates()
		if !ok {
			return core.Feature{}, fmt.Errorf("%w: empty point %q", ErrMalformedFeature, id)
		}
		return core.NewPoint(id, core.Coordinate{Lng: c.X, Lat: c.Y}), nil
	case geom.TypeLineString:
		return core.NewLine(id, fromSequence(g.MustAsLineString().Coordinates())...), nil
	case geom.TypePolygon:
		p := g.MustAsPolygon()
		if p.IsEmpty() {
			return core.Feature{}, fmt.Errorf("%w: empty polygon %q", ErrMalformedFeature, id)
		}
		rings := [][]core.Coordinate{fromSequence(p.ExteriorRing().Coordinates())}
		for i := 0; i < p.NumInteriorRings(); i++ {
			rings = append(rings, fromSequence(p.InteriorRingN(i).Coordinates()))
		}
		return core.NewPolygon(id, rings...), nil
	default:
		return core.Feature{}, fmt.Errorf("%w: unsupported geometry type %s for %q", ErrMalformedFeature, g.Type(), id)
	}
}

// ReadFeatureCollection decodes a GeoJSON FeatureCollection. Features
// without an ID are numbered by their position in the collection.
func ReadFeatureCollection(r io.Reader) ([]core.Feature, error) {
	var fc geom.GeoJSONFeatureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, fmt.Errorf("failed to parse feature collection: %w", err)
	}

	features := make([]core.Feature, 0, len(fc))
	for i, gf := range fc {
		id := fmt.Sprintf("feature-%d", i)
		if gf.ID != nil {
			id = fmt.Sprint(gf.ID)
		}
		f, err := FromGeometry(id, gf.Geometry)
		if err != nil {
			return nil, err
		}
		f.Properties = gf.Properties
		features = append(features, f)
	}
	return features, nil
}
