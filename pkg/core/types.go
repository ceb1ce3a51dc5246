// pkg/core/types.go
package core

import "fmt"

// Coordinate is a longitude/latitude pair in degrees
type Coordinate struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%g, %g)", c.Lng, c.Lat)
}

// Kind discriminates the geometry held by a Feature
type Kind uint8

const (
	KindPoint Kind = iota
	KindLine
	KindPolygon
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "Point"
	case KindLine:
		return "LineString"
	case KindPolygon:
		return "Polygon"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Guide feature IDs. These are owned by the drawing session and are never
// snap candidates.
const (
	VerticalGuideID   = "VERTICAL_GUIDE"
	HorizontalGuideID = "HORIZONTAL_GUIDE"
)

// IsGuide reports whether id names one of the guide pseudo-features
func IsGuide(id string) bool {
	return id == VerticalGuideID || id == HorizontalGuideID
}
