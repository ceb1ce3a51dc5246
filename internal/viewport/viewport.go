// Package viewport describes the visible map area the snapping engine culls
// against.
package viewport

import (
	"github.com/OCAP2/mapsnap/internal/geo"
	"github.com/OCAP2/mapsnap/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
)

// Viewport is implemented by the host map.
type Viewport interface {
	// CanvasSize returns the canvas width and height in pixels.
	CanvasSize() (width, height float64)
	// Project converts a coordinate to screen pixels.
	Project(c core.Coordinate) (x, y float64)
	// Unproject converts a screen pixel to a coordinate.
	Unproject(x, y float64) core.Coordinate
	// Zoom returns the current zoom level.
	Zoom() float64
}

// Corners returns the four screen corners in ground coordinates, clockwise
// from the upper left.
func Corners(v Viewport) [4]core.Coordinate {
	w, h := v.CanvasSize()
	return [4]core.Coordinate{
		v.Unproject(0, 0),
		v.Unproject(w, 0),
		v.Unproject(w, h),
		v.Unproject(0, h),
	}
}

// Bounds returns the viewport quadrilateral as a polygon.
func Bounds(v Viewport) (geom.Geometry, error) {
	c := Corners(v)
	return geo.ToGeometry(core.NewPolygon("viewport", c[:]))
}

// OnScreen reports whether c projects strictly inside the canvas.
func OnScreen(v Viewport, c core.Coordinate) bool {
	w, h := v.CanvasSize()
	x, y := v.Project(c)
	return x > 0 && x < w && y > 0 && y < h
}
