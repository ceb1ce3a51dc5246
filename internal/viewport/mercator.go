package viewport

import (
	"math"

	"github.com/OCAP2/mapsnap/pkg/core"
	"github.com/wroge/wgs84"
)

// webMercatorExtent is the circumference of the EPSG:3857 world in meters.
const webMercatorExtent = 2 * math.Pi * 6378137

// WebMercator is a Viewport over a 256px-tile Web Mercator map, centered on
// a coordinate at a fixed zoom. It stands in for the host map in the CLI and
// in tests.
type WebMercator struct {
	center  core.Coordinate
	zoom    float64
	width   float64
	height  float64
	forward transform
	inverse transform
}

type transform func(a, b, c float64) (float64, float64, float64)

// NewWebMercator creates a viewport of width x height pixels.
func NewWebMercator(center core.Coordinate, zoom, width, height float64) *WebMercator {
	epsg := wgs84.EPSG()
	return &WebMercator{
		center:  center,
		zoom:    zoom,
		width:   width,
		height:  height,
		forward: transform(epsg.Transform(4326, 3857)),
		inverse: transform(epsg.Transform(3857, 4326)),
	}
}

// CanvasSize implements Viewport.
func (m *WebMercator) CanvasSize() (float64, float64) {
	return m.width, m.height
}

// Zoom implements Viewport.
func (m *WebMercator) Zoom() float64 {
	return m.zoom
}

// Center returns the coordinate at the middle of the canvas.
func (m *WebMercator) Center() core.Coordinate {
	return m.center
}

// resolution is meters of EPSG:3857 per pixel.
func (m *WebMercator) resolution() float64 {
	return webMercatorExtent / (256 * math.Pow(2, m.zoom))
}

// Project implements Viewport.
func (m *WebMercator) Project(c core.Coordinate) (float64, float64) {
	cx, cy, _ := m.forward(m.center.Lng, m.center.Lat, 0)
	px, py, _ := m.forward(c.Lng, c.Lat, 0)
	res := m.resolution()
	return m.width/2 + (px-cx)/res, m.height/2 - (py-cy)/res
}

// Unproject implements Viewport.
func (m *WebMercator) Unproject(x, y float64) core.Coordinate {
	cx, cy, _ := m.forward(m.center.Lng, m.center.Lat, 0)
	res := m.resolution()
	lng, lat, _ := m.inverse(cx+(x-m.width/2)*res, cy-(y-m.height/2)*res, 0)
	return core.Coordinate{Lng: lng, Lat: lat}
}

// Pan returns a copy of the viewport centered elsewhere.
func (m *WebMercator) Pan(center core.Coordinate) *WebMercator {
	out := *m
	out.center = center
	return &out
}

// Zoomed returns a copy of the viewport at another zoom level.
func (m *WebMercator) Zoomed(zoom float64) *WebMercator {
	out := *m
	out.zoom = zoom
	return &out
}
