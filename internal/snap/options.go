package snap

const (
	// DefaultSnapPx is the snapping tolerance in screen pixels.
	DefaultSnapPx = 15.0
	// DefaultVertexPriorityDistance is the distance in kilometers under which
	// a segment endpoint or midpoint wins over the nearest point on the edge.
	DefaultVertexPriorityDistance = 1.25
)

// SnapOptions tunes feature snapping.
type SnapOptions struct {
	SnapPx                     float64 `json:"snapPx" mapstructure:"snapPx"`
	SnapVertexPriorityDistance float64 `json:"snapVertexPriorityDistance" mapstructure:"snapVertexPriorityDistance"`
	SnapToMidPoints            bool    `json:"snapToMidPoints" mapstructure:"snapToMidPoints"`
}

// Options toggles feature snapping and axis guides.
type Options struct {
	Snap        bool        `json:"snap" mapstructure:"snap"`
	Guides      bool        `json:"guides" mapstructure:"guides"`
	SnapOptions SnapOptions `json:"snapOptions" mapstructure:"snapOptions"`
}

// DefaultOptions returns options with snapping and guides enabled.
func DefaultOptions() Options {
	return Options{
		Snap:   true,
		Guides: true,
		SnapOptions: SnapOptions{
			SnapPx:                     DefaultSnapPx,
			SnapVertexPriorityDistance: DefaultVertexPriorityDistance,
		},
	}
}

// Px returns the snapping tolerance, falling back to DefaultSnapPx when unset.
func (o SnapOptions) Px() float64 {
	if o.SnapPx <= 0 {
		return DefaultSnapPx
	}
	return o.SnapPx
}

// PriorityDistance returns the vertex priority distance, falling back to
// DefaultVertexPriorityDistance when unset.
func (o SnapOptions) PriorityDistance() float64 {
	if o.SnapVertexPriorityDistance <= 0 {
		return DefaultVertexPriorityDistance
	}
	return o.SnapVertexPriorityDistance
}
