package snap

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/OCAP2/mapsnap/internal/snap"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

type instruments struct {
	resolutions metric.Int64Counter
	candidates  metric.Int64Histogram
	vertices    metric.Int64Histogram
}

var (
	instOnce sync.Once
	inst     instruments
)

// metrics lazily creates the package instruments on the global meter. Until
// a provider is installed these are no-ops. Creation errors leave the
// instrument nil and recording is skipped.
func metrics() *instruments {
	instOnce.Do(func() {
		m := meter()
		inst.resolutions, _ = m.Int64Counter(
			"mapsnap.resolutions",
			metric.WithDescription("Cursor resolutions by the branch that produced the coordinate"),
		)
		inst.candidates, _ = m.Int64Histogram(
			"mapsnap.candidates",
			metric.WithDescription("Snap candidates per index rebuild"),
		)
		inst.vertices, _ = m.Int64Histogram(
			"mapsnap.vertices",
			metric.WithDescription("Guide vertex pool size per index rebuild"),
		)
	})
	return &inst
}

func recordResolution(b Branch) {
	if c := metrics().resolutions; c != nil {
		c.Add(context.Background(), 1, metric.WithAttributes(attribute.String("branch", b.String())))
	}
}

func recordIndex(ix Index) {
	m := metrics()
	if m.candidates != nil {
		m.candidates.Record(context.Background(), int64(len(ix.SnapList)))
	}
	if m.vertices != nil {
		m.vertices.Record(context.Background(), int64(len(ix.Vertices)))
	}
}
