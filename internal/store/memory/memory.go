// Package memory is an in-process feature store that stands in for the
// host's drawing surface.
package memory

import (
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/OCAP2/mapsnap/internal/geo"
	"github.com/OCAP2/mapsnap/pkg/core"
)

// Store keeps features keyed by ID and returns them in insertion order.
// Features are cloned on the way in and out.
type Store struct {
	features map[string]core.Feature
	order    []string
	mu       sync.RWMutex
}

// New creates an empty store
func New() *Store {
	return &Store{features: make(map[string]core.Feature)}
}

// Put inserts f, or replaces the feature with the same ID in place.
func (s *Store) Put(f core.Feature) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.features[f.ID]; !ok {
		s.order = append(s.order, f.ID)
	}
	s.features[f.ID] = f.Clone()
}

// Get returns the feature with the given ID.
func (s *Store) Get(id string) (core.Feature, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.features[id]
	if !ok {
		return core.Feature{}, false
	}
	return f.Clone(), true
}

// Delete removes a feature and reports whether it existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.features[id]; !ok {
		return false
	}
	delete(s.features, id)
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	return true
}

// GetAll returns every feature in insertion order.
func (s *Store) GetAll() []core.Feature {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.Feature, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.features[id].Clone())
	}
	return out
}

// Len returns the number of stored features.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// LoadGeoJSON adds every feature of a GeoJSON FeatureCollection and returns
// how many were read. Nothing is stored when decoding fails.
func (s *Store) LoadGeoJSON(r io.Reader) (int, error) {
	features, err := geo.ReadFeatureCollection(r)
	if err != nil {
		return 0, fmt.Errorf("loading scene: %w", err)
	}
	for _, f := range features {
		if core.IsGuide(f.ID) {
			return 0, fmt.Errorf("loading scene: feature id %q is reserved", f.ID)
		}
	}
	for _, f := range features {
		s.Put(f)
	}
	return len(features), nil
}
