// Package session runs one drawing operation: it owns the shape being drawn,
// the two guide features and the snap index, and feeds every pointer event
// through the snap orchestrator.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/OCAP2/mapsnap/internal/snap"
	"github.com/OCAP2/mapsnap/internal/viewport"
	"github.com/OCAP2/mapsnap/pkg/core"
	"github.com/google/uuid"
)

// ErrSessionClosed is returned by every event handler once the session has
// finished, been stopped or cancelled.
var ErrSessionClosed = errors.New("session closed")

// GuideProperty marks the two guide features for styling.
const GuideProperty = "isSnapGuide"

// Mode is the kind of shape a session draws.
type Mode uint8

const (
	ModePoint Mode = iota
	ModeLine
	ModePolygon
)

func (m Mode) String() string {
	switch m {
	case ModePoint:
		return "point"
	case ModeLine:
		return "line"
	case ModePolygon:
		return "polygon"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// ParseMode parses "point", "line" or "polygon".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "point":
		return ModePoint, nil
	case "line", "linestring":
		return ModeLine, nil
	case "polygon":
		return ModePolygon, nil
	}
	return 0, fmt.Errorf("unknown drawing mode %q", s)
}

func (m Mode) kind() core.Kind {
	switch m {
	case ModeLine:
		return core.KindLine
	case ModePolygon:
		return core.KindPolygon
	default:
		return core.KindPoint
	}
}

// minVertices is how many placed vertices a finished shape needs to be kept.
func (m Mode) minVertices() int {
	switch m {
	case ModeLine:
		return 2
	case ModePolygon:
		return 3
	default:
		return 1
	}
}

// FeatureStore is the host's feature collection.
type FeatureStore interface {
	GetAll() []core.Feature
	Put(f core.Feature)
	Delete(id string) bool
}

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Config holds what Start needs from the host.
type Config struct {
	Store    FeatureStore
	Viewport viewport.Viewport
	Options  OptionsChannel
	Mode     Mode
	// ID of the feature to draw. A random UUID is used when empty.
	ID     string
	Logger Logger
}

// ClickOutcome tells the host what a click did.
type ClickOutcome uint8

const (
	// ClickAdded placed a vertex and drawing continues.
	ClickAdded ClickOutcome = iota
	// ClickFinished completed the shape and closed the session.
	ClickFinished
)

func (o ClickOutcome) String() string {
	switch o {
	case ClickAdded:
		return "added"
	case ClickFinished:
		return "finished"
	default:
		return fmt.Sprintf("ClickOutcome(%d)", uint8(o))
	}
}

// MoveResult is the outcome of a pointer move.
type MoveResult struct {
	Coordinate core.Coordinate
	Branch     snap.Branch
	// HoveringLastVertex is set when the corrected cursor sits exactly on the
	// last placed vertex, where a click finishes the shape.
	HoveringLastVertex bool
}

// ClickResult is the outcome of a click.
type ClickResult struct {
	Coordinate core.Coordinate
	Branch     snap.Branch
	Outcome    ClickOutcome
	// Vertices is the number of placed vertices after the click.
	Vertices int
	// Kept reports, for a finished shape, whether it had enough vertices to
	// stay in the store.
	Kept bool
}

// Session is one in-progress drawing operation.
type Session struct {
	mu sync.RWMutex

	store  FeatureStore
	vp     viewport.Viewport
	logger Logger
	mode   Mode
	id     string

	placed  []core.Coordinate
	live    *core.Coordinate
	snapped *core.Coordinate
	recent  []core.Coordinate

	state snap.State
	opts  snap.Options

	unsubscribe func()
	closed      bool
}

// Start creates the shape and guide features, builds the snap index and
// subscribes to option changes.
func Start(cfg Config) (*Session, error) {
	switch {
	case cfg.Store == nil:
		return nil, errors.New("starting session: nil feature store")
	case cfg.Viewport == nil:
		return nil, errors.New("starting session: nil viewport")
	case cfg.Options == nil:
		return nil, errors.New("starting session: nil options channel")
	case cfg.Mode > ModePolygon:
		return nil, fmt.Errorf("starting session: unknown mode %s", cfg.Mode)
	}

	s := &Session{
		store:  cfg.Store,
		vp:     cfg.Viewport,
		logger: cfg.Logger,
		mode:   cfg.Mode,
		id:     cfg.ID,
		opts:   cfg.Options.Current(),
	}
	if s.logger == nil {
		s.logger = nopLogger{}
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	if core.IsGuide(s.id) {
		return nil, fmt.Errorf("starting session: feature id %q is reserved", s.id)
	}

	s.store.Put(s.feature())
	s.putGuides()

	if err := s.rebuild(); err != nil {
		s.store.Delete(s.id)
		s.deleteGuides()
		return nil, fmt.Errorf("starting session: %w", err)
	}

	s.unsubscribe = cfg.Options.Subscribe(s.SetOptions)

	s.logger.Info("drawing session started",
		"id", s.id,
		"mode", s.mode.String(),
		"candidates", len(s.state.SnapList),
		"vertices", len(s.state.Vertices))
	return s, nil
}

// feature renders the shape as currently drawn. Lines end with the live
// vertex; polygon rings end with the live vertex and then close back to the
// first placed vertex.
func (s *Session) feature() core.Feature {
	f := core.Feature{ID: s.id, Kind: s.mode.kind()}

	coords := append([]core.Coordinate(nil), s.placed...)
	if s.live != nil {
		coords = append(coords, *s.live)
	}

	switch s.mode {
	case ModePolygon:
		if len(s.placed) > 0 {
			coords = append(coords, s.placed[0])
		}
		f.Rings = [][]core.Coordinate{coords}
	default:
		f.Coordinates = coords
	}
	return f
}

func guideFeature(id string, gl snap.GuideLine) core.Feature {
	f := core.Feature{
		ID:   id,
		Kind: core.KindLine,
		Properties: map[string]any{
			GuideProperty: true,
			"visible":     gl.Visible,
		},
	}
	if gl.Coordinates != [2]core.Coordinate{} {
		f.Coordinates = gl.Coordinates[:]
	}
	return f
}

func (s *Session) putGuides() {
	s.store.Put(guideFeature(core.VerticalGuideID, s.state.Guides.Vertical))
	s.store.Put(guideFeature(core.HorizontalGuideID, s.state.Guides.Horizontal))
}

func (s *Session) deleteGuides() {
	s.store.Delete(core.VerticalGuideID)
	s.store.Delete(core.HorizontalGuideID)
}

func (s *Session) rebuild() error {
	ix, err := snap.BuildIndex(s.store.GetAll(), s.id, s.vp)
	if err != nil {
		return err
	}
	s.state.Index = ix
	return nil
}

func (s *Session) lastPlaced() (core.Coordinate, bool) {
	if len(s.placed) == 0 {
		return core.Coordinate{}, false
	}
	return s.placed[len(s.placed)-1], true
}

// Move resolves a pointer move, writes the corrected coordinate into the
// live vertex and rewrites the guides.
func (s *Session) Move(ev snap.Event) (MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return MoveResult{}, ErrSessionClosed
	}

	st := s.state
	st.Zoom = s.vp.Zoom()
	res, next, err := snap.Resolve(st, ev, s.opts)
	if err != nil {
		return MoveResult{}, fmt.Errorf("resolving move: %w", err)
	}
	s.state = next

	corrected := res.Coordinate
	s.snapped = &corrected
	s.recent = append(s.recent, corrected)
	if len(s.recent) > 2 {
		s.recent = s.recent[len(s.recent)-2:]
	}

	if s.mode != ModePoint {
		s.live = &corrected
		s.store.Put(s.feature())
	}
	s.putGuides()

	last, ok := s.lastPlaced()
	out := MoveResult{
		Coordinate:         corrected,
		Branch:             res.Branch,
		HoveringLastVertex: ok && last == corrected,
	}

	s.logger.Debug("move resolved",
		"branch", res.Branch.String(),
		"coordinate", corrected.String(),
		"hovering", out.HoveringLastVertex)
	return out, nil
}

// Click resolves the click position without touching the guides, then
// either places a vertex or finishes the shape. Clicking the last placed
// vertex again finishes a line or polygon; a point finishes on its first
// click.
func (s *Session) Click(ev snap.Event) (ClickResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ClickResult{}, ErrSessionClosed
	}

	st := s.state
	st.Zoom = s.vp.Zoom()
	res, err := snap.Commit(st, ev, s.opts)
	if err != nil {
		return ClickResult{}, fmt.Errorf("resolving click: %w", err)
	}
	coord := res.Coordinate
	out := ClickResult{Coordinate: coord, Branch: res.Branch}

	if s.mode == ModePoint {
		s.placed = []core.Coordinate{coord}
	} else if last, ok := s.lastPlaced(); !ok || last != coord {
		s.placed = append(s.placed, coord)
		if viewport.OnScreen(s.vp, coord) {
			s.state.Vertices = append(s.state.Vertices, coord)
		}
		lastVertex := coord
		s.state.LastVertex = &lastVertex
		s.live = &lastVertex
		s.store.Put(s.feature())

		out.Outcome = ClickAdded
		out.Vertices = len(s.placed)
		s.logger.Debug("vertex placed", "coordinate", coord.String(), "vertices", out.Vertices)
		return out, nil
	}

	out.Outcome = ClickFinished
	out.Vertices = len(s.placed)
	out.Kept = s.finish()
	return out, nil
}

// finish drops the live vertex and keeps the shape if it is complete, then
// releases everything the session owns. Callers hold s.mu.
func (s *Session) finish() bool {
	s.live = nil
	kept := len(s.placed) >= s.mode.minVertices()
	if kept {
		s.store.Put(s.feature())
	} else {
		s.store.Delete(s.id)
	}
	s.release()
	s.logger.Info("drawing session finished", "id", s.id, "vertices", len(s.placed), "kept", kept)
	return kept
}

// release deletes the guides and unsubscribes. Callers hold s.mu.
func (s *Session) release() {
	s.deleteGuides()
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.closed = true
}

// MoveEnd rebuilds the snap index after the viewport changed. A non-nil vp
// replaces the session's viewport.
func (s *Session) MoveEnd(vp viewport.Viewport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if vp != nil {
		s.vp = vp
	}
	if err := s.rebuild(); err != nil {
		return fmt.Errorf("rebuilding snap index: %w", err)
	}
	s.logger.Debug("snap index rebuilt",
		"candidates", len(s.state.SnapList),
		"vertices", len(s.state.Vertices))
	return nil
}

// SetOptions replaces the options read by the next resolution. It is the
// session's options subscription callback.
func (s *Session) SetOptions(opts snap.Options) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.opts = opts
	s.logger.Info("snap options changed", "snap", opts.Snap, "guides", opts.Guides, "snapPx", opts.SnapOptions.Px())
}

// ShouldHideGuide reports whether the host should skip rendering the
// feature with the given ID.
func (s *Session) ShouldHideGuide(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch id {
	case core.VerticalGuideID:
		return !s.opts.Guides || !s.state.Guides.Vertical.Visible
	case core.HorizontalGuideID:
		return !s.opts.Guides || !s.state.Guides.Horizontal.Visible
	}
	return false
}

// Stop ends the session keeping the shape if it is complete. It is
// idempotent.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.finish()
}

// Cancel ends the session and removes the shape. It is idempotent.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.store.Delete(s.id)
	s.release()
	s.logger.Info("drawing session cancelled", "id", s.id)
}

func (s *Session) ID() string { return s.id }

func (s *Session) Mode() Mode { return s.mode }

func (s *Session) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

func (s *Session) Options() snap.Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opts
}

// Guides returns the current guide geometry and visibility.
func (s *Session) Guides() snap.GuideLines {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Guides
}

// Placed returns a copy of the committed vertices.
func (s *Session) Placed() []core.Coordinate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Coordinate(nil), s.placed...)
}

// Snapped returns the last corrected move coordinate.
func (s *Session) Snapped() (core.Coordinate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapped == nil {
		return core.Coordinate{}, false
	}
	return *s.snapped, true
}

// Recent returns up to the last two corrected move coordinates, oldest first.
func (s *Session) Recent() []core.Coordinate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Coordinate(nil), s.recent...)
}

// Index returns the current snap candidates and vertex pool.
func (s *Session) Index() snap.Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snap.Index{
		SnapList: append([]snap.Candidate(nil), s.state.SnapList...),
		Vertices: append([]core.Coordinate(nil), s.state.Vertices...),
	}
}
