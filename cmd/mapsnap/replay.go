package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/OCAP2/mapsnap/internal/dispatcher"
	"github.com/OCAP2/mapsnap/internal/geo"
	"github.com/OCAP2/mapsnap/internal/logging"
	"github.com/OCAP2/mapsnap/internal/session"
	"github.com/OCAP2/mapsnap/internal/snap"
	"github.com/OCAP2/mapsnap/internal/store/memory"
	"github.com/OCAP2/mapsnap/internal/viewport"
	"github.com/OCAP2/mapsnap/pkg/core"
	"github.com/spf13/cobra"
)

var (
	replayScene  string
	replayEvents string
	replayWidth  float64
	replayHeight float64
	replayCenter string
	replayZoom   float64
	replayMode   string
	replayID     string
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay recorded pointer events against a GeoJSON scene",
	Long: `Replay loads a GeoJSON FeatureCollection as the map scene, starts a
drawing session on a Web Mercator viewport and feeds it the events of a
JSON file, printing the corrected cursor for each one. The drawn shape is
printed as WKT at the end.`,
	Args: cobra.NoArgs,
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringVar(&replayScene, "scene", "", "GeoJSON FeatureCollection with the map features")
	replayCmd.Flags().StringVar(&replayEvents, "events", "", "JSON array of pointer events")
	replayCmd.Flags().Float64Var(&replayWidth, "width", 1024, "canvas width in pixels")
	replayCmd.Flags().Float64Var(&replayHeight, "height", 768, "canvas height in pixels")
	replayCmd.Flags().StringVar(&replayCenter, "center", "0,0", "map center as lng,lat")
	replayCmd.Flags().Float64Var(&replayZoom, "zoom", 10, "map zoom level")
	replayCmd.Flags().StringVar(&replayMode, "mode", "line", "shape to draw: point, line or polygon")
	replayCmd.Flags().StringVar(&replayID, "id", "", "feature ID of the drawn shape (random when empty)")

	_ = replayCmd.MarkFlagRequired("scene")
	_ = replayCmd.MarkFlagRequired("events")
}

// replayEvent is one entry of the events file. Coordinates are used by move
// and click, center and zoom by moveend, options by options.
type replayEvent struct {
	Type    string          `json:"type"`
	Lng     float64         `json:"lng"`
	Lat     float64         `json:"lat"`
	Shift   bool            `json:"shift"`
	Alt     bool            `json:"alt"`
	Center  string          `json:"center,omitempty"`
	Zoom    *float64        `json:"zoom,omitempty"`
	Options json.RawMessage `json:"options,omitempty"`
}

type replayConfig struct {
	Center core.Coordinate
	Zoom   float64
	Width  float64
	Height float64
	Mode   session.Mode
	ID     string
}

func runReplay(cmd *cobra.Command, args []string) error {
	env, err := setup(os.Stderr)
	if err != nil {
		return err
	}
	defer env.close()

	center, err := geo.CoordinateFromString(replayCenter)
	if err != nil {
		return fmt.Errorf("--center %q: %w", replayCenter, err)
	}
	mode, err := session.ParseMode(replayMode)
	if err != nil {
		return err
	}

	scene, err := os.Open(replayScene)
	if err != nil {
		return err
	}
	defer scene.Close()

	events, err := os.Open(replayEvents)
	if err != nil {
		return err
	}
	defer events.Close()

	rc := replayConfig{
		Center: center,
		Zoom:   replayZoom,
		Width:  replayWidth,
		Height: replayHeight,
		Mode:   mode,
		ID:     replayID,
	}
	return replay(cmd.OutOrStdout(), scene, events, rc, env.options, env.logger, logging.NewDispatcherLogger(env.events))
}

// replay runs one drawing session over the events read from events and
// writes a line per event to w.
func replay(w io.Writer, scene, events io.Reader, rc replayConfig, opts snap.Options, logger *slog.Logger, dlog dispatcher.Logger) error {
	store := memory.New()
	n, err := store.LoadGeoJSON(scene)
	if err != nil {
		return err
	}

	var evs []replayEvent
	if err := json.NewDecoder(events).Decode(&evs); err != nil {
		return fmt.Errorf("reading events: %w", err)
	}

	step := 0
	log := slog.New(logging.NewContextHandler(logger.Handler(), func() []slog.Attr {
		return []slog.Attr{slog.Int("step", step)}
	}))
	log.Info("scene loaded", "features", n, "events", len(evs))

	vp := viewport.NewWebMercator(rc.Center, rc.Zoom, rc.Width, rc.Height)
	sess, err := session.Start(session.Config{
		Store:    store,
		Viewport: vp,
		Options:  session.NewBroadcaster(opts),
		Mode:     rc.Mode,
		ID:       rc.ID,
		Logger:   log,
	})
	if err != nil {
		return err
	}
	defer sess.Cancel()

	router, err := session.Router(sess, dlog)
	if err != nil {
		return err
	}

	for i, ev := range evs {
		step = i + 1

		var p any
		p, vp, err = eventPayload(ev, vp, sess)
		if err != nil {
			return fmt.Errorf("event %d: %w", step, err)
		}

		result, err := router.Dispatch(dispatcher.Event{Command: ev.Type, Payload: p, Timestamp: time.Now()})
		if errors.Is(err, session.ErrSessionClosed) {
			log.Warn("session closed, skipping remaining events", "remaining", len(evs)-i)
			break
		}
		if err != nil {
			return fmt.Errorf("event %d: %w", step, err)
		}

		fmt.Fprintln(w, describe(step, ev.Type, result, sess))
	}

	sess.Stop()

	f, ok := store.Get(sess.ID())
	if !ok {
		fmt.Fprintln(w, "result discarded")
		return nil
	}
	g, err := geo.ToGeometry(f)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "result %s\n", g.AsText())
	return nil
}

// eventPayload builds the dispatcher payload for ev. A moveend that carries
// a center or a zoom moves the viewport and returns the new one.
func eventPayload(ev replayEvent, vp *viewport.WebMercator, sess *session.Session) (any, *viewport.WebMercator, error) {
	switch ev.Type {
	case session.CommandMove, session.CommandClick:
		return snap.Event{
			Coordinate: core.Coordinate{Lng: ev.Lng, Lat: ev.Lat},
			ShiftKey:   ev.Shift,
			AltKey:     ev.Alt,
		}, vp, nil

	case session.CommandMoveEnd:
		if ev.Center == "" && ev.Zoom == nil {
			return nil, vp, nil
		}
		next := vp
		if ev.Center != "" {
			c, err := geo.CoordinateFromString(ev.Center)
			if err != nil {
				return nil, vp, fmt.Errorf("moveend center %q: %w", ev.Center, err)
			}
			next = next.Pan(c)
		}
		if ev.Zoom != nil {
			next = next.Zoomed(*ev.Zoom)
		}
		return viewport.Viewport(next), next, nil

	case session.CommandOptions:
		opts := sess.Options()
		if len(ev.Options) > 0 {
			if err := json.Unmarshal(ev.Options, &opts); err != nil {
				return nil, vp, fmt.Errorf("options: %w", err)
			}
		}
		return opts, vp, nil
	}
	return nil, vp, nil
}

func describe(step int, command string, result any, sess *session.Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d %s", step, command)

	switch r := result.(type) {
	case session.MoveResult:
		fmt.Fprintf(&b, " %s %s guides=%s", formatCoordinate(r.Coordinate), r.Branch, guideFlags(sess))
		if r.HoveringLastVertex {
			b.WriteString(" hover")
		}
	case session.ClickResult:
		fmt.Fprintf(&b, " %s %s %s vertices=%d", formatCoordinate(r.Coordinate), r.Branch, r.Outcome, r.Vertices)
		if r.Outcome == session.ClickFinished {
			fmt.Fprintf(&b, " kept=%t", r.Kept)
		}
	}
	return b.String()
}

func formatCoordinate(c core.Coordinate) string {
	return fmt.Sprintf("%.6f,%.6f", c.Lng, c.Lat)
}

func guideFlags(sess *session.Session) string {
	flags := ""
	if !sess.ShouldHideGuide(core.VerticalGuideID) {
		flags += "V"
	}
	if !sess.ShouldHideGuide(core.HorizontalGuideID) {
		flags += "H"
	}
	if flags == "" {
		return "-"
	}
	return flags
}
