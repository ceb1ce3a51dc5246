package session

import (
	"errors"
	"fmt"

	"github.com/OCAP2/mapsnap/internal/dispatcher"
	"github.com/OCAP2/mapsnap/internal/snap"
	"github.com/OCAP2/mapsnap/internal/viewport"
)

// Host event names.
const (
	CommandMove    = "move"
	CommandClick   = "click"
	CommandMoveEnd = "moveend"
	CommandOptions = "options"
	CommandStop    = "stop"
	CommandCancel  = "cancel"
)

// ErrBadPayload is returned when an event carries the wrong payload type.
var ErrBadPayload = errors.New("bad event payload")

func payload[T any](e dispatcher.Event) (T, error) {
	v, ok := e.Payload.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s wants %T, got %T", ErrBadPayload, e.Command, zero, e.Payload)
	}
	return v, nil
}

// Router registers the session's handlers on a new dispatcher so a host can
// route events by name. Payloads are snap.Event for move and click, an
// optional viewport.Viewport for moveend and snap.Options for options.
func Router(s *Session, logger dispatcher.Logger) (*dispatcher.Dispatcher, error) {
	d, err := dispatcher.New(logger)
	if err != nil {
		return nil, err
	}

	d.Register(CommandMove, func(e dispatcher.Event) (any, error) {
		ev, err := payload[snap.Event](e)
		if err != nil {
			return nil, err
		}
		return s.Move(ev)
	}, dispatcher.Logged())

	d.Register(CommandClick, func(e dispatcher.Event) (any, error) {
		ev, err := payload[snap.Event](e)
		if err != nil {
			return nil, err
		}
		return s.Click(ev)
	}, dispatcher.Logged())

	d.Register(CommandMoveEnd, func(e dispatcher.Event) (any, error) {
		if e.Payload == nil {
			return nil, s.MoveEnd(nil)
		}
		vp, err := payload[viewport.Viewport](e)
		if err != nil {
			return nil, err
		}
		return nil, s.MoveEnd(vp)
	}, dispatcher.Logged())

	d.Register(CommandOptions, func(e dispatcher.Event) (any, error) {
		opts, err := payload[snap.Options](e)
		if err != nil {
			return nil, err
		}
		s.SetOptions(opts)
		return nil, nil
	}, dispatcher.Logged())

	d.Register(CommandStop, func(dispatcher.Event) (any, error) {
		s.Stop()
		return nil, nil
	}, dispatcher.Logged())

	d.Register(CommandCancel, func(dispatcher.Event) (any, error) {
		s.Cancel()
		return nil, nil
	}, dispatcher.Logged())

	return d, nil
}
