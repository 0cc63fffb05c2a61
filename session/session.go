package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/theoremus-urban-solutions/bikeshare-traffic/render"
	"github.com/theoremus-urban-solutions/bikeshare-traffic/traffic"
)

// ErrNoProjector is returned for a viewport trigger that carries no usable projector
var ErrNoProjector = errors.New("viewport trigger without projector")

// Session is the state of one map view. Methods are not safe for concurrent
// use; the Registry serializes access.
type Session struct {
	ID        uuid.UUID
	data      *Data
	opts      Options
	window    traffic.Window
	projector render.Projector
	view      View
	markers   *render.MarkerSet
	passes    int
	lastUsed  time.Time
}

// New creates a session over d and runs the initial unbounded pass
func New(d *Data, opts Options, proj render.Projector) *Session {
	s := &Session{
		ID:        uuid.New(),
		data:      d,
		opts:      opts,
		window:    traffic.Unbounded(),
		projector: proj,
		lastUsed:  time.Now(),
	}
	s.pass()
	return s
}

// Apply handles one trigger with a full pass. An invalid filter minute
// leaves the session unchanged.
func (s *Session) Apply(t Trigger) error {
	switch t := t.(type) {
	case FilterChanged:
		w, err := traffic.NewWindow(t.Minute)
		if err != nil {
			return err
		}
		s.window = w
	case ViewportChanged:
		if render.NilProjector(t.Projector) {
			return ErrNoProjector
		}
		s.projector = t.Projector
	default:
		return fmt.Errorf("unknown trigger %T", t)
	}
	s.pass()
	return nil
}

func (s *Session) pass() {
	view := Compute(s.data, s.window, s.opts)
	markers := render.Reconcile(s.markers, view.Stations, s.projector)
	s.view, s.markers = view, markers
	s.passes++
	s.lastUsed = time.Now()
}

// Window returns the active filter window
func (s *Session) Window() traffic.Window { return s.window }

// View returns the latest derived view
func (s *Session) View() View { return s.view }

// Markers returns the latest marker set
func (s *Session) Markers() *render.MarkerSet { return s.markers }

// Projector returns the current projector
func (s *Session) Projector() render.Projector { return s.projector }

// Passes returns how many passes have run, the initial one included
func (s *Session) Passes() int { return s.passes }

// System returns the bike-share system the session views
func (s *Session) System() string { return s.data.System }

// LastUsed returns the time of the latest pass or touch
func (s *Session) LastUsed() time.Time { return s.lastUsed }

func (s *Session) touch(now time.Time) { s.lastUsed = now }
