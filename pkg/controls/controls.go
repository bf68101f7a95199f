// Package controls is the application context behind every user-facing
// trigger.
//
// A [Session] ties one display container to one runner and the current
// scale range. Adapters (HTTP, TUI, one-shot CLI) hold a Session and call
// its triggers; they never touch the pipeline directly.
//
// Clearing and fetching are independent. ClearAll empties the board at once
// and cancels nothing, so results of a fetch that is still resolving keep
// landing on the freshly emptied board.
package controls

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/matzehuels/wikicollage/pkg/board"
	"github.com/matzehuels/wikicollage/pkg/collage"
	"github.com/matzehuels/wikicollage/pkg/errors"
	"github.com/matzehuels/wikicollage/pkg/pipeline"
)

// Default scale configuration.
const (
	DefaultMinScale     = 0.5
	DefaultMaxScale     = 1.0
	DefaultScaleFloor   = 0.1
	DefaultScaleCeiling = 2.0
)

// DefaultViewport is used until an adapter reports its real bounds.
var DefaultViewport = collage.Viewport{Width: 1920, Height: 1080}

// Options configures a Session. Zero fields take the package defaults.
type Options struct {
	ID           string
	Scale        collage.ScaleRange
	ScaleFloor   float64
	ScaleCeiling float64
	Viewport     collage.Viewport
	WikiBase     string

	// PanelWidth is the control panel width. Nil means
	// [collage.DefaultPanelWidth]; zero is a panel-less layout.
	PanelWidth *float64

	// Display overrides the board-backed display; tests use it to observe
	// appends directly.
	Display pipeline.Display
}

// Session holds the state one collage needs between triggers.
type Session struct {
	id      string
	runner  *pipeline.Runner
	board   board.Board
	display pipeline.Display

	mu         sync.RWMutex
	scale      collage.ScaleRange
	floor      float64
	ceiling    float64
	viewport   collage.Viewport
	panelWidth float64
}

// Snapshot is a point-in-time view of a Session.
type Snapshot struct {
	ID         string             `json:"id"`
	State      pipeline.State     `json:"state"`
	Scale      collage.ScaleRange `json:"scale"`
	ScaleFloor float64            `json:"scale_floor"`
	ScaleCeil  float64            `json:"scale_ceiling"`
	Viewport   collage.Viewport   `json:"viewport"`
	PanelWidth float64            `json:"panel_width"`
	Items      int                `json:"items"`
}

// New creates a Session. It returns an INVALID_INPUT error when the
// configured scale range does not fit within its bounds.
func New(runner *pipeline.Runner, b board.Board, opts Options) (*Session, error) {
	opts = withDefaults(opts)
	panel := float64(collage.DefaultPanelWidth)
	if opts.PanelWidth != nil {
		panel = *opts.PanelWidth
	}
	if opts.ScaleFloor > opts.ScaleCeiling {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"scale floor %.2f above ceiling %.2f", opts.ScaleFloor, opts.ScaleCeiling)
	}
	for _, v := range []float64{opts.Scale.Min, opts.Scale.Max} {
		if err := errors.ValidateScale(v, opts.ScaleFloor, opts.ScaleCeiling); err != nil {
			return nil, err
		}
	}
	if !opts.Scale.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"min scale %.2f above max scale %.2f", opts.Scale.Min, opts.Scale.Max)
	}
	if err := errors.ValidateViewport(opts.Viewport.Width, opts.Viewport.Height, panel); err != nil {
		return nil, err
	}

	display := opts.Display
	if display == nil {
		display = board.NewDisplay(b, opts.WikiBase)
	}
	return &Session{
		id:         opts.ID,
		runner:     runner,
		board:      b,
		display:    display,
		scale:      opts.Scale,
		floor:      opts.ScaleFloor,
		ceiling:    opts.ScaleCeiling,
		viewport:   opts.Viewport,
		panelWidth: panel,
	}, nil
}

func withDefaults(o Options) Options {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Scale == (collage.ScaleRange{}) {
		o.Scale = collage.ScaleRange{Min: DefaultMinScale, Max: DefaultMaxScale}
	}
	if o.ScaleFloor == 0 && o.ScaleCeiling == 0 {
		o.ScaleFloor, o.ScaleCeiling = DefaultScaleFloor, DefaultScaleCeiling
	}
	if o.Viewport == (collage.Viewport{}) {
		o.Viewport = DefaultViewport
	}
	return o
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Board returns the display container.
func (s *Session) Board() board.Board { return s.board }

// State reports whether a fetch is in flight.
func (s *Session) State() pipeline.State { return s.runner.State() }

// FetchMore runs one batch into the board using the viewport current at the
// time of the call. The scale range is re-read for every placement, so
// slider edits during a run affect the images still to come.
func (s *Session) FetchMore(ctx context.Context) (*pipeline.Result, error) {
	s.mu.RLock()
	req := pipeline.Request{
		Viewport:   s.viewport,
		PanelWidth: s.panelWidth,
	}
	s.mu.RUnlock()
	return s.runner.Run(ctx, req, s, s.display)
}

// ClearAll empties the board and returns how many items were removed.
func (s *Session) ClearAll(ctx context.Context) (int, error) {
	return s.board.Clear(ctx)
}

// ScaleRange returns the current range. It implements pipeline.ScaleSource.
func (s *Session) ScaleRange() collage.ScaleRange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scale
}

// ScaleBounds returns the floor and ceiling that scale edits must respect.
func (s *Session) ScaleBounds() (floor, ceiling float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.floor, s.ceiling
}

// SetMinScale sets the lower bound, raising the upper bound to match when
// v exceeds it.
func (s *Session) SetMinScale(v float64) (collage.ScaleRange, error) {
	return s.editScale(v, collage.ScaleRange.WithMin)
}

// SetMaxScale sets the upper bound, lowering the lower bound to match when
// v falls below it.
func (s *Session) SetMaxScale(v float64) (collage.ScaleRange, error) {
	return s.editScale(v, collage.ScaleRange.WithMax)
}

func (s *Session) editScale(v float64, apply func(collage.ScaleRange, float64) collage.ScaleRange) (collage.ScaleRange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := errors.ValidateScale(v, s.floor, s.ceiling); err != nil {
		return s.scale, err
	}
	s.scale = apply(s.scale, v)
	return s.scale, nil
}

// SetViewport records new display bounds for subsequent fetches.
func (s *Session) SetViewport(vp collage.Viewport, panelWidth float64) error {
	if err := errors.ValidateViewport(vp.Width, vp.Height, panelWidth); err != nil {
		return err
	}
	s.mu.Lock()
	s.viewport = vp
	s.panelWidth = panelWidth
	s.mu.Unlock()
	return nil
}

// Items returns the rendered items in insertion order.
func (s *Session) Items(ctx context.Context) ([]board.Item, error) {
	return s.board.Items(ctx)
}

// Item returns the rendered item with the given ID. It returns a NOT_FOUND
// error when the item was never rendered or has been cleared.
func (s *Session) Item(ctx context.Context, id string) (board.Item, error) {
	items, err := s.board.Items(ctx)
	if err != nil {
		return board.Item{}, err
	}
	for _, it := range items {
		if it.ID == id {
			return it, nil
		}
	}
	return board.Item{}, errors.New(errors.ErrCodeNotFound, "image %q not on board", id)
}

// Snapshot returns the session's current state.
func (s *Session) Snapshot(ctx context.Context) (Snapshot, error) {
	n, err := s.board.Len(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		ID:         s.id,
		State:      s.runner.State(),
		Scale:      s.scale,
		ScaleFloor: s.floor,
		ScaleCeil:  s.ceiling,
		Viewport:   s.viewport,
		PanelWidth: s.panelWidth,
		Items:      n,
	}, nil
}
