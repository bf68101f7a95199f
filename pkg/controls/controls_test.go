package controls

import (
	"context"
	"errors"
	"io"
	"math"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wikicollage/pkg/board"
	"github.com/matzehuels/wikicollage/pkg/collage"
	wcerrors "github.com/matzehuels/wikicollage/pkg/errors"
	"github.com/matzehuels/wikicollage/pkg/pipeline"
)

// stubSource serves one image per article. Files listed in block wait on
// release after announcing themselves on started.
type stubSource struct {
	articles []string
	err      error
	block    map[string]bool
	started  chan string
	release  chan struct{}

	requested []int
}

func (s *stubSource) RandomArticles(ctx context.Context, count int) ([]collage.Article, error) {
	s.requested = append(s.requested, count)
	if s.err != nil {
		return nil, s.err
	}
	var out []collage.Article
	for i, t := range s.articles {
		out = append(out, collage.Article{Title: t, ID: i + 1})
	}
	return out, nil
}

func (s *stubSource) ListImages(ctx context.Context, title string) ([]collage.ImageCandidate, error) {
	return []collage.ImageCandidate{{Title: "File:" + title + ".jpg"}}, nil
}

func (s *stubSource) ImageURL(ctx context.Context, filename string) (string, bool, error) {
	if s.block[filename] {
		s.started <- filename
		<-s.release
	}
	return "https://upload.wikimedia.org/" + filename, true, nil
}

func newSession(t *testing.T, src pipeline.Source, opts Options) *Session {
	t.Helper()
	runner := pipeline.NewRunner(src, nil, log.New(io.Discard))
	s, err := New(runner, board.NewMemory(), opts)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return s
}

func TestNew_Defaults(t *testing.T) {
	s := newSession(t, &stubSource{}, Options{})

	if s.ID() == "" {
		t.Error("ID() is empty")
	}
	if got := s.ScaleRange(); got != (collage.ScaleRange{Min: DefaultMinScale, Max: DefaultMaxScale}) {
		t.Errorf("ScaleRange() = %+v", got)
	}
	floor, ceiling := s.ScaleBounds()
	if floor != DefaultScaleFloor || ceiling != DefaultScaleCeiling {
		t.Errorf("ScaleBounds() = %v, %v", floor, ceiling)
	}
	if s.State() != pipeline.Idle {
		t.Errorf("State() = %v, want idle", s.State())
	}
}

func TestNew_PanelWidth(t *testing.T) {
	zero, narrow := 0.0, 250.0
	tests := []struct {
		name  string
		panel *float64
		want  float64
	}{
		{"unset", nil, collage.DefaultPanelWidth},
		{"zero", &zero, 0},
		{"explicit", &narrow, 250},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t, &stubSource{}, Options{PanelWidth: tt.panel})
			snap, err := s.Snapshot(context.Background())
			if err != nil {
				t.Fatalf("Snapshot() error: %v", err)
			}
			if snap.PanelWidth != tt.want {
				t.Errorf("PanelWidth = %v, want %v", snap.PanelWidth, tt.want)
			}
		})
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"inverted range", Options{Scale: collage.ScaleRange{Min: 1.5, Max: 0.5}}},
		{"min below floor", Options{Scale: collage.ScaleRange{Min: 0.05, Max: 1}}},
		{"floor above ceiling", Options{ScaleFloor: 3, ScaleCeiling: 1}},
		{"bad viewport", Options{Viewport: collage.Viewport{Width: -1, Height: 10}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := pipeline.NewRunner(&stubSource{}, nil, log.New(io.Discard))
			_, err := New(runner, board.NewMemory(), tt.opts)
			if !wcerrors.Is(err, wcerrors.ErrCodeInvalidInput) {
				t.Errorf("New() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestSetScale(t *testing.T) {
	tests := []struct {
		name string
		set  func(*Session) (collage.ScaleRange, error)
		want collage.ScaleRange
	}{
		{"min within range", func(s *Session) (collage.ScaleRange, error) { return s.SetMinScale(0.8) }, collage.ScaleRange{Min: 0.8, Max: 1}},
		{"min above max pushes max", func(s *Session) (collage.ScaleRange, error) { return s.SetMinScale(1.7) }, collage.ScaleRange{Min: 1.7, Max: 1.7}},
		{"max within range", func(s *Session) (collage.ScaleRange, error) { return s.SetMaxScale(1.2) }, collage.ScaleRange{Min: 0.5, Max: 1.2}},
		{"max below min pulls min", func(s *Session) (collage.ScaleRange, error) { return s.SetMaxScale(0.3) }, collage.ScaleRange{Min: 0.3, Max: 0.3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t, &stubSource{}, Options{})
			got, err := tt.set(s)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
			if s.ScaleRange() != tt.want {
				t.Errorf("ScaleRange() = %+v, want %+v", s.ScaleRange(), tt.want)
			}
		})
	}
}

func TestSetScale_Rejected(t *testing.T) {
	s := newSession(t, &stubSource{}, Options{})
	before := s.ScaleRange()

	for _, v := range []float64{0.01, 2.5, math.NaN(), math.Inf(1)} {
		if _, err := s.SetMinScale(v); !wcerrors.Is(err, wcerrors.ErrCodeInvalidInput) {
			t.Errorf("SetMinScale(%v) error = %v, want INVALID_INPUT", v, err)
		}
		if _, err := s.SetMaxScale(v); !wcerrors.Is(err, wcerrors.ErrCodeInvalidInput) {
			t.Errorf("SetMaxScale(%v) error = %v, want INVALID_INPUT", v, err)
		}
	}
	if s.ScaleRange() != before {
		t.Errorf("rejected edits changed range to %+v", s.ScaleRange())
	}
}

func TestFetchMore(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, &stubSource{articles: []string{"Alpha", "Beta"}}, Options{
		Viewport: collage.Viewport{Width: 1600, Height: 900},
	})

	res, err := s.FetchMore(ctx)
	if err != nil {
		t.Fatalf("FetchMore() error: %v", err)
	}
	if res.Stats.Rendered != 2 {
		t.Errorf("Rendered = %d, want 2", res.Stats.Rendered)
	}

	items, _ := s.Items(ctx)
	if len(items) != 2 {
		t.Fatalf("Items() = %d, want 2", len(items))
	}
	for _, it := range items {
		p := it.Image.Position
		if p.Scale < DefaultMinScale || p.Scale > DefaultMaxScale {
			t.Errorf("scale %v outside default range", p.Scale)
		}
		if p.X < collage.DefaultPanelWidth+collage.Padding || p.X > 1600-collage.ImageBudget-collage.Padding {
			t.Errorf("x %v outside viewport", p.X)
		}
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	if snap.Items != 2 || snap.State != pipeline.Idle {
		t.Errorf("Snapshot() = %+v", snap)
	}
}

func TestFetchMore_FixedArticleCount(t *testing.T) {
	src := &stubSource{articles: []string{"Alpha"}}
	s := newSession(t, src, Options{})

	for i := 0; i < 2; i++ {
		if _, err := s.FetchMore(context.Background()); err != nil {
			t.Fatalf("FetchMore() error: %v", err)
		}
	}
	for _, n := range src.requested {
		if n != collage.ArticleCount {
			t.Errorf("RandomArticles(count = %d), want %d", n, collage.ArticleCount)
		}
	}
	if len(src.requested) != 2 {
		t.Errorf("RandomArticles called %d times, want 2", len(src.requested))
	}
}

func TestFetchMore_SourceFailure(t *testing.T) {
	upstream := errors.New("offline")
	s := newSession(t, &stubSource{err: upstream}, Options{})

	_, err := s.FetchMore(context.Background())
	if !errors.Is(err, upstream) {
		t.Errorf("FetchMore() error = %v, want %v", err, upstream)
	}
	if s.State() != pipeline.Idle {
		t.Error("state should return to idle after an aborted batch")
	}
}

func TestClearAll_DuringFetch(t *testing.T) {
	ctx := context.Background()
	src := &stubSource{
		articles: []string{"Alpha"},
		block:    map[string]bool{"File:Alpha.jpg": true},
		started:  make(chan string, 1),
		release:  make(chan struct{}),
	}
	s := newSession(t, src, Options{})
	s.Board().Append(ctx, board.Item{ID: "old"})

	done := make(chan struct{})
	go func() {
		s.FetchMore(ctx)
		close(done)
	}()
	<-src.started

	n, err := s.ClearAll(ctx)
	if err != nil || n != 1 {
		t.Fatalf("ClearAll() = %d, %v; want 1, nil", n, err)
	}
	if l, _ := s.Board().Len(ctx); l != 0 {
		t.Errorf("Len() right after clear = %d, want 0", l)
	}
	if s.State() != pipeline.Loading {
		t.Error("clear must not end an in-flight fetch")
	}

	close(src.release)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("fetch did not finish")
	}

	items, _ := s.Items(ctx)
	if len(items) != 1 || items[0].Image.SourceArticleTitle != "Alpha" {
		t.Errorf("late result should land on cleared board, got %v", items)
	}
}

func TestScaleEditDuringFetch(t *testing.T) {
	ctx := context.Background()
	src := &stubSource{
		articles: []string{"First", "Second"},
		block:    map[string]bool{"File:Second.jpg": true},
		started:  make(chan string, 1),
		release:  make(chan struct{}),
	}
	s := newSession(t, src, Options{})

	done := make(chan struct{})
	go func() {
		s.FetchMore(ctx)
		close(done)
	}()
	<-src.started

	if _, err := s.SetMinScale(2.0); err != nil {
		t.Fatalf("SetMinScale() error: %v", err)
	}
	close(src.release)
	<-done

	items, _ := s.Items(ctx)
	if len(items) != 2 {
		t.Fatalf("Items() = %d, want 2", len(items))
	}
	if items[0].Image.Position.Scale > DefaultMaxScale {
		t.Errorf("first image scale %v, want placement from original range", items[0].Image.Position.Scale)
	}
	if items[1].Image.Position.Scale != 2.0 {
		t.Errorf("second image scale %v, want 2.0 from edited range", items[1].Image.Position.Scale)
	}
}

func TestItem(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, &stubSource{articles: []string{"Alpha"}}, Options{})
	if _, err := s.FetchMore(ctx); err != nil {
		t.Fatalf("FetchMore() error: %v", err)
	}
	items, _ := s.Items(ctx)
	if len(items) != 1 {
		t.Fatalf("Items() = %d, want 1", len(items))
	}

	got, err := s.Item(ctx, items[0].ID)
	if err != nil || got.ID != items[0].ID {
		t.Errorf("Item(%q) = %+v, %v", items[0].ID, got, err)
	}
	if _, err := s.Item(ctx, "missing"); !wcerrors.Is(err, wcerrors.ErrCodeNotFound) {
		t.Errorf("Item(missing) error = %v, want NOT_FOUND", err)
	}
}

func TestSetViewport(t *testing.T) {
	s := newSession(t, &stubSource{}, Options{})

	if err := s.SetViewport(collage.Viewport{Width: 0, Height: 500}, 400); !wcerrors.Is(err, wcerrors.ErrCodeInvalidInput) {
		t.Errorf("SetViewport(zero width) error = %v, want INVALID_INPUT", err)
	}
	if err := s.SetViewport(collage.Viewport{Width: 800, Height: 600}, 200); err != nil {
		t.Fatalf("SetViewport() error: %v", err)
	}
	snap, _ := s.Snapshot(context.Background())
	if snap.Viewport.Width != 800 || snap.PanelWidth != 200 {
		t.Errorf("Snapshot() viewport = %+v panel %v", snap.Viewport, snap.PanelWidth)
	}
}
