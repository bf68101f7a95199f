// Package pipeline orchestrates one collage batch:
//
//	articles → image listing → filter/cap → concurrent URL resolution → placement → display
//
// Articles are processed strictly in the order the API returned them. Within
// an article, up to [collage.MaxImagesPerArticle] URL lookups run
// concurrently as a joined task set; the run does not advance to the next
// article until all of them settle.
//
// # Failure policy
//
//   - article source fails: the run is aborted, logged, and the error returned
//   - image listing fails: that article contributes nothing, the run continues
//   - URL lookup fails: that image is dropped silently
//
// Nothing is retried and nothing is cancelled by clearing the display; a
// clear during a run only empties what was rendered so far.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/wikicollage/pkg/collage"
)

// ArticleSource yields random articles.
type ArticleSource interface {
	RandomArticles(ctx context.Context, count int) ([]collage.Article, error)
}

// ImageLister lists the files referenced by an article.
type ImageLister interface {
	ListImages(ctx context.Context, title string) ([]collage.ImageCandidate, error)
}

// URLResolver resolves a file title to a direct image URL.
type URLResolver interface {
	ImageURL(ctx context.Context, filename string) (string, bool, error)
}

// Source bundles the three upstream lookups. *wikipedia.Client satisfies it.
type Source interface {
	ArticleSource
	ImageLister
	URLResolver
}

// Display receives render instructions. Implementations must be safe for
// concurrent use: images of one article are appended from parallel lookups.
type Display interface {
	Append(ctx context.Context, img collage.ResolvedImage) error
}

// ScaleSource provides the scale range at placement time. It is read once per
// image, so edits made while a run is in flight affect later placements.
type ScaleSource interface {
	ScaleRange() collage.ScaleRange
}

// FixedScale is a ScaleSource that never changes.
type FixedScale collage.ScaleRange

// ScaleRange implements ScaleSource.
func (f FixedScale) ScaleRange() collage.ScaleRange { return collage.ScaleRange(f) }

// State is the observable run state.
type State int

const (
	// Idle means no run is in flight.
	Idle State = iota
	// Loading means at least one run is in flight.
	Loading
)

// String returns "idle" or "loading".
func (s State) String() string {
	if s == Loading {
		return "loading"
	}
	return "idle"
}

// MarshalText encodes the state as its string form.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText parses "idle" or "loading".
func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "idle":
		*s = Idle
	case "loading":
		*s = Loading
	default:
		return fmt.Errorf("unknown state %q", text)
	}
	return nil
}

// Request describes one batch.
type Request struct {
	Viewport   collage.Viewport
	PanelWidth float64
}

// Result summarizes a run.
type Result struct {
	Stats Stats `json:"stats"`
}

// Stats counts what a run did.
type Stats struct {
	Articles       int           `json:"articles"`
	Candidates     int           `json:"candidates"`
	Attempted      int           `json:"attempted"`
	Rendered       int           `json:"rendered"`
	Skipped        int           `json:"skipped"`
	FailedListings int           `json:"failed_listings"`
	Duration       time.Duration `json:"duration"`
}
