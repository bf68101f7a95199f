// Package board is the display container a collage renders into.
//
// A [Board] owns rendered items until it is cleared. Clearing never cancels
// runs that are still resolving images: their late results append to the
// emptied board. [Display] adapts a Board to the pipeline's render
// instructions and decorates each image with an ID, an accent color and the
// article link.
//
// Two backends are provided: [Memory] for a single process and [Redis] for
// a board shared across server replicas.
package board

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/wikicollage/pkg/collage"
	"github.com/matzehuels/wikicollage/pkg/integrations/wikipedia"
	"github.com/matzehuels/wikicollage/pkg/observability"
)

// Item is one rendered image node.
type Item struct {
	ID         string                `json:"id"`
	Image      collage.ResolvedImage `json:"image"`
	ArticleURL string                `json:"article_url"`
	Accent     string                `json:"accent"`
	AddedAt    time.Time             `json:"added_at"`
}

// Board is a goroutine-safe, insertion-ordered display container.
type Board interface {
	// Append adds an item at the end.
	Append(ctx context.Context, item Item) error

	// Clear removes every item and returns how many were removed.
	Clear(ctx context.Context) (int, error)

	// Items returns a snapshot in insertion order.
	Items(ctx context.Context) ([]Item, error)

	// Len returns the number of items.
	Len(ctx context.Context) (int, error)
}

// Display turns resolved images into board items. It satisfies
// pipeline.Display.
type Display struct {
	Board    Board
	WikiBase string
	Colors   collage.Source
	Now      func() time.Time
}

// NewDisplay creates a Display appending to b with default link base,
// random source and clock.
func NewDisplay(b Board, wikiBase string) *Display {
	return &Display{Board: b, WikiBase: wikiBase}
}

// Append implements pipeline.Display.
func (d *Display) Append(ctx context.Context, img collage.ResolvedImage) error {
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	return d.Board.Append(ctx, Item{
		ID:         uuid.NewString(),
		Image:      img,
		ArticleURL: wikipedia.ArticleURL(d.WikiBase, img.SourceArticleTitle),
		Accent:     collage.RandomAccent(d.Colors).String(),
		AddedAt:    now().UTC(),
	})
}

func emitAppend(ctx context.Context, backend string) {
	observability.Board().OnAppend(ctx, backend)
}

func emitClear(ctx context.Context, backend string, n int) {
	observability.Board().OnClear(ctx, backend, n)
}
