package pipeline

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/wikicollage/pkg/collage"
	"github.com/matzehuels/wikicollage/pkg/observability"
)

// Runner executes collage batches against a Source.
//
// A Runner keeps no per-run results; its only state is the number of runs in
// flight, which backs [Runner.State]. Multiple goroutines may call Run
// concurrently; their insertions interleave on the display.
type Runner struct {
	Source Source
	Placer *collage.Placer
	Logger *log.Logger

	// ImagesPerArticle caps resolutions per article; zero means
	// [collage.MaxImagesPerArticle].
	ImagesPerArticle int

	inflight atomic.Int32
}

// NewRunner creates a runner. A nil placer uses the default random source and
// a nil logger uses log.Default().
func NewRunner(src Source, placer *collage.Placer, logger *log.Logger) *Runner {
	if placer == nil {
		placer = collage.NewPlacer(nil)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Source: src,
		Placer: placer,
		Logger: logger,
	}
}

// State reports Loading while any run is in flight.
func (r *Runner) State() State {
	if r.inflight.Load() > 0 {
		return Loading
	}
	return Idle
}

// Run executes one batch, appending every resolved image to display.
//
// The returned Result is never nil. The error is non-nil only when the
// article source failed; per-article and per-image failures are reflected in
// the stats instead.
func (r *Runner) Run(ctx context.Context, req Request, scale ScaleSource, display Display) (*Result, error) {
	r.inflight.Add(1)
	defer r.inflight.Add(-1)

	start := time.Now()
	hooks := observability.Pipeline()
	hooks.OnRunStart(ctx, collage.ArticleCount)

	result := &Result{}
	err := r.run(ctx, req, scale, display, &result.Stats)
	result.Stats.Duration = time.Since(start)

	if err != nil {
		r.Logger.Error("batch aborted", "err", err, "duration", result.Stats.Duration.Round(time.Millisecond))
	} else {
		r.Logger.Info("batch complete",
			"articles", result.Stats.Articles,
			"rendered", result.Stats.Rendered,
			"duration", result.Stats.Duration.Round(time.Millisecond))
	}
	hooks.OnRunComplete(ctx, result.Stats.Rendered, result.Stats.Duration, err)
	return result, err
}

func (r *Runner) run(ctx context.Context, req Request, scale ScaleSource, display Display, stats *Stats) error {
	articles, err := r.Source.RandomArticles(ctx, collage.ArticleCount)
	if err != nil {
		return fmt.Errorf("fetch articles: %w", err)
	}
	stats.Articles = len(articles)
	r.Logger.Debug("fetched articles", "count", len(articles))

	for _, a := range articles {
		r.processArticle(ctx, a, req, scale, display, stats)
	}
	return nil
}

// processArticle lists, filters and resolves one article's images. It returns
// only after every resolution it started has settled.
func (r *Runner) processArticle(ctx context.Context, a collage.Article, req Request, scale ScaleSource, display Display, stats *Stats) {
	hooks := observability.Pipeline()

	images, err := r.Source.ListImages(ctx, a.Title)
	if err != nil {
		stats.FailedListings++
		r.Logger.Warn("image listing failed", "article", a.Title, "err", err)
		hooks.OnArticleDone(ctx, a.Title, 0, 0, err)
		return
	}

	candidates := collage.SelectCandidates(images, r.ImagesPerArticle)
	stats.Candidates += len(collage.FilterCandidates(images))
	stats.Attempted += len(candidates)

	var (
		mu       sync.Mutex
		rendered int
	)
	var g errgroup.Group
	for _, c := range candidates {
		g.Go(func() error {
			url, ok := r.resolveURL(ctx, c.Title)
			if !ok {
				return nil
			}
			img := collage.ResolvedImage{
				URL:                url,
				SourceArticleTitle: a.Title,
				Position:           r.Placer.Next(req.Viewport, req.PanelWidth, scale.ScaleRange()),
			}
			if err := display.Append(ctx, img); err != nil {
				r.Logger.Warn("display append failed", "article", a.Title, "url", url, "err", err)
				return nil
			}
			hooks.OnImageRendered(ctx, a.Title, url)
			mu.Lock()
			rendered++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // tasks never return errors; this is the per-article barrier

	stats.Rendered += rendered
	stats.Skipped += len(candidates) - rendered
	r.Logger.Debug("article done", "article", a.Title, "attempted", len(candidates), "rendered", rendered)
	hooks.OnArticleDone(ctx, a.Title, len(candidates), rendered, nil)
}

// resolveURL looks up a direct URL, treating lookup failures and vector
// images as absent.
func (r *Runner) resolveURL(ctx context.Context, filename string) (string, bool) {
	url, ok, err := r.Source.ImageURL(ctx, filename)
	if err != nil {
		r.Logger.Debug("image lookup failed", "file", filename, "err", err)
		return "", false
	}
	if !ok || collage.IsVectorURL(url) {
		return "", false
	}
	return url, true
}
