package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wikicollage/pkg/board"
	"github.com/matzehuels/wikicollage/pkg/collage"
	"github.com/matzehuels/wikicollage/pkg/controls"
	"github.com/matzehuels/wikicollage/pkg/pipeline"
)

type fetchOpts struct {
	width, height float64
	panel         float64
	minScale      float64
	maxScale      float64
	jsonOut       bool
}

// fetchOutput is the --json document.
type fetchOutput struct {
	Session string             `json:"session"`
	Scale   collage.ScaleRange `json:"scale"`
	Stats   pipeline.Stats     `json:"stats"`
	Items   []board.Item       `json:"items"`
}

// fetchCommand creates the one-shot fetch command.
func (c *CLI) fetchCommand() *cobra.Command {
	opts := fetchOpts{
		width:  controls.DefaultViewport.Width,
		height: controls.DefaultViewport.Height,
	}

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Run one batch and print the placed images",
		Long: `Fetch random articles, resolve up to three images from each and place
them inside the given viewport. The placements are printed as a table, or as
JSON with --json.`,
		Example: `  wikicollage fetch
  wikicollage fetch --width 1280 --height 720 --min-scale 0.3 --max-scale 0.8
  wikicollage fetch --json | jq '.items[].image.url'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFetch(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&opts.width, "width", opts.width, "viewport width in pixels")
	f.Float64Var(&opts.height, "height", opts.height, "viewport height in pixels")
	f.Float64Var(&opts.panel, "panel", 0, "control panel width in pixels (default from config)")
	f.Float64Var(&opts.minScale, "min-scale", 0, "lower scale bound (default from config)")
	f.Float64Var(&opts.maxScale, "max-scale", 0, "upper scale bound (default from config)")
	f.BoolVar(&opts.jsonOut, "json", false, "print JSON instead of a table")

	return cmd
}

func (c *CLI) runFetch(cmd *cobra.Command, opts fetchOpts) error {
	ctx := cmd.Context()
	prog := newProgress(loggerFromContext(ctx))

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	so := cfg.Session()
	so.Viewport = collage.Viewport{Width: opts.width, Height: opts.height}
	flags := cmd.Flags()
	if flags.Changed("panel") {
		so.PanelWidth = &opts.panel
	}
	if flags.Changed("min-scale") {
		so.Scale.Min = opts.minScale
	}
	if flags.Changed("max-scale") {
		so.Scale.Max = opts.maxScale
	}

	sess, err := c.newSession(newSource(cfg), so)
	if err != nil {
		return err
	}

	res, err := fetchWithSpinner(ctx, sess, !opts.jsonOut)
	if err != nil {
		return err
	}
	items, err := sess.Items(ctx)
	if err != nil {
		return err
	}

	if opts.jsonOut {
		return writeFetchJSON(cmd.OutOrStdout(), fetchOutput{
			Session: sess.ID(),
			Scale:   sess.ScaleRange(),
			Stats:   res.Stats,
			Items:   items,
		})
	}

	out := cmd.OutOrStdout()
	if len(items) > 0 {
		fmt.Fprintln(out, itemsTable(items))
	}
	fmt.Fprintln(out, formatStats(res.Stats))
	prog.done(fmt.Sprintf("Placed %d images", len(items)))
	if len(items) > 0 {
		printNextStep("Browse them interactively", appName+" serve")
	}
	return nil
}

// fetchWithSpinner runs one batch, showing a spinner with the live image
// count when interactive output is wanted.
func fetchWithSpinner(ctx context.Context, sess *controls.Session, show bool) (*pipeline.Result, error) {
	if !show {
		return sess.FetchMore(ctx)
	}

	spinner := newSpinner(ctx, "Fetching random articles...", func() string {
		n, err := sess.Board().Len(ctx)
		if err != nil || n == 0 {
			return ""
		}
		return fmt.Sprintf("(%d placed)", n)
	})
	spinner.Start()

	res, err := sess.FetchMore(ctx)
	if err != nil {
		spinner.StopWithError(err.Error())
		return nil, err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Fetched %d articles", res.Stats.Articles))
	return res, nil
}

func writeFetchJSON(w io.Writer, out fetchOutput) error {
	if out.Items == nil {
		out.Items = []board.Item{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
