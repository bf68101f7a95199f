package cli

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wikicollage/pkg/board"
	"github.com/matzehuels/wikicollage/pkg/collage"
	"github.com/matzehuels/wikicollage/pkg/controls"
	"github.com/matzehuels/wikicollage/pkg/pipeline"
)

// scaleStep matches the page's slider step.
const scaleStep = 0.1

const refreshInterval = 200 * time.Millisecond

var (
	tuiDimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	tuiLoadingStyle = lipgloss.NewStyle().Foreground(colorYellow)
	tuiIdleStyle    = lipgloss.NewStyle().Foreground(colorGreen)
	tuiErrorStyle   = lipgloss.NewStyle().Foreground(colorRed)
)

// tuiCommand creates the interactive controls command.
func (c *CLI) tuiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Drive a collage session from the terminal",
		Long: `Open an interactive session. A first batch is fetched on start.

Keys:
  f      fetch more
  c      clear all
  [ ]    lower / raise the min scale
  { }    lower / raise the max scale
  q      quit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			sess, err := c.newSession(newSource(cfg), cfg.Session())
			if err != nil {
				return err
			}

			// Run logs would tear the alternate screen.
			level := c.Logger.GetLevel()
			c.Logger.SetLevel(LogError)
			defer c.Logger.SetLevel(level)

			_, err = tea.NewProgram(newControlsModel(ctx, sess), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}
}

// =============================================================================
// controlsModel - interactive session controls
// =============================================================================

type (
	tickMsg  struct{}
	itemsMsg struct {
		items []board.Item
		state pipeline.State
		err   error
	}
	fetchDoneMsg struct {
		stats pipeline.Stats
		err   error
	}
	clearedMsg struct {
		removed int
		err     error
	}
)

// controlsModel is the bubbletea model behind the tui command. Fetches run
// as commands, so several may be in flight; the view follows the session's
// own loading state.
type controlsModel struct {
	ctx     context.Context
	session *controls.Session

	items  []board.Item
	state  pipeline.State
	status string
	err    error
	height int
	frame  int
}

func newControlsModel(ctx context.Context, sess *controls.Session) controlsModel {
	return controlsModel{ctx: ctx, session: sess, height: 20}
}

func (m controlsModel) Init() tea.Cmd {
	return tea.Batch(m.fetch(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m controlsModel) fetch() tea.Cmd {
	return func() tea.Msg {
		res, err := m.session.FetchMore(m.ctx)
		if err != nil {
			return fetchDoneMsg{err: err}
		}
		return fetchDoneMsg{stats: res.Stats}
	}
}

func (m controlsModel) clear() tea.Cmd {
	return func() tea.Msg {
		n, err := m.session.ClearAll(m.ctx)
		return clearedMsg{removed: n, err: err}
	}
}

func (m controlsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		items, err := m.session.Items(m.ctx)
		return itemsMsg{items: items, state: m.session.State(), err: err}
	}
}

func (m controlsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-12, 3)
	case tickMsg:
		m.frame++
		return m, tea.Batch(m.refresh(), tick())
	case itemsMsg:
		if msg.err != nil {
			m.err = msg.err
			break
		}
		m.items, m.state = msg.items, msg.state
	case fetchDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			m.status = "fetch failed"
			break
		}
		m.err = nil
		m.status = fmt.Sprintf("fetched %d articles, rendered %d images", msg.stats.Articles, msg.stats.Rendered)
		return m, m.refresh()
	case clearedMsg:
		if msg.err != nil {
			m.err = msg.err
			break
		}
		m.status = fmt.Sprintf("cleared %d images", msg.removed)
		return m, m.refresh()
	}
	return m, nil
}

func (m controlsModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rng := m.session.ScaleRange()
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "f":
		m.status = "fetching..."
		return m, m.fetch()
	case "c":
		return m, m.clear()
	case "[":
		return m.setScale(m.session.SetMinScale, rng.Min-scaleStep)
	case "]":
		return m.setScale(m.session.SetMinScale, rng.Min+scaleStep)
	case "{":
		return m.setScale(m.session.SetMaxScale, rng.Max-scaleStep)
	case "}":
		return m.setScale(m.session.SetMaxScale, rng.Max+scaleStep)
	}
	return m, nil
}

func (m controlsModel) setScale(set func(float64) (collage.ScaleRange, error), v float64) (tea.Model, tea.Cmd) {
	rng, err := set(math.Round(v*10) / 10)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil
	m.status = fmt.Sprintf("scale %.1f..%.1f", rng.Min, rng.Max)
	return m, nil
}

func (m controlsModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("wikicollage"))
	b.WriteString("  ")
	if m.state == pipeline.Loading {
		b.WriteString(tuiLoadingStyle.Render(spinnerFrames[m.frame%len(spinnerFrames)] + " loading"))
	} else {
		b.WriteString(tuiIdleStyle.Render("● idle"))
	}
	b.WriteString("\n")

	rng := m.session.ScaleRange()
	floor, ceiling := m.session.ScaleBounds()
	b.WriteString(fmt.Sprintf("min %s  max %s  %s  %s\n",
		StyleNumber.Render(fmt.Sprintf("%.1f", rng.Min)),
		StyleNumber.Render(fmt.Sprintf("%.1f", rng.Max)),
		tuiDimStyle.Render(fmt.Sprintf("bounds %.1f..%.1f", floor, ceiling)),
		tuiDimStyle.Render(fmt.Sprintf("%d images", len(m.items)))))
	b.WriteString(tuiDimStyle.Render("f fetch  c clear  [ ] min  { } max  q quit"))
	b.WriteString("\n\n")

	b.WriteString(m.itemsView())
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(tuiErrorStyle.Render(iconError + " " + m.err.Error()))
	case m.status != "":
		b.WriteString(tuiDimStyle.Render(m.status))
	}
	b.WriteString("\n")
	return b.String()
}

// itemsView shows the most recent items that fit the window.
func (m controlsModel) itemsView() string {
	if len(m.items) == 0 {
		return tuiDimStyle.Render("  nothing placed yet")
	}
	start := max(len(m.items)-m.height, 0)
	rows := make([][]string, 0, len(m.items)-start)
	for i := start; i < len(m.items); i++ {
		it := m.items[i]
		p := it.Image.Position
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			it.Image.SourceArticleTitle,
			fmt.Sprintf("%.2f", p.Scale),
			fmt.Sprintf("%+.1f°", p.Rotation),
			it.ArticleURL,
		})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Article", "Scale", "Rotation", "Link").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col == 4 {
				return StyleLink
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
