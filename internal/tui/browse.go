// Package tui implements the interactive mirror browser behind
// "specchio browse". It fetches the mirror set through the same pipeline as
// the generate command and presents it as a sortable, filterable table.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/davoli/specchio/internal/config"
	"github.com/davoli/specchio/internal/logging"
	"github.com/davoli/specchio/internal/mirror"
	"github.com/davoli/specchio/internal/pipeline"
	"github.com/davoli/specchio/internal/sorting"
	"github.com/davoli/specchio/internal/tui/styles"
)

// sortCycle is the order the "s" key steps through.
var sortCycle = []string{
	sorting.KeyScore,
	sorting.KeyAge,
	sorting.KeyCompletionPct,
	sorting.KeyDelay,
	sorting.KeyCountry,
	sorting.KeyURL,
}

// fetchedMsg delivers the result of a pipeline run.
type fetchedMsg struct {
	result *pipeline.Result
	err    error
}

// configReloadedMsg reports that the watched config file changed on disk.
type configReloadedMsg struct {
	name string
}

// Model is the Bubbletea model for the mirror browser.
type Model struct {
	cfg    *config.Config
	logger *logging.Logger
	pipe   *pipeline.Pipeline

	spinner     spinner.Model
	table       table.Model
	filterInput textinput.Model

	mirrors   []mirror.Mirror // full fetched set, unsorted view source
	fetchedAt time.Time
	total     int

	sortIndex int
	reverse   bool
	pattern   glob.Glob
	rawFilter string

	filtering bool
	loading   bool
	err       error
	notice    string
	quitting  bool

	width  int
	height int

	reloads <-chan string
}

// NewModel creates a browser model. The reloads channel may be nil when no
// config file is being watched.
func NewModel(cfg *config.Config, logger *logging.Logger, pipe *pipeline.Pipeline, reloads <-chan string) Model {
	if logger == nil {
		logger = logging.NopLogger()
	}

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(styles.Primary),
	)

	ti := textinput.New()
	ti.Placeholder = "glob over URL and country"
	ti.Prompt = "/ "
	ti.CharLimit = 80

	tbl := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
	)
	ts := table.DefaultStyles()
	ts.Header = styles.TableHeader
	ts.Selected = styles.TableSelected
	tbl.SetStyles(ts)

	return Model{
		cfg:         cfg,
		logger:      logger.WithComponent("browse"),
		pipe:        pipe,
		spinner:     sp,
		filterInput: ti,
		table:       tbl,
		loading:     true,
		width:       80,
		height:      24,
		reloads:     reloads,
	}
}

// Init starts the spinner, the initial fetch, and the config watch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch(), m.waitForReload())
}

// fetch runs the pipeline off the Bubbletea event loop.
func (m Model) fetch() tea.Cmd {
	pipe := m.pipe
	return func() tea.Msg {
		result, err := pipe.Run(context.Background())
		return fetchedMsg{result: result, err: err}
	}
}

// waitForReload blocks until the config watcher reports a change.
func (m Model) waitForReload() tea.Cmd {
	if m.reloads == nil {
		return nil
	}
	reloads := m.reloads
	return func() tea.Msg {
		name, ok := <-reloads
		if !ok {
			return nil
		}
		return configReloadedMsg{name: name}
	}
}

// Update handles Bubbletea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case fetchedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.mirrors = msg.result.Mirrors
		m.fetchedAt = msg.result.FetchedAt
		m.total = msg.result.Total
		m.refreshRows()
		return m, nil

	case configReloadedMsg:
		m.notice = fmt.Sprintf("config reloaded (%s)", msg.name)
		if cfg, err := config.Load(); err == nil {
			m.cfg = cfg
			if pipe, err := pipeline.New(cfg, m.logger); err == nil {
				m.pipe = pipe
			}
		} else {
			m.notice = fmt.Sprintf("config change ignored: %v", err)
		}
		return m, m.waitForReload()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.filtering {
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleKey dispatches key presses, routing them to the filter input while
// it is open.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering {
		switch msg.String() {
		case "enter":
			m.filtering = false
			m.filterInput.Blur()
			m.setFilter(m.filterInput.Value())
			return m, nil
		case "esc":
			m.filtering = false
			m.filterInput.Blur()
			m.filterInput.SetValue("")
			m.setFilter("")
			return m, nil
		default:
			var cmd tea.Cmd
			m.filterInput, cmd = m.filterInput.Update(msg)
			return m, cmd
		}
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "/":
		m.filtering = true
		m.filterInput.Focus()
		return m, textinput.Blink

	case "esc":
		m.filterInput.SetValue("")
		m.setFilter("")
		return m, nil

	case "s":
		m.sortIndex = (m.sortIndex + 1) % len(sortCycle)
		m.refreshRows()
		return m, nil

	case "r":
		m.reverse = !m.reverse
		m.refreshRows()
		return m, nil

	case "R":
		m.loading = true
		m.err = nil
		m.notice = ""
		return m, tea.Batch(m.spinner.Tick, m.fetch())
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// setFilter compiles and applies a glob pattern. Patterns without glob
// metacharacters match as substrings. A pattern that does not compile leaves
// the current filter in place and surfaces a notice.
func (m *Model) setFilter(raw string) {
	raw = strings.TrimSpace(strings.ToLower(raw))

	if raw == "" {
		m.pattern = nil
		m.rawFilter = ""
		m.refreshRows()
		return
	}

	if !strings.ContainsAny(raw, "*?[{") {
		raw = "*" + raw + "*"
	}

	pattern, err := glob.Compile(raw)
	if err != nil {
		m.notice = fmt.Sprintf("bad filter pattern: %v", err)
		return
	}

	m.pattern = pattern
	m.rawFilter = raw
	m.refreshRows()
}

// visible returns the fetched mirrors that pass the interactive filter, in
// the current sort order.
func (m *Model) visible() []mirror.Mirror {
	mirrors := make([]mirror.Mirror, 0, len(m.mirrors))
	for _, mr := range m.mirrors {
		if m.pattern != nil &&
			!m.pattern.Match(strings.ToLower(mr.URL)) &&
			!m.pattern.Match(strings.ToLower(mr.Country)) {
			continue
		}
		mirrors = append(mirrors, mr)
	}

	sorting.New([]string{sortCycle[m.sortIndex]}, m.reverse, m.logger).Sort(mirrors, m.fetchedAt)
	return mirrors
}

// refreshRows rebuilds the table rows from the current filter and sort.
func (m *Model) refreshRows() {
	mirrors := m.visible()

	rows := make([]table.Row, 0, len(mirrors))
	for i := range mirrors {
		rows = append(rows, row(&mirrors[i], m.fetchedAt))
	}

	m.table.SetRows(rows)
	m.resize()
}

// resize recomputes table dimensions from the window size.
func (m *Model) resize() {
	width := m.width
	if width < 40 {
		width = 40
	}
	// Title, status bar, and help bar take four lines.
	height := m.height - 4
	if height < 3 {
		height = 3
	}

	m.table.SetColumns(columns(width))
	m.table.SetWidth(width)
	m.table.SetHeight(height)
	m.filterInput.Width = width - 4
}

// columns sizes the table columns for the given total width. The URL column
// absorbs whatever the fixed columns leave over.
func columns(width int) []table.Column {
	const fixed = 8 + 16 + 6 + 7 + 7 + 9 // every column except URL
	urlWidth := width - fixed - 14       // cell padding
	if urlWidth < 20 {
		urlWidth = 20
	}

	return []table.Column{
		{Title: "URL", Width: urlWidth},
		{Title: "Proto", Width: 8},
		{Title: "Country", Width: 16},
		{Title: "Compl", Width: 6},
		{Title: "Delay", Width: 7},
		{Title: "Score", Width: 7},
		{Title: "Age", Width: 9},
	}
}

// row renders one mirror as table cells. Values the feed has no data for
// show as a dash.
func row(m *mirror.Mirror, now time.Time) table.Row {
	completion := "-"
	if m.CompletionPct != nil {
		completion = fmt.Sprintf("%.0f%%", *m.CompletionPct*100)
	}

	delay := "-"
	if m.Delay != nil {
		delay = (time.Duration(*m.Delay) * time.Second).String()
	}

	score := "-"
	if m.Score != nil {
		score = fmt.Sprintf("%.2f", *m.Score)
	}

	age := "-"
	if m.LastSync != nil {
		age = formatAge(m.Age(now))
	}

	return table.Row{m.URL, m.Protocol, m.Country, completion, delay, score, age}
}

// formatAge renders a sync age compactly: minutes under an hour, hours under
// two days, days beyond that.
func formatAge(age time.Duration) string {
	switch {
	case age < 0:
		return "0m"
	case age < time.Hour:
		return fmt.Sprintf("%dm", int(age.Minutes()))
	case age < 48*time.Hour:
		return fmt.Sprintf("%.1fh", age.Hours())
	default:
		return fmt.Sprintf("%.1fd", age.Hours()/24)
	}
}

// View renders the browser.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(styles.Title.Render("specchio"))
	b.WriteString(" ")
	b.WriteString(styles.Subtitle.Render("mirror browser"))
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(fmt.Sprintf("\n  %s fetching mirror status...\n", m.spinner.View()))
	case m.err != nil:
		b.WriteString("\n" + styles.Error.Render(fmt.Sprintf("  error: %v", m.err)) + "\n")
		b.WriteString(styles.Muted.Render("  press R to retry, q to quit") + "\n")
	default:
		b.WriteString(m.table.View())
		b.WriteString("\n")
		b.WriteString(m.statusBar())
	}

	b.WriteString("\n")
	if m.filtering {
		b.WriteString(m.filterInput.View())
	} else {
		b.WriteString(m.helpBar())
	}

	return b.String()
}

// statusBar summarizes the visible set and any pending notice.
func (m Model) statusBar() string {
	status := fmt.Sprintf("%d/%d mirrors", len(m.table.Rows()), m.total)

	order := sortCycle[m.sortIndex]
	if m.reverse {
		order += " desc"
	}
	status += "  sort: " + order

	if m.rawFilter != "" {
		status += "  filter: " + m.rawFilter
	}

	bar := styles.StatusBar.Render(status)
	if m.notice != "" {
		bar += "  " + styles.StatusNotice.Render(m.notice)
	}
	return bar
}

func (m Model) helpBar() string {
	help := []string{
		styles.HelpKey.Render("/") + " filter",
		styles.HelpKey.Render("s") + " sort",
		styles.HelpKey.Render("r") + " reverse",
		styles.HelpKey.Render("R") + " refetch",
		styles.HelpKey.Render("esc") + " clear",
		styles.HelpKey.Render("q") + " quit",
	}
	return styles.HelpBar.Render(strings.Join(help, "  "))
}

// Browse runs the interactive mirror browser until the user quits. The
// config file is watched while the browser is open; changes show up in the
// status bar and apply to the next refetch.
func Browse(cfg *config.Config, logger *logging.Logger) error {
	pipe, err := pipeline.New(cfg, logger)
	if err != nil {
		return err
	}

	reloads := make(chan string, 4)
	viper.OnConfigChange(func(e fsnotify.Event) {
		select {
		case reloads <- filepath.Base(e.Name):
		default:
		}
	})
	viper.WatchConfig()

	model := NewModel(cfg, logger, pipe, reloads)

	// Seed the size before the first WindowSizeMsg so the initial frame is
	// laid out correctly.
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		model.width = w
		model.height = h
		model.resize()
	}

	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
