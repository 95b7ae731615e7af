// Package watch is a live terminal view that polls a collector and renders
// each snapshot with the preview card.
package watch

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/xytu-function/collectors"
	"gitlab.com/tinyland/lab/xytu-function/display/preview"
	"gitlab.com/tinyland/lab/xytu-function/internal/format"
	"gitlab.com/tinyland/lab/xytu-function/sysinfo"
)

// resultMsg carries one collection run back to Update.
type resultMsg struct {
	result *collectors.CollectResult
	err    error
}

// tickMsg schedules the next collection.
type tickMsg time.Time

var (
	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(preview.ColorSecondary).
			MarginBottom(1)

	styleWarning = lipgloss.NewStyle().Foreground(preview.ColorWarning)
	styleError   = lipgloss.NewStyle().Foreground(preview.ColorDanger)
	styleFooter  = lipgloss.NewStyle().Foreground(preview.ColorMuted).MarginTop(1)
)

// Model is the Bubbletea model for the watch view.
type Model struct {
	ctx       context.Context
	collector collectors.Collector
	logger    *slog.Logger
	interval  time.Duration
	title     string

	spinner spinner.Model
	help    help.Model

	width   int
	height  int
	ready   bool
	loading bool

	snapshot    *sysinfo.Snapshot
	warnings    []string
	err         error
	lastUpdated time.Time
}

// NewModel returns a Model polling c every interval. A non-positive
// interval uses c.Interval(). If logger is nil, a no-op logger is used.
func NewModel(ctx context.Context, c collectors.Collector, interval time.Duration, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if interval <= 0 {
		interval = c.Interval()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(preview.ColorPrimary)

	return Model{
		ctx:       ctx,
		collector: c,
		logger:    logger,
		interval:  interval,
		title:     c.Description(),
		spinner:   sp,
		help:      help.New(),
		loading:   true,
	}
}

// Init starts the spinner and the first collection.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.collect())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, keys.Refresh):
			if !m.loading {
				m.loading = true
				return m, m.collect()
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true

	case resultMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.warnings = msg.result.Warnings
			m.lastUpdated = msg.result.Timestamp
			if snap, ok := msg.result.Data.(*sysinfo.Snapshot); ok {
				m.snapshot = snap
			}
		}
		return m, m.tick()

	case tickMsg:
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, m.collect()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.title
	if m.loading {
		header = m.spinner.View() + " " + header
	}

	var body string
	if m.snapshot != nil {
		body = preview.Render(*m.snapshot, preview.Options{Width: m.width})
	} else {
		body = "Collecting..."
	}

	sections := []string{styleHeader.Render(header), body}
	for _, w := range m.warnings {
		sections = append(sections, styleWarning.Render("! "+w))
	}
	if m.err != nil {
		sections = append(sections, styleError.Render("error: "+m.err.Error()))
	}
	sections = append(sections, m.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderFooter() string {
	parts := []string{m.help.View(keys)}
	if !m.lastUpdated.IsZero() {
		parts = append(parts, "updated "+format.FormatTimeSince(m.lastUpdated))
	}
	return styleFooter.Render(strings.Join(parts, "  "))
}

func (m Model) collect() tea.Cmd {
	ctx, c, logger := m.ctx, m.collector, m.logger
	return func() tea.Msg {
		res, err := collectors.Run(ctx, c, logger)
		return resultMsg{result: res, err: err}
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Run starts the watch view on the terminal and blocks until the user
// quits or ctx is cancelled.
func Run(ctx context.Context, c collectors.Collector, interval time.Duration, logger *slog.Logger, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(NewModel(ctx, c, interval, logger), opts...)
	_, err := p.Run()
	if ctx.Err() != nil {
		return nil
	}
	return err
}
