package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"assetkit/internal/report"
)

type Model struct {
	title       string
	updates     <-chan report.ProgressUpdate
	bar         progress.Model
	started     time.Time
	width       int
	total       int
	succeeded   int
	skipped     int
	failed      int
	bytes       int64
	current     string
	quitting    bool
	interrupted bool
}

type doneMsg struct{}

type updateMsg report.ProgressUpdate

// NewModel renders progress for a batch job until updates is closed.
func NewModel(title string, updates <-chan report.ProgressUpdate) Model {
	bar := progress.New(progress.WithGradient(string(ColorAccentAlt), string(ColorAccent)))
	bar.PercentageStyle = lipgloss.NewStyle().Foreground(ColorDim).Width(5)
	return Model{title: title, updates: updates, bar: bar, started: time.Now()}
}

func (m Model) Init() tea.Cmd {
	return listenForUpdates(m.updates)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case updateMsg:
		m.total += msg.TotalDelta
		m.succeeded += msg.SuccessDelta
		m.skipped += msg.SkipDelta
		m.failed += msg.FailDelta
		m.bytes += msg.BytesDelta
		if msg.Current != "" {
			m.current = msg.Current
		}
		return m, listenForUpdates(m.updates)
	case doneMsg:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			m.interrupted = true
			return m, tea.Quit
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	default:
		return m, nil
	}
}

// Interrupted reports whether the view was closed with ctrl+c before the
// job finished.
func (m Model) Interrupted() bool {
	return m.interrupted
}

func (m Model) Done() int {
	return m.succeeded + m.skipped + m.failed
}

func (m Model) Ratio() float64 {
	if m.total <= 0 {
		return 0
	}
	ratio := float64(m.Done()) / float64(m.total)
	if ratio > 1 {
		ratio = 1
	}
	return ratio
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	bar := m.bar
	bar.Width = 40
	if m.width > 0 {
		bar.Width = min(60, max(20, m.width-10))
	}

	elapsed := time.Since(m.started).Round(time.Millisecond)
	lines := []string{
		titleStyle.Render(m.title),
		labelStyle.Render(fmt.Sprintf("Items: %d/%d", m.Done(), m.total)) +
			dimStyle.Render(fmt.Sprintf("  ok:%d skipped:%d failed:%d", m.succeeded, m.skipped, m.failed)),
		labelStyle.Render(fmt.Sprintf("Written: %d KB", report.KB(m.bytes))),
	}
	if m.current != "" {
		lines = append(lines, dimStyle.Render("Last: "+m.current))
	}
	lines = append(lines,
		dimStyle.Render(fmt.Sprintf("Elapsed: %s", elapsed)),
		bar.ViewAs(m.Ratio()),
	)
	return strings.Join(lines, "\n")
}

func listenForUpdates(updates <-chan report.ProgressUpdate) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-updates
		if !ok {
			return doneMsg{}
		}
		return updateMsg(update)
	}
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	labelStyle = lipgloss.NewStyle().Foreground(ColorInk)
	dimStyle   = lipgloss.NewStyle().Foreground(ColorDim)
)
