package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type Tone int

const (
	ToneNormal Tone = iota
	ToneGood
	ToneWarn
)

type SummaryRow struct {
	Label string
	Value string
	Tone  Tone
}

func Row(label string, format string, args ...any) SummaryRow {
	return SummaryRow{Label: label, Value: fmt.Sprintf(format, args...)}
}

// RenderSummary draws rows as a two-column table framed by rules.
func RenderSummary(title string, rows []SummaryRow) string {
	labelWidth := 0
	valueWidth := 0
	for _, row := range rows {
		labelWidth = max(labelWidth, lipgloss.Width(row.Label))
		valueWidth = max(valueWidth, lipgloss.Width(row.Value))
	}

	hline := ruleStyle.Render(strings.Repeat("-", labelWidth+valueWidth+3))
	var lines []string
	if title != "" {
		lines = append(lines, titleStyle.Render(title))
	}
	lines = append(lines, hline)
	for _, row := range rows {
		label := padRight(row.Label, labelWidth)
		value := padRight(row.Value, valueWidth)
		lines = append(lines, fmt.Sprintf("%s | %s", labelStyle.Render(label), toneStyle(row.Tone).Render(value)))
	}
	lines = append(lines, hline)
	return strings.Join(lines, "\n")
}

// RenderList renders a heading followed by one bullet per item. It returns
// an empty string for an empty list.
func RenderList(heading string, items []string) string {
	if len(items) == 0 {
		return ""
	}
	lines := []string{warnStyle.Render(heading)}
	for _, item := range items {
		lines = append(lines, "  - "+item)
	}
	return strings.Join(lines, "\n")
}

func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

func toneStyle(t Tone) lipgloss.Style {
	switch t {
	case ToneGood:
		return goodStyle
	case ToneWarn:
		return warnStyle
	default:
		return valueStyle
	}
}

var (
	valueStyle = lipgloss.NewStyle().Foreground(ColorInk).Bold(true)
	goodStyle  = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(ColorWarn).Bold(true)
	ruleStyle  = lipgloss.NewStyle().Foreground(ColorDim)
)
