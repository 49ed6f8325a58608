package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"assetkit/internal/report"
)

func TestModelCountsUpdates(t *testing.T) {
	updates := make(chan report.ProgressUpdate)
	var m tea.Model = NewModel("convert", updates)

	for _, u := range []report.ProgressUpdate{
		{TotalDelta: 3},
		{SuccessDelta: 1, BytesDelta: 4096, Current: "a.jpg"},
		{SkipDelta: 1, Current: "b.jpg"},
		{FailDelta: 1, Current: "c.png"},
	} {
		m, _ = m.Update(updateMsg(u))
	}

	got := m.(Model)
	if got.total != 3 || got.Done() != 3 {
		t.Fatalf("total=%d done=%d", got.total, got.Done())
	}
	if got.Ratio() != 1 {
		t.Fatalf("ratio = %v", got.Ratio())
	}
	view := got.View()
	for _, want := range []string{"Items: 3/3", "ok:1 skipped:1 failed:1", "Written: 4 KB", "Last: c.png"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}

	m, cmd := got.Update(doneMsg{})
	if cmd == nil || m.View() != "" {
		t.Fatalf("expected quit with empty view")
	}
}

func TestListenForUpdatesEndsOnClose(t *testing.T) {
	updates := make(chan report.ProgressUpdate)
	close(updates)
	if _, ok := listenForUpdates(updates)().(doneMsg); !ok {
		t.Fatalf("expected doneMsg after close")
	}
}

func TestRatioWithoutTotal(t *testing.T) {
	if r := NewModel("x", nil).Ratio(); r != 0 {
		t.Fatalf("ratio = %v", r)
	}
}

func TestRenderSummary(t *testing.T) {
	out := RenderSummary("Conversion", []SummaryRow{
		Row("Converted", "%d", 2),
		{Label: "Reduction", Value: "41.5%", Tone: ToneGood},
	})
	for _, want := range []string{"Conversion", "Converted", "Reduction", "41.5%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "\n") != 4 {
		t.Fatalf("unexpected line count:\n%s", out)
	}
}

func TestRenderList(t *testing.T) {
	if RenderList("Failed", nil) != "" {
		t.Fatalf("empty list should render nothing")
	}
	out := RenderList("Failed", []string{"a.jpg", "b.png"})
	if !strings.Contains(out, "  - a.jpg") || !strings.Contains(out, "  - b.png") {
		t.Fatalf("unexpected list:\n%s", out)
	}
}

func TestCtrlCMarksInterrupted(t *testing.T) {
	m, cmd := NewModel("generate", nil).Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if !m.(Model).Interrupted() || m.View() != "" {
		t.Fatalf("model not marked interrupted")
	}

	m, _ = NewModel("generate", nil).Update(doneMsg{})
	if m.(Model).Interrupted() {
		t.Fatalf("normal completion marked interrupted")
	}
}
