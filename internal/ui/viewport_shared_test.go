package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mockup-finder/internal/config"
)

func TestEnsureCursorInViewportScrollsUp(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m.viewport.Height = 5 // margin becomes 1 for small heights
	m.viewport.SetContent(strings.Repeat("x\n", 100))
	m.viewport.SetYOffset(10)

	// With margin 1 and top=10, cursor at 8 should scroll up to 7
	m.ensureCursorInViewport(8)
	if m.viewport.YOffset != 7 {
		t.Fatalf("expected YOffset 7, got %d", m.viewport.YOffset)
	}
}

func TestEnsureCursorInViewportScrollsDown(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m.viewport.Height = 5 // margin becomes 1
	m.viewport.SetContent(strings.Repeat("x\n", 100))
	m.viewport.SetYOffset(0)

	// With margin 1 and height 5, cursor at 4 should scroll down to 1
	m.ensureCursorInViewport(4)
	if m.viewport.YOffset != 1 {
		t.Fatalf("expected YOffset 1, got %d", m.viewport.YOffset)
	}
}

func TestRevealViewerScrollsToViewer(t *testing.T) {
	m, _ := newTestModel(t, func(c *config.Config) { c.ScrollToViewer = true })
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 12})
	m = search(t, m, "ABC123")
	m, _ = press(t, m, "enter", "enter", "enter")

	_, lines := m.renderBody()
	if lines.viewer <= 0 {
		t.Fatalf("expected viewer in body, got line %d", lines.viewer)
	}
	if m.viewport.YOffset != lines.viewer {
		t.Fatalf("expected YOffset %d, got %d", lines.viewer, m.viewport.YOffset)
	}
}

func TestViewportFillsRemainingHeight(t *testing.T) {
	m, _ := newTestModel(t, nil)
	if got := lipgloss.Height(m.View()); got != 80 {
		t.Fatalf("expected view of 80 lines, got %d", got)
	}
	if m.viewport.Height != 80-m.chromeHeight() {
		t.Fatalf("expected viewport height %d, got %d", 80-m.chromeHeight(), m.viewport.Height)
	}

	m = search(t, m, "ABC123")
	before := m.viewport.Height
	m, _ = press(t, m, "f")
	if m.viewport.Height != before-1 {
		t.Fatalf("filter bar should take one row from the viewport: %d -> %d", before, m.viewport.Height)
	}
	if got := lipgloss.Height(m.View()); got != 80 {
		t.Fatalf("expected view of 80 lines with filter bar, got %d", got)
	}
}
