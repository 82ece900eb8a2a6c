package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"mockup-finder/internal/config"
	"mockup-finder/internal/core/session"
	"mockup-finder/internal/fabric"
)

// Gateway is the part of the fabric client the UI drives.
type Gateway interface {
	Search(ctx context.Context, term string) ([]fabric.Record, error)
	Lookup(ctx context.Context, ref string) (fabric.Record, error)
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
	Download(ctx context.Context, rawURL, dir string) (string, error)
	MetricsSnapshot() fabric.MetricsSnapshot
}

// inputMode tells which text input, if any, owns the keyboard.
type inputMode int

const (
	inputNone inputMode = iota
	inputSearch
	inputFilter
)

// focusZone is the result region the cursor keys move in.
type focusZone int

const (
	focusCards focusZone = iota
	focusCategories
	focusMockups
)

func (z focusZone) String() string {
	switch z {
	case focusCategories:
		return "categories"
	case focusMockups:
		return "mockups"
	}
	return "fabrics"
}

type FilterState struct {
	input       textinput.Model
	query       string
	filteredIdx []int // visible card -> record index; nil means all
}

type CursorState struct {
	focus    focusZone
	card     int
	category int
	mockup   int
}

// previewEntry caches the rendered art (or the failure) for one image URL.
type previewEntry struct {
	art string
	err error
}

type Model struct {
	cfg    config.Config
	client Gateway
	sess   session.State

	width, height int

	mode        inputMode
	searchInput textinput.Model
	filter      FilterState
	filterCfg   FilterConfig
	cursor      CursorState

	spinner  spinner.Model
	viewport viewport.Model
	// revealViewer asks the next viewport sync to scroll the viewer to the top.
	revealViewer   bool
	lastCursorLine int

	previews map[string]previewEntry
	// cancelSearch aborts the in-flight search, nil when none is running.
	cancelSearch context.CancelFunc

	showHelp  bool
	helpText  string
	statusMsg string
}
