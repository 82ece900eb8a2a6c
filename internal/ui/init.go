package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"mockup-finder/internal/config"
	"mockup-finder/internal/core/session"
)

// New builds the initial model. client may be nil in tests that never reach
// an effect.
func New(cfg config.Config, client Gateway) Model {
	m := Model{
		cfg:      cfg,
		client:   client,
		sess:     session.New(sessionOptions(cfg)),
		previews: make(map[string]previewEntry),
	}

	si := textinput.New()
	si.CharLimit = 120
	si.Width = 40
	if cfg.Mode == config.ModeLookup {
		si.Placeholder = "Exact fabric reference (e.g. FAB-101)"
		si.Prompt = "Ref: "
	} else {
		si.Placeholder = "Fabric reference (e.g. ABC123)"
		si.Prompt = "Search: "
	}
	si.Focus()
	m.searchInput = si
	m.mode = inputSearch

	fi := textinput.New()
	fi.Placeholder = "Filter loaded fabrics…"
	fi.Prompt = "Filter: "
	fi.CharLimit = 120
	fi.Width = 40
	m.filter.input = fi
	m.filterCfg = FilterConfig{
		MinCoverage: 0.6,
		MaxSpread:   40,
		MaxResults:  200,
	}

	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = subtleStyle
	m.spinner = sp

	// initial dimensions, updated on the first WindowSizeMsg
	m.viewport = viewport.New(80, 20)

	if enableFlag(os.Getenv("MOCKUPFINDER_HELP_ON_START")) {
		m.showHelp = true
	}
	m.statusMsg = "Type a reference and press Enter."
	return m
}

func sessionOptions(cfg config.Config) session.Options {
	opts := session.Options{
		AutoSelectFirst: cfg.AutoSelectFirst,
		ScrollToViewer:  cfg.ScrollToViewer,
	}
	if cfg.Mode == config.ModeLookup {
		opts.Mode = session.ModeLookup
	}
	return opts
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

// enableFlag returns true for common truthy values: 1, true, yes (case-insensitive)
func enableFlag(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on", "enable", "enabled":
		return true
	default:
		return false
	}
}
