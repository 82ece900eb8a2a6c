package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"mockup-finder/internal/core/session"
	"mockup-finder/internal/fabric"
	"mockup-finder/internal/infra/logx"
)

// action is one entry of a key dispatch table.
type action func(m Model) (Model, tea.Cmd)

// browseKeys is active while no text input has the keyboard.
var browseKeys map[string]action

func init() {
	browseKeys = map[string]action{
		"/":         Model.focusSearch,
		"enter":     Model.activate,
		"tab":       Model.nextZone,
		"shift+tab": Model.prevZone,
		"j":         Model.cursorDown,
		"down":      Model.cursorDown,
		"k":         Model.cursorUp,
		"up":        Model.cursorUp,
		"l":         Model.cursorDown,
		"right":     Model.cursorDown,
		"h":         Model.cursorUp,
		"left":      Model.cursorUp,
		"1":         chooseCategory(fabric.Men),
		"2":         chooseCategory(fabric.Women),
		"3":         chooseCategory(fabric.Kids),
		"d":         requestDownload(session.DownloadImage),
		"t":         requestDownload(session.DownloadTechpack),
		"f":         Model.focusFilter,
		"F":         Model.clearFilter,
		"?":         Model.toggleHelp,
		"pgdown":    Model.pageDown,
		"pgup":      Model.pageUp,
		"esc":       Model.clearStatus,
		"q":         Model.quit,
	}
}

// ---------- Update ----------
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	m.layout()
	m.syncViewport()
	return m, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		key := msg.String()
		// global shortcut, also inside inputs
		if key == "ctrl+c" {
			return m.quit()
		}
		if m.showHelp {
			return m.handleHelpKey(key)
		}
		switch m.mode {
		case inputSearch:
			return m.handleSearchInput(msg)
		case inputFilter:
			return m.handleFilterInput(msg)
		}
		if act, ok := browseKeys[key]; ok {
			return act(m)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = max(20, m.width-2)
		if m.showHelp {
			m.helpText = renderHelp(m.viewport.Width)
		}
		return m, nil

	case searchResultMsg:
		return m.handleSearchResult(msg)

	case previewMsg:
		return m.handlePreview(msg)

	case downloadMsg:
		return m.apply(session.DownloadFinished{Kind: msg.kind, Path: msg.path, Err: msg.err})

	case spinner.TickMsg:
		if m.sess.Phase == session.PhaseLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	// cursor blink and other input-internal messages
	var cmd tea.Cmd
	switch m.mode {
	case inputSearch:
		m.searchInput, cmd = m.searchInput.Update(msg)
	case inputFilter:
		m.filter.input, cmd = m.filter.input.Update(msg)
	}
	return m, cmd
}

func (m Model) handleSearchResult(msg searchResultMsg) (Model, tea.Cmd) {
	if msg.seq == m.sess.Seq {
		m.cancelSearch = nil
	}
	var ev session.Event = session.SearchSucceeded{Seq: msg.seq, Records: msg.records}
	if msg.err != nil {
		ev = session.SearchFailed{Seq: msg.seq, Err: msg.err}
	}
	before := m.sess.Phase
	m, cmd := m.apply(ev)
	if before == session.PhaseLoading && m.sess.Phase == session.PhaseReady {
		m.resetBrowse()
		m.statusMsg = fmt.Sprintf("%d fabric(s) loaded.", len(m.sess.Records))
		if m.sess.Mode == session.ModeLookup && len(m.sess.Records) == 1 {
			var sel tea.Cmd
			m, sel = m.selectCard(0)
			return m, tea.Batch(cmd, sel)
		}
	}
	return m, cmd
}

func (m Model) handlePreview(msg previewMsg) (Model, tea.Cmd) {
	if !m.showsImage(msg.url) {
		logx.Debugf("dropping preview for %s: no longer selected", msg.url)
		return m, nil
	}
	if msg.err != nil {
		logx.Warnf("preview %s: %v", msg.url, msg.err)
	}
	m.previews[msg.url] = previewEntry{art: msg.art, err: msg.err}
	return m, nil
}

// showsImage reports whether url is the selected mockup or the swatch of the
// selected fabric.
func (m Model) showsImage(url string) bool {
	if item, ok := m.sess.SelectedMockup(); ok && item.MockupURL == url {
		return true
	}
	rec, ok := m.sess.ActiveRecord()
	return ok && rec.SwatchURL != "" && rec.SwatchURL == url
}

// layout sizes the viewport to what the header and footer leave over.
func (m *Model) layout() {
	if m.height <= 0 || m.showHelp {
		return
	}
	m.viewport.Height = max(3, m.height-m.chromeHeight())
}

// resetBrowse puts cursors and filter back to their defaults for a new result set.
func (m *Model) resetBrowse() {
	m.cursor = CursorState{}
	m.filter.query = ""
	m.filter.input.SetValue("")
	m.filter.input.Blur()
	m.filter.filteredIdx = nil
	m.viewport.GotoTop()
}

// ---------- Actions ----------

func (m Model) quit() (Model, tea.Cmd) {
	if m.cancelSearch != nil {
		m.cancelSearch()
		m.cancelSearch = nil
	}
	return m, tea.Quit
}

func (m Model) clearStatus() (Model, tea.Cmd) {
	m.statusMsg = ""
	return m, nil
}

func (m Model) toggleHelp() (Model, tea.Cmd) {
	m.showHelp = !m.showHelp
	if m.showHelp {
		m.helpText = renderHelp(m.viewport.Width)
	}
	return m, nil
}

func (m Model) handleHelpKey(key string) (Model, tea.Cmd) {
	switch key {
	case "?", "esc", "q", "enter":
		m.showHelp = false
	}
	return m, nil
}

func (m Model) pageDown() (Model, tea.Cmd) {
	m.viewport.SetYOffset(m.viewport.YOffset + max(1, m.viewport.Height/2))
	return m, nil
}

func (m Model) pageUp() (Model, tea.Cmd) {
	m.viewport.SetYOffset(m.viewport.YOffset - max(1, m.viewport.Height/2))
	return m, nil
}

func chooseCategory(c fabric.Category) action {
	return func(m Model) (Model, tea.Cmd) {
		if _, ok := m.sess.ActiveRecord(); !ok {
			m.statusMsg = "Select a fabric first."
			return m, nil
		}
		return m.selectCategory(c)
	}
}

func requestDownload(kind session.DownloadKind) action {
	return func(m Model) (Model, tea.Cmd) {
		item, ok := m.sess.SelectedMockup()
		switch {
		case !ok:
			m.statusMsg = "Select a mockup first."
			return m, nil
		case kind == session.DownloadTechpack && !item.HasTechpack():
			m.statusMsg = "This mockup has no tech-pack."
			return m, nil
		}
		return m.apply(session.RequestDownload{Kind: kind})
	}
}
