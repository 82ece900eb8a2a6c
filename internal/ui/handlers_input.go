package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"mockup-finder/internal/core/session"
)

func (m Model) focusSearch() (Model, tea.Cmd) {
	m.mode = inputSearch
	m.filter.input.Blur()
	cmd := m.searchInput.Focus()
	return m, cmd
}

func (m Model) focusFilter() (Model, tea.Cmd) {
	if len(m.sess.Records) == 0 {
		m.statusMsg = "Nothing to filter yet."
		return m, nil
	}
	m.mode = inputFilter
	m.searchInput.Blur()
	cmd := m.filter.input.Focus()
	return m, cmd
}

func (m Model) clearFilter() (Model, tea.Cmd) {
	m.filter.input.SetValue("")
	m.filter.query = ""
	m.applyFilter()
	return m, nil
}

// handleSearchInput handles keys while the search bar is focused.
func (m Model) handleSearchInput(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = inputNone
		m.searchInput.Blur()
		return m, nil
	case "enter":
		term := strings.TrimSpace(m.searchInput.Value())
		if term == "" {
			m.statusMsg = "Please enter a reference."
			return m, nil
		}
		m.mode = inputNone
		m.searchInput.Blur()
		m.statusMsg = ""
		return m.apply(session.Submit{Term: term})
	default:
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}
}

// handleFilterInput handles keys while the card filter is focused. The filter
// is applied live on every keystroke.
func (m Model) handleFilterInput(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		// ESC: empty query closes the filter, otherwise it only clears it
		if strings.TrimSpace(m.filter.input.Value()) == "" {
			m.mode = inputNone
			m.filter.input.Blur()
		} else {
			m.filter.input.SetValue("")
		}
		m.filter.query = strings.TrimSpace(m.filter.input.Value())
		m.applyFilter()
		return m, nil
	case "enter":
		m.mode = inputNone
		m.filter.input.Blur()
		return m, nil
	default:
		var cmd tea.Cmd
		m.filter.input, cmd = m.filter.input.Update(msg)
		if q := strings.TrimSpace(m.filter.input.Value()); q != m.filter.query {
			m.filter.query = q
			m.applyFilter()
		}
		return m, cmd
	}
}
