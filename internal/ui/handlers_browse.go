package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"mockup-finder/internal/core/session"
	"mockup-finder/internal/fabric"
)

// visibleCards maps visible card positions to record indices.
func (m Model) visibleCards() []int {
	if m.filter.filteredIdx != nil {
		return m.filter.filteredIdx
	}
	idx := make([]int, len(m.sess.Records))
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// availableCategories lists the category buttons of the active fabric.
func (m Model) availableCategories() []fabric.Category {
	rec, ok := m.sess.ActiveRecord()
	if !ok {
		return nil
	}
	return rec.Mockups.Available()
}

// zoneLen returns the number of cursor positions in z.
func (m Model) zoneLen(z focusZone) int {
	switch z {
	case focusCards:
		return len(m.visibleCards())
	case focusCategories:
		return len(m.availableCategories())
	case focusMockups:
		return len(m.sess.CategoryItems())
	}
	return 0
}

func (m Model) nextZone() (Model, tea.Cmd) { return m.cycleZone(1), nil }
func (m Model) prevZone() (Model, tea.Cmd) { return m.cycleZone(-1), nil }

// cycleZone moves focus to the next zone that has something to select.
func (m Model) cycleZone(step int) Model {
	const zones = 3
	z := m.cursor.focus
	for i := 0; i < zones; i++ {
		z = focusZone((int(z) + step + zones) % zones)
		if m.zoneLen(z) > 0 {
			m.cursor.focus = z
			return m
		}
	}
	return m
}

func (m Model) cursorDown() (Model, tea.Cmd) { return m.moveCursor(1), nil }
func (m Model) cursorUp() (Model, tea.Cmd)   { return m.moveCursor(-1), nil }

func (m Model) moveCursor(delta int) Model {
	n := m.zoneLen(m.cursor.focus)
	if n == 0 {
		return m
	}
	p := m.cursorPtr()
	*p += delta
	if *p < 0 {
		*p = 0
	}
	if *p >= n {
		*p = n - 1
	}
	return m
}

func (m *Model) cursorPtr() *int {
	switch m.cursor.focus {
	case focusCategories:
		return &m.cursor.category
	case focusMockups:
		return &m.cursor.mockup
	}
	return &m.cursor.card
}

// activate selects whatever the cursor is on in the focused zone.
func (m Model) activate() (Model, tea.Cmd) {
	switch m.cursor.focus {
	case focusCards:
		return m.selectCard(m.cursor.card)
	case focusCategories:
		cats := m.availableCategories()
		if m.cursor.category < len(cats) {
			return m.selectCategory(cats[m.cursor.category])
		}
	case focusMockups:
		return m.selectMockup(m.cursor.mockup)
	}
	return m, nil
}

func (m Model) selectCard(pos int) (Model, tea.Cmd) {
	vis := m.visibleCards()
	if pos < 0 || pos >= len(vis) || vis[pos] >= len(m.sess.Records) {
		return m, nil
	}
	rec := m.sess.Records[vis[pos]]
	m, cmd := m.apply(session.SelectFabric{Ref: rec.Ref})
	m.cursor.card = pos
	m.cursor.category = 0
	m.cursor.mockup = 0
	if len(m.availableCategories()) > 0 {
		m.cursor.focus = focusCategories
	}
	return m, tea.Batch(cmd, m.previewCmd(rec.SwatchURL, swatchWidth))
}

func (m Model) selectCategory(c fabric.Category) (Model, tea.Cmd) {
	m, cmd := m.apply(session.SelectCategory{Category: c})
	for i, ac := range m.availableCategories() {
		if ac == c {
			m.cursor.category = i
		}
	}
	m.cursor.mockup = max(0, m.sess.MockupIndex)
	if len(m.sess.CategoryItems()) > 0 {
		m.cursor.focus = focusMockups
	}
	return m, cmd
}

func (m Model) selectMockup(i int) (Model, tea.Cmd) {
	m, cmd := m.apply(session.SelectMockup{Index: i})
	m.cursor.mockup = i
	return m, cmd
}
