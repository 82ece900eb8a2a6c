package ui

// ensureCursorInViewport adjusts the viewport Y offset so that the given
// absolute cursorLine is within the visible window with a scroll margin.
func (m *Model) ensureCursorInViewport(cursorLine int) {
	topLine := m.viewport.YOffset
	bottomLine := topLine + m.viewport.Height - 1

	scrollMargin := 3
	if m.viewport.Height < 8 {
		scrollMargin = 1
	}

	if cursorLine < topLine+scrollMargin {
		m.viewport.SetYOffset(max(0, cursorLine-scrollMargin))
		return
	}
	if cursorLine > bottomLine-scrollMargin {
		m.viewport.SetYOffset(max(0, cursorLine-m.viewport.Height+scrollMargin+1))
	}
}

// syncViewport re-renders the result body into the viewport and scrolls it
// to the viewer (after a RevealViewer effect) or to a cursor that moved.
func (m *Model) syncViewport() {
	body, lines := m.renderBody()
	m.viewport.SetContent(body)

	if m.revealViewer {
		m.revealViewer = false
		if lines.viewer >= 0 {
			m.viewport.SetYOffset(lines.viewer)
			m.lastCursorLine = lines.cursor
			return
		}
	}
	if lines.cursor >= 0 && lines.cursor != m.lastCursorLine {
		m.ensureCursorInViewport(lines.cursor)
	}
	m.lastCursorLine = lines.cursor
}
