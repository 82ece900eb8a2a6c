package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"mockup-finder/internal/config"
	"mockup-finder/internal/core/session"
	"mockup-finder/internal/fabric"
)

// bodyLines records where interesting lines ended up in the rendered body;
// -1 means absent.
type bodyLines struct {
	cursor int
	viewer int
}

// chromeHeight is the number of lines outside the viewport: the header, the
// blank line below it and the footer.
func (m Model) chromeHeight() int {
	return lipgloss.Height(m.renderHeader()) + 1 + lipgloss.Height(m.renderFooterBlock())
}

func (m Model) View() string {
	if m.showHelp {
		var b strings.Builder
		b.WriteString(m.renderTitleBar())
		b.WriteString("\n")
		b.WriteString(m.helpText)
		b.WriteString("\n")
		b.WriteString(renderFooter("", "? / esc close help"))
		return b.String()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.renderFooterBlock())
	return b.String()
}

func (m Model) renderTitleBar() string {
	return titleStyle.Render("Mockup Finder") + "  " + subtitleStyle.Render(m.modeLabel()) + "\n" + m.divider()
}

func (m Model) divider() string {
	return dividerStyle.Render(strings.Repeat("─", max(10, m.width-2)))
}

// renderHeader draws everything above the viewport.
func (m Model) renderHeader() string {
	lines := []string{m.renderTitleBar(), m.searchInput.View()}
	if m.mode == inputFilter || m.filter.query != "" {
		line := m.filter.input.View()
		if m.filter.query != "" {
			line += subtleStyle.Render(fmt.Sprintf("  (%d of %d)", len(m.visibleCards()), len(m.sess.Records)))
		}
		lines = append(lines, line)
	}
	lines = append(lines, m.renderStatusLine(session.Render(m.sess)))
	return strings.Join(lines, "\n")
}

func (m Model) renderFooterBlock() string {
	return m.divider() + "\n" + renderFooter(m.footerStatus(), m.footerHelp())
}

func (m Model) modeLabel() string {
	if m.cfg.Mode == config.ModeLookup {
		return "exact lookup · " + m.cfg.BaseURL
	}
	return "search · " + m.cfg.BaseURL
}

// renderStatusLine shows the loading header, the result header or a notice.
func (m Model) renderStatusLine(v session.View) string {
	if v.Loading {
		return m.spinner.View() + " " + v.Header
	}
	switch v.Notice.Kind {
	case session.NoticeError:
		return errorStyle.Render("✗ " + v.Notice.Text)
	case session.NoticeEmpty:
		return warnStyle.Render(v.Notice.Text)
	case session.NoticeInfo:
		return okStyle.Render(v.Notice.Text)
	}
	return listHeaderStyle.Render(v.Header)
}

// renderBody draws the scrollable part: cards, categories, mockups, viewer.
func (m Model) renderBody() (string, bodyLines) {
	lines := bodyLines{cursor: -1, viewer: -1}
	v := session.Render(m.sess)
	if v.Loading || len(v.Cards) == 0 {
		return "", lines
	}

	var b strings.Builder
	lineNo := func() int { return strings.Count(b.String(), "\n") }
	browsing := m.mode == inputNone

	// fabrics
	vis := m.visibleCards()
	if len(vis) == 0 {
		b.WriteString(warnStyle.Render("No loaded fabric matches the filter.") + "\n")
	}
	for pos, ri := range vis {
		card := v.Cards[ri]
		focused := browsing && m.cursor.focus == focusCards && m.cursor.card == pos
		if focused {
			lines.cursor = lineNo()
		}
		b.WriteString(cursorBar(focused) + renderCard(card) + "\n")
		if card.SwatchURL != "" {
			b.WriteString(m.renderSwatch(card) + "\n")
		}
	}

	// categories
	if v.Categories.Visible {
		b.WriteString("\n")
		if v.Categories.Message != "" {
			b.WriteString(warnStyle.Render(v.Categories.Message) + "\n")
		} else {
			b.WriteString(listHeaderStyle.Render(v.Categories.Prompt) + "\n")
			if browsing && m.cursor.focus == focusCategories {
				lines.cursor = lineNo()
			}
			b.WriteString(m.renderCategoryButtons(v.Categories.Buttons, browsing) + "\n")
		}
	}

	// mockups
	if v.Mockups.Visible {
		b.WriteString("\n" + listHeaderStyle.Render(v.Mockups.Title) + "\n")
		if v.Mockups.Empty != "" {
			b.WriteString(warnStyle.Render(v.Mockups.Empty) + "\n")
		}
		for i, it := range v.Mockups.Items {
			focused := browsing && m.cursor.focus == focusMockups && m.cursor.mockup == i
			if focused {
				lines.cursor = lineNo()
			}
			b.WriteString(cursorBar(focused) + renderMockupItem(it) + "\n")
		}
	}

	// viewer
	if v.Viewer.Visible {
		b.WriteString("\n")
		lines.viewer = lineNo()
		b.WriteString(m.renderViewer(v.Viewer, v.Download) + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n"), lines
}

func renderCard(c session.Card) string {
	text := c.Ref
	if c.Style != "" {
		text += "  " + c.Style
	}
	if c.ExcelFound != nil {
		if *c.ExcelFound {
			text += "  " + markNestedStyle.Render("excel ✓")
		} else {
			text += "  " + subtleStyle.Render("excel –")
		}
	}
	if c.Selected {
		return itemSelectedStyle.Render(text)
	}
	return itemStyle.Render(text)
}

func (m Model) renderCategoryButtons(buttons []session.CategoryButton, browsing bool) string {
	cells := make([]string, 0, len(buttons))
	for i, btn := range buttons {
		label := fmt.Sprintf("%d %s (%d)", categoryKey(btn.Category), btn.Label, btn.Count)
		if browsing && m.cursor.focus == focusCategories && m.cursor.category == i {
			label = focusStyle.Render("› " + label)
		}
		style := buttonStyle
		if btn.Active {
			style = buttonActiveStyle
		}
		cells = append(cells, style.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

// categoryKey is the number key bound to c.
func categoryKey(c fabric.Category) int {
	for i, fc := range fabric.Categories {
		if fc == c {
			return i + 1
		}
	}
	return 0
}

func renderMockupItem(it session.MockupButton) string {
	text := it.Label
	if it.HasTechpack {
		text += "  " + markNestedStyle.Render("[tech-pack]")
	}
	if it.Active {
		return itemSelectedStyle.Render(text)
	}
	return itemStyle.Render(text)
}

func (m Model) renderViewer(vr session.ViewerRegion, dl session.Notice) string {
	var b strings.Builder
	b.WriteString(focusStyle.Render(vr.Title) + "\n\n")
	b.WriteString(m.renderArt(vr.ImageURL) + "\n\n")

	b.WriteString(okStyle.Render("[d]") + " Download image     " + subtleStyle.Render(vr.Image.Filename) + "\n")
	if vr.Techpack != nil {
		b.WriteString(okStyle.Render("[t]") + " Download tech-pack " + subtleStyle.Render(vr.Techpack.Filename) + "\n")
	}
	switch dl.Kind {
	case session.NoticeError:
		b.WriteString("\n" + errorStyle.Render(dl.Text))
	case session.NoticeInfo:
		b.WriteString("\n" + okStyle.Render(dl.Text))
	}
	return viewerBoxStyle.Render(strings.TrimSuffix(b.String(), "\n"))
}

// renderSwatch draws the swatch art under the selected card once it has
// loaded; other cards and failed loads show the URL.
func (m Model) renderSwatch(c session.Card) string {
	if p, ok := m.previews[c.SwatchURL]; c.Selected && ok && p.err == nil && p.art != "" {
		return lipgloss.NewStyle().PaddingLeft(4).Render(p.art)
	}
	return "    " + subtleStyle.Render("swatch "+c.SwatchURL)
}

func (m Model) renderArt(url string) string {
	if !m.cfg.Preview {
		return subtleStyle.Render("image " + url)
	}
	p, ok := m.previews[url]
	switch {
	case !ok:
		return subtleStyle.Render("loading preview of " + url + "…")
	case p.err != nil:
		return warnStyle.Render("preview unavailable") + "\n" + subtleStyle.Render("image "+url)
	}
	return p.art
}

func (m Model) footerStatus() string {
	parts := make([]string, 0, 2)
	if m.statusMsg != "" {
		parts = append(parts, m.statusMsg)
	}
	if m.client != nil {
		s := m.client.MetricsSnapshot()
		if s.TotalRequests > 0 {
			parts = append(parts, fmt.Sprintf("req %d · err %d · %s · avg %s",
				s.TotalRequests, s.Errors(), formatBytes(s.BytesRead), s.AvgLatency.Round(time.Millisecond)))
		}
	}
	return strings.Join(parts, "  |  ")
}

func (m Model) footerHelp() string {
	switch m.mode {
	case inputSearch:
		return "enter search  |  esc browse  |  ctrl+c quit"
	case inputFilter:
		return "type to filter  |  enter keep  |  esc clear/close"
	}
	if _, ok := m.sess.SelectedMockup(); ok {
		return "j/k move  |  tab zone  |  d image  |  t tech-pack  |  / search  |  ? help  |  q quit"
	}
	return "j/k move  |  enter select  |  tab zone  |  1/2/3 category  |  f filter  |  / search  |  ? help  |  q quit"
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
