package ui

import (
	"github.com/charmbracelet/glamour"

	"mockup-finder/internal/infra/logx"
)

const helpMarkdown = `# Mockup Finder

Look up a fabric by reference and browse its garment mockups.

## Keys

| Key | Action |
| --- | --- |
| ` + "`/`" + ` | focus the search bar |
| ` + "`enter`" + ` | search, or select the item under the cursor |
| ` + "`esc`" + ` | leave the search bar or filter |
| ` + "`tab`" + ` / ` + "`shift+tab`" + ` | move between fabrics, categories and mockups |
| ` + "`j`" + ` / ` + "`k`" + ` | move the cursor |
| ` + "`1`" + ` ` + "`2`" + ` ` + "`3`" + ` | men, women or kids mockups |
| ` + "`d`" + ` | download the mockup image |
| ` + "`t`" + ` | download the tech-pack |
| ` + "`f`" + ` / ` + "`F`" + ` | filter loaded fabrics / clear the filter |
| ` + "`pgup`" + ` / ` + "`pgdown`" + ` | scroll |
| ` + "`?`" + ` | toggle this help |
| ` + "`q`" + ` | quit |

Downloads are saved to the configured download directory.
`

// renderHelp renders the key reference; it falls back to the raw markdown
// when glamour cannot build a renderer.
func renderHelp(width int) string {
	if width < 20 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		logx.Warnf("help renderer: %v", err)
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		logx.Warnf("help render: %v", err)
		return helpMarkdown
	}
	return out
}
