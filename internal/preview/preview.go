// Package preview draws mockup images as terminal art.
package preview

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// ErrNoWidth is returned when there is no room to draw.
var ErrNoWidth = errors.New("preview: width must be positive")

const halfBlock = "▀"

// Render decodes data and draws it width columns wide. Each text row holds two
// pixel rows: the glyph takes the upper pixel, the cell background the lower.
func Render(data []byte, width int) (string, error) {
	if width <= 0 {
		return "", ErrNoWidth
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("preview: decode: %w", err)
	}
	return draw(img, width), nil
}

// Size reports the cell dimensions Render would produce for an image of w×h
// pixels at the given width.
func Size(w, h, width int) (cols, rows int) {
	if w <= 0 || h <= 0 || width <= 0 {
		return 0, 0
	}
	fit := imaging.Fit(image.NewNRGBA(image.Rect(0, 0, w, h)), width, width*2, imaging.NearestNeighbor)
	b := fit.Bounds()
	return b.Dx(), (b.Dy() + 1) / 2
}

func draw(img image.Image, width int) string {
	fit := imaging.Fit(img, width, width*2, imaging.Lanczos)
	b := fit.Bounds()

	var sb strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		if y > b.Min.Y {
			sb.WriteByte('\n')
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			style := lipgloss.NewStyle()
			if c, ok := cellColor(fit.NRGBAAt(x, y)); ok {
				style = style.Foreground(c)
			}
			if y+1 < b.Max.Y {
				if c, ok := cellColor(fit.NRGBAAt(x, y+1)); ok {
					style = style.Background(c)
				}
			}
			sb.WriteString(style.Render(halfBlock))
		}
	}
	return sb.String()
}

// cellColor maps a pixel to a terminal colour. Mostly transparent pixels get
// none so the terminal background shows through.
func cellColor(c color.NRGBA) (lipgloss.Color, bool) {
	if c.A < 128 {
		return "", false
	}
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)), true
}
