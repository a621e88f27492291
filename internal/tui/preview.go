package tui

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lehigh-university-libraries/perspectshift/internal/images"
	"github.com/lehigh-university-libraries/perspectshift/internal/models"
)

// renderPreview draws img as half-block cells, two pixel rows per line,
// scaled to fit columns x rows.
func renderPreview(img *models.Image, columns, rows int) string {
	if img == nil || columns <= 0 || rows <= 0 {
		return ""
	}

	thumb, err := images.Thumbnail(img, columns, rows*2)
	if err != nil {
		return fmt.Sprintf("[%s %dx%d]", img.Format, img.Width, img.Height)
	}

	bounds := thumb.Bounds()
	var b strings.Builder
	for y := bounds.Min.Y; y < bounds.Max.Y; y += 2 {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			top := hexColor(thumb, x, y)
			bottom := top
			if y+1 < bounds.Max.Y {
				bottom = hexColor(thumb, x, y+1)
			}
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bottom)).
				Render("▀"))
		}
		if y+2 < bounds.Max.Y {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func hexColor(img image.Image, x, y int) string {
	r, g, b, _ := img.At(x, y).RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
