package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the presentation of the terminal surface. The plain and
// decorated skins share every layout decision and differ only here.
type Theme struct {
	Name string

	Title   lipgloss.Style
	Tagline lipgloss.Style

	DropZone       lipgloss.Style
	DropZoneActive lipgloss.Style

	Pane             lipgloss.Style
	Badge            lipgloss.Style
	Option           lipgloss.Style
	OptionSelected   lipgloss.Style
	Heading          lipgloss.Style
	CommentFrom      lipgloss.Style
	CommentText      lipgloss.Style
	CommentSeparator string
	Help             lipgloss.Style

	// Glyphs prefixed to the badge and heading. Empty in the plain skin.
	CameraGlyph  string
	CommentGlyph string
	UploadGlyph  string
}

// PlainTheme renders without color or borders beyond the drop target outline.
func PlainTheme() Theme {
	return Theme{
		Name:             "plain",
		Title:            lipgloss.NewStyle().Bold(true),
		Tagline:          lipgloss.NewStyle(),
		DropZone:         lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1, 4),
		DropZoneActive:   lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1, 4),
		Pane:             lipgloss.NewStyle().Padding(0, 1),
		Badge:            lipgloss.NewStyle(),
		Option:           lipgloss.NewStyle(),
		OptionSelected:   lipgloss.NewStyle().Bold(true),
		Heading:          lipgloss.NewStyle().Bold(true),
		CommentFrom:      lipgloss.NewStyle(),
		CommentText:      lipgloss.NewStyle(),
		CommentSeparator: "",
		Help:             lipgloss.NewStyle(),
	}
}

// DecoratedTheme adds the accent palette, rounded cards and glyphs.
func DecoratedTheme() Theme {
	accent := lipgloss.Color("33")
	purple := lipgloss.Color("99")
	faint := lipgloss.Color("245")
	border := lipgloss.Color("240")

	return Theme{
		Name:    "decorated",
		Title:   lipgloss.NewStyle().Bold(true).Foreground(purple),
		Tagline: lipgloss.NewStyle().Foreground(faint),
		DropZone: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(1, 6),
		DropZoneActive: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(accent).
			Padding(1, 6),
		Pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		Badge: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("17")).
			Background(lipgloss.Color("153")).
			Padding(0, 1),
		Option:           lipgloss.NewStyle().Foreground(faint),
		OptionSelected:   lipgloss.NewStyle().Bold(true).Foreground(accent),
		Heading:          lipgloss.NewStyle().Bold(true).Foreground(accent),
		CommentFrom:      lipgloss.NewStyle().Foreground(faint),
		CommentText:      lipgloss.NewStyle(),
		CommentSeparator: "┃ ",
		Help:             lipgloss.NewStyle().Foreground(faint),
		CameraGlyph:      "◉ ",
		CommentGlyph:     "✉ ",
		UploadGlyph:      "⇪ ",
	}
}

// ThemeByName resolves a skin name
func ThemeByName(name string) (Theme, error) {
	switch name {
	case "plain":
		return PlainTheme(), nil
	case "decorated":
		return DecoratedTheme(), nil
	default:
		return Theme{}, fmt.Errorf("unknown skin %q", name)
	}
}
