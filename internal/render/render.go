package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/lehigh-university-libraries/perspectshift/internal/images"
	"github.com/lehigh-university-libraries/perspectshift/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer turns a view into markup
type Renderer interface {
	Render(w io.Writer, v View) error
}

// Option is one entry of the perspective selector
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// View is everything a skin needs to draw one frame of the session
type View struct {
	Title   string
	Tagline string

	State models.State

	// Form targets on the serving surface.
	UploadAction      string
	PerspectiveAction string
	CommentAction     string

	Accept       string
	Perspectives []Option
	ImageSrc     template.URL
	Badge        string
}

// NewView derives the view for a session state
func NewView(s models.State) View {
	v := View{
		Title:             "PerspectShift",
		Tagline:           "Explore images from different perspectives",
		State:             s,
		UploadAction:      "/upload",
		PerspectiveAction: "/perspective",
		CommentAction:     "/comment",
		Accept:            strings.Join(images.AcceptedExtensions, ","),
		Badge:             s.Perspective.Label(),
	}
	for _, p := range models.Perspectives {
		v.Perspectives = append(v.Perspectives, Option{
			Value:    string(p),
			Label:    p.OptionLabel(),
			Selected: p == s.Perspective,
		})
	}
	if s.Current != nil {
		// DataURI output is built from decoded bytes and a fixed MIME prefix.
		v.ImageSrc = template.URL(s.Current.DataURI())
	}
	return v
}

type templateRenderer struct {
	tmpl *template.Template
}

// New returns the renderer for a skin: "plain" or "decorated"
func New(skin string) (Renderer, error) {
	switch skin {
	case "plain", "decorated":
	default:
		return nil, fmt.Errorf("unknown skin %q", skin)
	}

	tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+skin+".html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s templates: %w", skin, err)
	}
	return &templateRenderer{tmpl: tmpl}, nil
}

func (r *templateRenderer) Render(w io.Writer, v View) error {
	if err := r.tmpl.ExecuteTemplate(w, "layout", v); err != nil {
		return fmt.Errorf("failed to render view: %w", err)
	}
	return nil
}
