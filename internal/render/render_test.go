package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/perspectshift/internal/models"
)

func loadedState() models.State {
	return models.State{
		ImageID:     "img-123",
		Perspective: models.PerspectiveBirdsEye,
		Current: &models.Image{
			Data:     []byte{0x89, 'P', 'N', 'G'},
			Format:   "png",
			MIMEType: "image/png",
			Width:    1,
			Height:   1,
		},
		Comments: []models.Comment{
			{ID: "c1", ImageID: "img-123", Text: "Looks steep", Perspective: "worms_eye"},
			{ID: "c2", ImageID: "img-123", Text: "<script>alert(1)</script>", Perspective: "original"},
		},
	}
}

func renderString(t *testing.T, skin string, s models.State) string {
	t.Helper()
	r, err := New(skin)
	if err != nil {
		t.Fatalf("New(%q) failed: %v", skin, err)
	}
	var buf bytes.Buffer
	if err := r.Render(&buf, NewView(s)); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return buf.String()
}

func TestNewView(t *testing.T) {
	v := NewView(loadedState())

	if v.Badge != "Birds Eye View" {
		t.Errorf("Expected badge 'Birds Eye View', got %q", v.Badge)
	}
	if v.Accept != ".png,.jpg,.jpeg" {
		t.Errorf("Unexpected accept filter %q", v.Accept)
	}
	if len(v.Perspectives) != 3 {
		t.Fatalf("Expected 3 selector options, got %d", len(v.Perspectives))
	}
	for _, opt := range v.Perspectives {
		if opt.Selected != (opt.Value == "birds_eye") {
			t.Errorf("Option %s selected=%v", opt.Value, opt.Selected)
		}
	}
	if !strings.HasPrefix(string(v.ImageSrc), "data:image/png;base64,") {
		t.Errorf("Unexpected image src %q", v.ImageSrc)
	}

	empty := NewView(models.State{Perspective: models.PerspectiveOriginal})
	if empty.ImageSrc != "" {
		t.Errorf("Expected no image src for empty state, got %q", empty.ImageSrc)
	}
}

func TestRenderEmptyState(t *testing.T) {
	for _, skin := range []string{"plain", "decorated"} {
		t.Run(skin, func(t *testing.T) {
			out := renderString(t, skin, models.State{Perspective: models.PerspectiveOriginal})

			for _, want := range []string{
				"PerspectShift",
				"Drag and drop an image here",
				`name="file"`,
				`accept=".png,.jpg,.jpeg"`,
				`enctype="multipart/form-data"`,
			} {
				if !strings.Contains(out, want) {
					t.Errorf("Expected output to contain %q", want)
				}
			}
			for _, unwanted := range []string{`class="comment-list"`, `name="perspective"`, "Share your perspective"} {
				if strings.Contains(out, unwanted) {
					t.Errorf("Empty state should not contain %q", unwanted)
				}
			}
		})
	}
}

func TestRenderLoadedState(t *testing.T) {
	for _, skin := range []string{"plain", "decorated"} {
		t.Run(skin, func(t *testing.T) {
			out := renderString(t, skin, loadedState())

			for _, want := range []string{
				`src="data:image/png;base64,`,
				"Birds Eye View",
				`<option value="birds_eye" selected>`,
				"Bird&#39;s Eye View",
				"Worm&#39;s Eye View",
				"From Worms Eye View:",
				"From Original View:",
				"Looks steep",
				"&lt;script&gt;alert(1)&lt;/script&gt;",
				`placeholder="Share your perspective..."`,
				`action="/comment"`,
			} {
				if !strings.Contains(out, want) {
					t.Errorf("Expected output to contain %q", want)
				}
			}
			if strings.Contains(out, "Drag and drop an image here") {
				t.Error("Loaded state should not render the drop zone")
			}
			if strings.Contains(out, "<script>alert(1)</script>") {
				t.Error("Comment text must be escaped")
			}
		})
	}
}

func TestSkinsDifferOnlyInPresentation(t *testing.T) {
	plain := renderString(t, "plain", loadedState())
	decorated := renderString(t, "decorated", loadedState())

	if strings.Contains(plain, "linear-gradient") || strings.Contains(plain, "<svg") {
		t.Error("Plain skin should not carry decorative styling")
	}
	if !strings.Contains(decorated, "linear-gradient") || !strings.Contains(decorated, "@keyframes") {
		t.Error("Decorated skin should carry gradient and animation styling")
	}
	if !strings.Contains(decorated, "<svg") {
		t.Error("Decorated skin should render icons")
	}
}

func TestNewUnknownSkin(t *testing.T) {
	if _, err := New("neon"); err == nil {
		t.Error("Expected error for unknown skin")
	}
}
