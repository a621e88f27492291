package tui

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lehigh-university-libraries/perspectshift/internal/models"
	"github.com/lehigh-university-libraries/perspectshift/internal/session"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: uint8(x * 20), B: uint8(y * 20), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

// fakeAPI records calls and keeps comments in memory.
type fakeAPI struct {
	t *testing.T

	mu           sync.Mutex
	uploads      []string
	imageCalls   map[models.Perspective]int
	commentCalls int
	comments     []models.Comment
}

func newFakeAPI(t *testing.T) *fakeAPI {
	return &fakeAPI{t: t, imageCalls: map[models.Perspective]int{}, comments: []models.Comment{}}
}

func (f *fakeAPI) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, filename)
	return "img-7", nil
}

func (f *fakeAPI) Image(ctx context.Context, imageID string, p models.Perspective) (string, error) {
	f.mu.Lock()
	f.imageCalls[p]++
	f.mu.Unlock()
	return base64.StdEncoding.EncodeToString(testPNG(f.t, 8, 8)), nil
}

func (f *fakeAPI) Comments(ctx context.Context, imageID string) ([]models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commentCalls++
	return append([]models.Comment{}, f.comments...), nil
}

func (f *fakeAPI) AddComment(ctx context.Context, imageID string, comment models.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.comments = append(f.comments, comment)
	return nil
}

func (f *fakeAPI) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.imageCalls = map[models.Perspective]int{}
	f.commentCalls = 0
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model, cmd
}

// runOperation executes a controller command and feeds its result back.
func runOperation(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected an operation command, got nil")
	}
	msg := cmd()
	if _, ok := msg.(refreshMsg); !ok {
		t.Fatalf("expected refreshMsg, got %T", msg)
	}
	m, _ = update(t, m, msg)
	return m
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m, _ = update(t, m, keyRunes(string(r)))
	}
	return m
}

func writeImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.png")
	if err := os.WriteFile(path, testPNG(t, 16, 16), 0644); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}
	return path
}

func loadedModel(t *testing.T, theme Theme) (Model, *fakeAPI) {
	t.Helper()
	api := newFakeAPI(t)
	m := New(context.Background(), session.NewController(api), theme, writeImage(t))
	m = runOperation(t, m, m.Init())
	api.reset()
	return m, api
}

func TestEmptyView(t *testing.T) {
	m := New(context.Background(), session.NewController(newFakeAPI(t)), PlainTheme(), "")

	if m.Init() != nil {
		t.Error("Init without a path should not start an upload")
	}
	view := m.View()
	if !strings.Contains(view, "Drag and drop an image here") {
		t.Errorf("Expected drop zone, got:\n%s", view)
	}
	if strings.Contains(view, "Perspectives & Comments") {
		t.Error("Empty state should not render the comment pane")
	}
}

func TestUploadViaPrompt(t *testing.T) {
	api := newFakeAPI(t)
	m := New(context.Background(), session.NewController(api), PlainTheme(), "")

	m, _ = update(t, m, keyRunes("u"))
	if m.mode != modePath {
		t.Fatalf("Expected path mode, got %v", m.mode)
	}
	m = typeText(t, m, writeImage(t))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = runOperation(t, m, cmd)

	if !m.state.HasImage() {
		t.Fatal("Expected image after upload")
	}
	if len(api.uploads) != 1 || api.uploads[0] != "scene.png" {
		t.Errorf("Expected one upload of scene.png, got %v", api.uploads)
	}
	if api.imageCalls[models.PerspectiveOriginal] != 1 {
		t.Errorf("Expected one original load, got %d", api.imageCalls[models.PerspectiveOriginal])
	}

	view := m.View()
	if strings.Contains(view, "Drag and drop an image here") {
		t.Error("Loaded state should not render the drop zone")
	}
	if !strings.Contains(view, "Original View") {
		t.Errorf("Expected perspective badge, got:\n%s", view)
	}
}

func TestUploadMissingFileStaysEmpty(t *testing.T) {
	api := newFakeAPI(t)
	m := New(context.Background(), session.NewController(api), PlainTheme(), filepath.Join(t.TempDir(), "missing.png"))

	m = runOperation(t, m, m.Init())

	if m.state.HasImage() {
		t.Error("Session should stay empty")
	}
	if len(api.uploads) != 0 {
		t.Errorf("Expected no uploads, got %v", api.uploads)
	}
	if !strings.Contains(m.View(), "Drag and drop an image here") {
		t.Error("Drop zone should still render")
	}
}

func TestSelectPerspective(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
		want models.Perspective
	}{
		{name: "number key", key: keyRunes("2"), want: models.PerspectiveBirdsEye},
		{name: "third option", key: keyRunes("3"), want: models.PerspectiveWormsEye},
		{name: "tab cycles forward", key: tea.KeyMsg{Type: tea.KeyTab}, want: models.PerspectiveBirdsEye},
		{name: "shift tab cycles back", key: tea.KeyMsg{Type: tea.KeyShiftTab}, want: models.PerspectiveWormsEye},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, api := loadedModel(t, PlainTheme())

			m, cmd := update(t, m, tt.key)
			if m.selected != tt.want {
				t.Errorf("Selector should move immediately to %s, got %s", tt.want, m.selected)
			}
			m = runOperation(t, m, cmd)

			if m.state.Perspective != tt.want {
				t.Errorf("Expected perspective %s, got %s", tt.want, m.state.Perspective)
			}
			if api.imageCalls[tt.want] != 1 {
				t.Errorf("Expected exactly one image fetch, got %d", api.imageCalls[tt.want])
			}
			if api.commentCalls != 1 {
				t.Errorf("Expected exactly one comment fetch, got %d", api.commentCalls)
			}
			if !strings.Contains(m.View(), tt.want.Label()) {
				t.Errorf("Expected badge %q in view", tt.want.Label())
			}
		})
	}
}

func TestSelectCurrentPerspectiveIsNoop(t *testing.T) {
	m, api := loadedModel(t, PlainTheme())

	m, cmd := update(t, m, keyRunes("1"))
	if cmd != nil {
		t.Error("Selecting the shown perspective should not start a load")
	}
	if m.selected != models.PerspectiveOriginal || m.pending != 0 {
		t.Errorf("Expected unchanged selector, got %s with %d pending", m.selected, m.pending)
	}
	if len(api.imageCalls) != 0 || api.commentCalls != 0 {
		t.Errorf("Expected no backend calls, got %v images and %d comment fetches", api.imageCalls, api.commentCalls)
	}
}

func TestComposeAndSubmit(t *testing.T) {
	m, api := loadedModel(t, PlainTheme())

	m, cmd := update(t, m, keyRunes("3"))
	m = runOperation(t, m, cmd)
	api.reset()

	m, _ = update(t, m, keyRunes("c"))
	if m.mode != modeCompose {
		t.Fatalf("Expected compose mode, got %v", m.mode)
	}
	m = typeText(t, m, "low angle")
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = runOperation(t, m, cmd)

	if len(api.comments) != 1 {
		t.Fatalf("Expected one stored comment, got %d", len(api.comments))
	}
	got := api.comments[0]
	if got.Text != "low angle" || got.Perspective != "worms_eye" || got.ImageID != "img-7" {
		t.Errorf("Unexpected comment %+v", got)
	}
	if api.commentCalls != 1 {
		t.Errorf("Expected a single refresh, got %d", api.commentCalls)
	}
	if m.input.Value() != "" {
		t.Errorf("Composer should be cleared, got %q", m.input.Value())
	}
	view := m.View()
	if !strings.Contains(view, "From Worms Eye View:") || !strings.Contains(view, "low angle") {
		t.Errorf("Expected new comment in view, got:\n%s", view)
	}
}

func TestSubmitEmptyComment(t *testing.T) {
	m, api := loadedModel(t, PlainTheme())

	m, _ = update(t, m, keyRunes("c"))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	runOperation(t, m, cmd)

	if len(api.comments) != 0 {
		t.Errorf("Expected no comment, got %v", api.comments)
	}
	if api.commentCalls != 0 {
		t.Errorf("Expected no network calls, got %d comment fetches", api.commentCalls)
	}
}

func TestQuit(t *testing.T) {
	m := New(context.Background(), session.NewController(newFakeAPI(t)), PlainTheme(), "")

	_, cmd := update(t, m, keyRunes("q"))
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}
}

func TestThemes(t *testing.T) {
	decorated, _ := loadedModel(t, DecoratedTheme())
	if !strings.Contains(decorated.View(), "◉ ") {
		t.Error("Decorated theme should render the camera glyph")
	}

	plain, _ := loadedModel(t, PlainTheme())
	if strings.Contains(plain.View(), "◉ ") {
		t.Error("Plain theme should not render glyphs")
	}

	if _, err := ThemeByName("neon"); err == nil {
		t.Error("Expected error for unknown theme")
	}
	for _, name := range []string{"plain", "decorated"} {
		theme, err := ThemeByName(name)
		if err != nil || theme.Name != name {
			t.Errorf("ThemeByName(%q) = %v, %v", name, theme.Name, err)
		}
	}
}

func TestRenderPreview(t *testing.T) {
	img := &models.Image{Data: testPNG(t, 8, 8), Format: "png", MIMEType: "image/png", Width: 8, Height: 8}

	out := renderPreview(img, 8, 4)
	if lines := strings.Count(out, "\n") + 1; lines != 4 {
		t.Errorf("Expected 4 preview lines, got %d", lines)
	}
	if strings.Count(out, "▀") != 32 {
		t.Errorf("Expected 32 half-block cells, got %d", strings.Count(out, "▀"))
	}
	if renderPreview(nil, 8, 4) != "" {
		t.Error("Expected empty preview without an image")
	}
}
