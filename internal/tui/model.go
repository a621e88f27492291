package tui

import (
	"context"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lehigh-university-libraries/perspectshift/internal/images"
	"github.com/lehigh-university-libraries/perspectshift/internal/models"
	"github.com/lehigh-university-libraries/perspectshift/internal/session"
)

type inputMode int

const (
	modeBrowse inputMode = iota
	modePath
	modeCompose
)

const (
	defaultWidth  = 100
	defaultHeight = 30
	headerLines   = 3
	helpLines     = 2
)

// refreshMsg is sent after a controller operation finishes, successful or not.
type refreshMsg struct{}

// Model is the bubbletea program for one client session.
type Model struct {
	ctx        context.Context
	controller *session.Controller
	theme      Theme

	state    models.State
	selected models.Perspective
	mode     inputMode
	pending  int

	input    textinput.Model
	comments viewport.Model
	preview  string

	width  int
	height int

	initialPath string
}

// New creates a terminal session model. When initialPath is non-empty the
// file is uploaded as soon as the program starts.
func New(ctx context.Context, controller *session.Controller, theme Theme, initialPath string) Model {
	input := textinput.New()
	input.CharLimit = 2000

	m := Model{
		ctx:         ctx,
		controller:  controller,
		theme:       theme,
		input:       input,
		width:       defaultWidth,
		height:      defaultHeight,
		initialPath: initialPath,
	}
	m.sync()
	m.selected = m.state.Perspective
	m.layout()
	return m
}

func (m Model) Init() tea.Cmd {
	if m.initialPath == "" {
		return nil
	}
	return m.uploadPath(m.initialPath)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		m.renderComments()
		return m, nil

	case refreshMsg:
		if m.pending > 0 {
			m.pending--
		}
		m.sync()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modePath:
			return m.updatePath(msg)
		case modeCompose:
			return m.updateCompose(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "q" {
		return m, tea.Quit
	}

	if !m.state.HasImage() {
		if key == "u" || key == "enter" {
			m.mode = modePath
			m.input.Reset()
			m.input.Placeholder = "path/to/image.png"
			m.input.Prompt = "Image: "
			cmd := m.input.Focus()
			return m, cmd
		}
		return m, nil
	}

	switch key {
	case "1", "2", "3":
		return m.selectPerspective(models.Perspectives[int(key[0]-'1')])
	case "tab", "right", "l":
		return m.selectPerspective(m.stepPerspective(1))
	case "shift+tab", "left", "h":
		return m.selectPerspective(m.stepPerspective(-1))
	case "c", "i":
		m.mode = modeCompose
		m.input.Reset()
		m.input.SetValue(m.state.Draft)
		m.input.Placeholder = "Share your perspective..."
		m.input.Prompt = "> "
		cmd := m.input.Focus()
		return m, cmd
	case "up", "k":
		m.comments.SetYOffset(m.comments.YOffset - 1)
	case "down", "j":
		m.comments.SetYOffset(m.comments.YOffset + 1)
	case "pgup":
		m.comments.HalfViewUp()
	case "pgdown":
		m.comments.HalfViewDown()
	}
	return m, nil
}

func (m Model) updatePath(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		path := strings.TrimSpace(m.input.Value())
		m.mode = modeBrowse
		m.input.Blur()
		m.input.Reset()
		if path == "" {
			return m, nil
		}
		cmd := m.uploadPath(path)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateCompose(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		m.controller.SetDraft(m.input.Value())
		m.input.Reset()
		m.state.Draft = ""
		cmd := m.run(m.controller.SubmitComment)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.controller.SetDraft(m.input.Value())
	m.state.Draft = m.input.Value()
	return m, cmd
}

// selectPerspective moves the selector and reloads immediately. Picking the
// perspective already on screen does nothing.
func (m Model) selectPerspective(p models.Perspective) (tea.Model, tea.Cmd) {
	if p == m.selected && m.pending == 0 {
		return m, nil
	}
	m.selected = p
	controller := m.controller
	cmd := m.run(func(ctx context.Context) error {
		return controller.LoadPerspective(ctx, p)
	})
	return m, cmd
}

func (m Model) stepPerspective(delta int) models.Perspective {
	n := len(models.Perspectives)
	for i, p := range models.Perspectives {
		if p == m.selected {
			return models.Perspectives[((i+delta)%n+n)%n]
		}
	}
	return models.DefaultPerspective
}

func (m *Model) uploadPath(path string) tea.Cmd {
	controller := m.controller
	return m.run(func(ctx context.Context) error {
		file, err := images.ReadFile(path)
		if err != nil {
			slog.Error("Failed to read image", "path", path, "error", err)
			return err
		}
		return controller.Upload(ctx, []images.File{file})
	})
}

// run executes op off the update loop. Failures are already logged by the
// controller and are not shown.
func (m *Model) run(op func(context.Context) error) tea.Cmd {
	m.pending++
	ctx := m.ctx
	return func() tea.Msg {
		_ = op(ctx)
		return refreshMsg{}
	}
}

// sync pulls the controller state into the model and re-renders derived content.
func (m *Model) sync() {
	previous := m.state.Current
	draft := m.state.Draft
	m.state = m.controller.State()
	if m.mode == modeCompose {
		m.state.Draft = draft
	}
	if m.state.Current != previous {
		m.renderPreviewImage()
	}
	if m.state.HasImage() && m.pending == 0 {
		m.selected = m.state.Perspective
	}
	m.renderComments()
}

func (m *Model) layout() {
	_, right := m.paneWidths()
	m.input.Width = right - 6
	m.comments.Width = right - 4
	m.comments.Height = max(m.bodyHeight()-8, 3)
	m.renderPreviewImage()
}

func (m *Model) paneWidths() (int, int) {
	left := m.width * 2 / 3
	return left, m.width - left
}

func (m *Model) bodyHeight() int {
	return max(m.height-headerLines-helpLines, 6)
}

func (m *Model) renderPreviewImage() {
	left, _ := m.paneWidths()
	m.preview = renderPreview(m.state.Current, left-4, m.bodyHeight()-6)
}

func (m *Model) renderComments() {
	var b strings.Builder
	for i, c := range m.state.Comments {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.theme.CommentSeparator + m.theme.CommentFrom.Render("From "+c.PerspectiveLabel()+":") + "\n")
		b.WriteString(m.theme.CommentSeparator + m.theme.CommentText.Render(c.Text) + "\n")
	}
	m.comments.SetContent(strings.TrimRight(b.String(), "\n"))
}

func (m Model) View() string {
	header := lipgloss.JoinVertical(lipgloss.Center,
		m.theme.Title.Render("PerspectShift"),
		m.theme.Tagline.Render("Explore images from different perspectives"),
	)
	header = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, header)

	var body string
	if !m.state.HasImage() {
		body = m.viewDropZone()
	} else {
		body = m.viewPanes()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, m.viewHelp())
}

func (m Model) viewDropZone() string {
	style := m.theme.DropZone
	lines := []string{m.theme.UploadGlyph + "Drag and drop an image here", "or press u to select one"}
	if m.mode == modePath {
		style = m.theme.DropZoneActive
		lines = []string{m.theme.UploadGlyph + "Drop your image here", m.input.View()}
	}
	zone := style.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, zone)
}

func (m Model) viewPanes() string {
	left, right := m.paneWidths()

	badge := m.theme.Badge.Render(m.theme.CameraGlyph + m.state.Perspective.Label())
	var options []string
	for i, p := range models.Perspectives {
		label := string(rune('1'+i)) + " " + p.OptionLabel()
		if p == m.selected {
			options = append(options, m.theme.OptionSelected.Render("["+label+"]"))
		} else {
			options = append(options, m.theme.Option.Render(" "+label+" "))
		}
	}
	imagePane := m.theme.Pane.Width(left - 2).Render(lipgloss.JoinVertical(lipgloss.Left,
		badge,
		m.preview,
		"",
		strings.Join(options, "  "),
	))

	composer := m.theme.Help.Render("press c to comment")
	if m.mode == modeCompose {
		composer = m.input.View()
	}
	commentPane := m.theme.Pane.Width(right - 2).Render(lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Heading.Render(m.theme.CommentGlyph+"Perspectives & Comments"),
		"",
		m.comments.View(),
		"",
		composer,
	))

	return lipgloss.JoinHorizontal(lipgloss.Top, imagePane, commentPane)
}

func (m Model) viewHelp() string {
	var help string
	switch {
	case m.mode == modePath:
		help = "enter upload • esc cancel"
	case m.mode == modeCompose:
		help = "enter add • esc cancel"
	case !m.state.HasImage():
		help = "u select image • q quit"
	default:
		help = "1/2/3 or tab perspective • c comment • ↑/↓ scroll • q quit"
	}
	if m.pending > 0 {
		help = "working… " + help
	}
	return m.theme.Help.Render(help)
}

// Run starts the interactive program on the terminal.
func Run(ctx context.Context, controller *session.Controller, theme Theme, initialPath string) error {
	program := tea.NewProgram(New(ctx, controller, theme, initialPath), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}
