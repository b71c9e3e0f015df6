package app

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	qz "github.com/abhisek/quiztutor/internal/quiz"
	"github.com/abhisek/quiztutor/internal/router"
	"github.com/abhisek/quiztutor/internal/screen"
	"github.com/abhisek/quiztutor/internal/screens/quiz"
	"github.com/abhisek/quiztutor/internal/tutor"
	"github.com/abhisek/quiztutor/internal/ui/layout"
)

// Options holds the dependencies of the TUI.
type Options struct {
	Source qz.Source
	Tutor  tutor.Tutor
	Log    zerolog.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// newAppModel creates a new AppModel with the quiz screen.
func newAppModel(opts Options) AppModel {
	return AppModel{
		router: router.New(quiz.New(quiz.Options{
			Source: opts.Source,
			Tutor:  opts.Tutor,
			Log:    opts.Log,
		})),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}

	case tea.MouseClickMsg:
		mouse := msg.Mouse()
		if mouse.Button != tea.MouseLeft {
			return m, nil
		}
		return m, m.router.Update(screen.ClickMsg{
			X: mouse.X,
			Y: mouse.Y - m.headerHeight(),
		})
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) headerHeight() int {
	return lipgloss.Height(layout.RenderHeader("", "", m.width))
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion

	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.frame())
	return v
}

// frame renders header, active screen and footer for the current size.
func (m AppModel) frame() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title, status := "", ""
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}
	header := layout.RenderHeader(title, status, m.width)

	var footerHints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = append(footerHints, kp.KeyHints()...)
	}
	footerHints = append(footerHints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and blocks until the user quits.
func Run(opts Options) error {
	_, err := tea.NewProgram(newAppModel(opts)).Run()
	return err
}
