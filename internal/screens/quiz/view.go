package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	qz "github.com/abhisek/quiztutor/internal/quiz"
	"github.com/abhisek/quiztutor/internal/ui/components"
	"github.com/abhisek/quiztutor/internal/ui/layout"
	"github.com/abhisek/quiztutor/internal/ui/theme"
)

const minPanelWidth = 36

func (s *QuizScreen) View(width, height int) string {
	if !s.chat.IsOpen() {
		return s.renderMain(width, height)
	}

	if layout.IsCompactWidth(width) {
		panelH := height / 2
		mainH := height - panelH
		s.panel.SetOrigin(0, mainH)
		return lipgloss.JoinVertical(lipgloss.Left,
			fitBox(s.renderMain(width, mainH), width, mainH),
			s.renderPanel(width, panelH),
		)
	}

	panelW := width * 2 / 5
	if panelW < minPanelWidth {
		panelW = minPanelWidth
	}
	mainW := width - panelW
	s.panel.SetOrigin(mainW, 0)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		fitBox(s.renderMain(mainW, height), mainW, height),
		s.renderPanel(panelW, height),
	)
}

func (s *QuizScreen) renderPanel(width, height int) string {
	status := ""
	st := s.chat.State()
	switch {
	case st.Reason != "":
		status = "Failed: " + st.Reason
	case s.chat.Len() == 0:
		status = "Ask about the current question."
	case !s.panelFocus:
		status = "Tab to type here."
	}
	return s.panel.View(width, height, status, s.chat.Busy())
}

func (s *QuizScreen) renderMain(width, height int) string {
	switch s.nav.State() {
	case qz.LoadLoading:
		return centered(width, theme.Hint.Render("Loading questions..."))
	case qz.LoadFailed:
		return centered(width,
			theme.ErrorText.Render("Could not load the questions.")+"\n\n"+
				theme.Hint.Render(wrap(s.nav.Err().Error(), width-8))+"\n\n"+
				theme.Body.Render("Press r to try again."))
	}
	return s.renderQuestion(width)
}

func (s *QuizScreen) renderQuestion(width int) string {
	q, _ := s.nav.Current()
	inner := width - 4
	if inner < 20 {
		inner = 20
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Title.Render(fmt.Sprintf("  Question %d of %d", s.nav.Index()+1, s.nav.Len())))
	b.WriteString("\n  ")
	b.WriteString(components.NewProgressBar(s.nav.Index()+1, s.nav.Len(), inner-2).View())
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		PaddingLeft(2).
		Width(inner).
		Render(q.Prompt))
	b.WriteString("\n\n")

	b.WriteString(indent(s.options.View(), "  "))
	b.WriteString("\n")

	submit := components.NewButton("Submit", "s", !s.nav.Submitted())
	next := components.NewButton("Next", "n", s.nav.CanAdvance())
	b.WriteString(indent(lipgloss.JoinHorizontal(lipgloss.Center, submit.View(), "  ", next.View()), "  "))
	b.WriteString("\n\n")

	b.WriteString("  ")
	b.WriteString(theme.Hint.Render(s.progressNote()))
	return b.String()
}

func (s *QuizScreen) progressNote() string {
	switch {
	case !s.nav.Submitted():
		if _, ok := s.nav.Selected(s.nav.Index()); ok {
			return "Press s to submit your answer."
		}
		return "Choose an answer, or ask the tutor with t."
	case s.nav.IsLast():
		return "That was the last question. Press v to review your answers."
	default:
		return "Submitted. Press n for the next question."
	}
}

func centered(width int, s string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render("\n\n" + s)
}

func fitBox(s string, width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		MaxWidth(width).
		MaxHeight(height).
		Render(s)
}

func wrap(s string, width int) string {
	if width < 10 {
		width = 10
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}

func indent(s, pad string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = pad + l
	}
	return strings.Join(lines, "\n")
}
