// Package review lists every question with the learner's current choice.
package review

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	qz "github.com/abhisek/quiztutor/internal/quiz"
	"github.com/abhisek/quiztutor/internal/screen"
	"github.com/abhisek/quiztutor/internal/ui/components"
	"github.com/abhisek/quiztutor/internal/ui/layout"
	"github.com/abhisek/quiztutor/internal/ui/theme"
)

// ReviewScreen is read-only: it renders the navigator it was given and
// never changes it.
type ReviewScreen struct {
	nav    *qz.Navigator
	offset int
}

var _ screen.Screen = (*ReviewScreen)(nil)
var _ screen.KeyHintProvider = (*ReviewScreen)(nil)

// New creates a review of nav.
func New(nav *qz.Navigator) *ReviewScreen {
	return &ReviewScreen{nav: nav}
}

func (r *ReviewScreen) Init() tea.Cmd { return nil }

func (r *ReviewScreen) Title() string { return "Review" }

func (r *ReviewScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (r *ReviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "up", "k":
			if r.offset > 0 {
				r.offset--
			}
		case "down", "j":
			if r.offset < r.nav.Len()-1 {
				r.offset++
			}
		}
	}
	return r, nil
}

// Answer returns the line describing the choice for question i.
func (r *ReviewScreen) Answer(i int) string {
	q, ok := r.nav.Question(i)
	if !ok {
		return ""
	}
	opt, ok := r.nav.Selected(i)
	if !ok {
		return "no answer yet"
	}
	for row, o := range q.Options {
		if o.ID == opt.ID {
			return fmt.Sprintf("%s) %s", components.Letter(row), o.Label)
		}
	}
	return opt.Label
}

func (r *ReviewScreen) View(width, height int) string {
	if r.nav.State() != qz.LoadReady {
		return theme.Hint.Render("\n  No questions loaded.")
	}

	inner := width - 6
	if inner < 20 {
		inner = 20
	}

	var blocks []string
	for i := 0; i < r.nav.Len(); i++ {
		q, _ := r.nav.Question(i)

		title := fmt.Sprintf("%d. %s", i+1, q.Prompt)
		style := theme.Body
		if i == r.nav.Index() {
			title += "  (current)"
			style = theme.Title
		}

		answer := r.Answer(i)
		answerStyle := theme.Chosen
		if _, ok := r.nav.Selected(i); !ok {
			answerStyle = theme.Hint
		}

		blocks = append(blocks,
			lipgloss.NewStyle().Width(inner).Render(style.Render(title))+"\n"+
				"   "+answerStyle.Render("Answer: "+answer))
	}

	if r.offset >= len(blocks) {
		r.offset = len(blocks) - 1
	}
	body := strings.Join(blocks[r.offset:], "\n\n")
	return lipgloss.NewStyle().
		Padding(1, 2).
		MaxHeight(height).
		Render(body)
}
