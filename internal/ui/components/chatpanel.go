package components

import (
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quiztutor/internal/ui/theme"
)

// ChatLine is one rendered transcript entry.
type ChatLine struct {
	FromUser bool
	Text     string
	Pending  bool
	Failed   bool
}

// ChatPanel is the tutor side panel: a scrolling transcript, an input line
// and a status line. It only renders; the conversation state lives with the
// caller.
type ChatPanel struct {
	Title string
	Input TextInput

	viewport viewport.Model
	spinner  spinner.Model
	lines    []ChatLine

	// Screen-space bounds of the last render, used for click hit-testing.
	x, y          int
	width, height int
}

// NewChatPanel creates a panel with the given title and input placeholder.
func NewChatPanel(title, placeholder string) ChatPanel {
	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot))
	sp.Style = lipgloss.NewStyle().Foreground(theme.Accent)

	return ChatPanel{
		Title:    title,
		Input:    NewTextInput(placeholder, 500),
		viewport: viewport.New(viewport.WithWidth(30), viewport.WithHeight(5)),
		spinner:  sp,
	}
}

// Tick starts the busy spinner animation.
func (p *ChatPanel) Tick() tea.Cmd {
	return p.spinner.Tick
}

// SetOrigin records where the panel's top-left cell is drawn on screen.
func (p *ChatPanel) SetOrigin(x, y int) {
	p.x, p.y = x, y
}

// Contains reports whether the cell (x, y) lies inside the panel as last
// rendered. A panel that has not been rendered contains nothing.
func (p *ChatPanel) Contains(x, y int) bool {
	if p.width == 0 || p.height == 0 {
		return false
	}
	return x >= p.x && x < p.x+p.width && y >= p.y && y < p.y+p.height
}

// SetLines replaces the transcript and scrolls to the newest message.
func (p *ChatPanel) SetLines(lines []ChatLine) {
	p.lines = append(p.lines[:0], lines...)
	p.refresh()
}

// Update feeds spinner ticks and key presses to the sub-models.
func (p *ChatPanel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return cmd
	case tea.KeyPressMsg:
		switch msg.String() {
		case "pgup", "pgdown", "ctrl+u", "ctrl+d":
			var cmd tea.Cmd
			p.viewport, cmd = p.viewport.Update(msg)
			return cmd
		}
		var cmd tea.Cmd
		p.Input, cmd = p.Input.Update(msg)
		return cmd
	}
	return nil
}

// View renders the panel into a box of at most width x height cells. status
// is shown under the input; busy swaps it for the spinner.
func (p *ChatPanel) View(width, height int, status string, busy bool) string {
	inner := width - 4 // border + horizontal padding
	if inner < 10 {
		inner = 10
	}
	vpHeight := height - 2 - 3 // border, then title, input and status lines
	if vpHeight < 1 {
		vpHeight = 1
	}

	if p.viewport.Width() != inner || p.viewport.Height() != vpHeight {
		p.viewport.SetWidth(inner)
		p.viewport.SetHeight(vpHeight)
		p.refresh()
	}
	p.Input.SetWidth(inner - 3)

	statusLine := theme.Hint.Render(status)
	if busy {
		statusLine = p.spinner.View() + " " + theme.Hint.Render("Thinking...")
	}

	fit := lipgloss.NewStyle().Width(inner)
	body := strings.Join([]string{
		fit.Render(theme.PanelTitle.Render(p.Title)),
		p.viewport.View(),
		fit.Render(p.Input.View()),
		fit.Render(statusLine),
	}, "\n")

	out := theme.Panel.Render(body)
	p.width = lipgloss.Width(out)
	p.height = lipgloss.Height(out)
	return out
}

func (p *ChatPanel) refresh() {
	w := p.viewport.Width()
	if w <= 0 {
		w = 30
	}
	wrap := lipgloss.NewStyle().Width(w)

	var b strings.Builder
	for i, l := range p.lines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(wrap.Render(renderChatLine(l)))
	}
	p.viewport.SetContent(b.String())
	p.viewport.GotoBottom()
}

func renderChatLine(l ChatLine) string {
	if !l.FromUser {
		return theme.BotMessage.Render("Tutor: " + l.Text)
	}
	switch {
	case l.Failed:
		return theme.FailedMessage.Render("✗ You: " + l.Text + " (not delivered)")
	case l.Pending:
		return theme.PendingMessage.Render("You: " + l.Text)
	default:
		return theme.UserMessage.Render("You: " + l.Text)
	}
}
