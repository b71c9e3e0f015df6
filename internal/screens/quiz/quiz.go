package quiz

import (
	"context"
	"errors"
	"fmt"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	qz "github.com/abhisek/quiztutor/internal/quiz"
	"github.com/abhisek/quiztutor/internal/router"
	"github.com/abhisek/quiztutor/internal/screen"
	"github.com/abhisek/quiztutor/internal/screens/review"
	"github.com/abhisek/quiztutor/internal/tutor"
	"github.com/abhisek/quiztutor/internal/ui/components"
	"github.com/abhisek/quiztutor/internal/ui/layout"
)

const (
	panelTitle       = "Generative AI tutor"
	panelPlaceholder = "Any questions?"
)

var errNoTutor = errors.New("no tutor configured")

// Options holds the screen's dependencies.
type Options struct {
	Source qz.Source
	Tutor  tutor.Tutor
	Log    zerolog.Logger
}

// QuizScreen walks the learner through the question set and hosts the
// tutor side panel.
type QuizScreen struct {
	source qz.Source
	tutor  tutor.Tutor
	log    zerolog.Logger

	nav     *qz.Navigator
	chat    *tutor.Controller
	options components.OptionList
	panel   components.ChatPanel

	// panelFocus routes typing to the panel input while the panel is open.
	// Tab hands the keyboard back to the question.
	panelFocus bool
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.StatusProvider = (*QuizScreen)(nil)

// New creates the quiz screen. The question set is fetched on Init.
func New(opts Options) *QuizScreen {
	return &QuizScreen{
		source: opts.Source,
		tutor:  opts.Tutor,
		log:    opts.Log,
		nav:    qz.NewNavigator(),
		chat:   tutor.NewController(),
		panel:  components.NewChatPanel(panelTitle, panelPlaceholder),
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	return s.fetch()
}

func (s *QuizScreen) Title() string {
	return "Quiz"
}

// Status shows question progress in the header.
func (s *QuizScreen) Status() string {
	if s.nav.State() != qz.LoadReady {
		return ""
	}
	return fmt.Sprintf("Q %d/%d", s.nav.Index()+1, s.nav.Len())
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.chat.IsOpen() && s.panelFocus {
		hints := []layout.KeyHint{{Key: "Enter", Description: "Send"}}
		if !s.chat.Busy() {
			hints = append(hints, layout.KeyHint{Key: "Ctrl+R", Description: "New chat"})
		}
		return append(hints,
			layout.KeyHint{Key: "Tab", Description: "Question"},
			layout.KeyHint{Key: "Esc", Description: "Close tutor"},
		)
	}
	switch s.nav.State() {
	case qz.LoadLoading:
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	case qz.LoadFailed:
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "↑↓/1-9", Description: "Choose"},
		{Key: "S", Description: "Submit"},
	}
	if s.nav.CanAdvance() {
		hints = append(hints, layout.KeyHint{Key: "N", Description: "Next"})
	}
	hints = append(hints,
		layout.KeyHint{Key: "T", Description: "Tutor"},
		layout.KeyHint{Key: "V", Description: "Review"},
	)
	return hints
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionsLoadedMsg:
		return s.handleLoaded(msg)

	case tutorReplyMsg:
		return s.handleReply(msg)

	case spinner.TickMsg:
		if !s.chat.Busy() {
			return s, nil
		}
		return s, s.panel.Update(msg)

	case screen.ClickMsg:
		if s.chat.IsOpen() && !s.panel.Contains(msg.X, msg.Y) {
			s.closePanel()
		}
		return s, nil

	case tea.KeyPressMsg:
		if s.chat.IsOpen() && s.panelFocus {
			return s.handlePanelKey(msg)
		}
		return s.handleQuizKey(msg)
	}
	return s, nil
}

// fetch starts one question-set request.
func (s *QuizScreen) fetch() tea.Cmd {
	src := s.source
	return func() tea.Msg {
		if src == nil {
			return questionsLoadedMsg{Err: errors.New("no question source configured")}
		}
		set, err := src.Fetch(context.Background())
		return questionsLoadedMsg{Set: set, Err: err}
	}
}

func (s *QuizScreen) handleLoaded(msg questionsLoadedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.nav.Fail(msg.Err)
		return s, nil
	}
	if err := s.nav.Load(msg.Set); err != nil {
		s.log.Warn().Err(err).Msg("question set rejected")
		return s, nil
	}
	s.syncOptions()
	return s, nil
}

func (s *QuizScreen) handleReply(msg tutorReplyMsg) (screen.Screen, tea.Cmd) {
	outcome := s.chat.Complete(msg.Ticket, msg.Reply, msg.Err)
	switch outcome {
	case tutor.OutcomeStale:
		s.log.Debug().Msg("dropped tutor reply for a superseded request")
	case tutor.OutcomeFailed:
		s.log.Warn().Str("reason", s.chat.State().Reason).Msg("tutor request failed")
	}
	s.syncTranscript()
	return s, nil
}

func (s *QuizScreen) handleQuizKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	switch s.nav.State() {
	case qz.LoadLoading:
		return s, nil
	case qz.LoadFailed:
		if key == "r" && s.nav.Retry() {
			return s, s.fetch()
		}
		return s, nil
	}

	switch key {
	case "up", "k":
		s.options.Up()
	case "down", "j":
		s.options.Down()
	case "enter", "space":
		s.choose(s.options.Cursor)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		s.choose(int(key[0] - '1'))
	case "s":
		s.nav.Submit()
		s.options.Locked = s.nav.Submitted()
	case "n":
		if s.nav.Advance() {
			s.syncOptions()
		}
	case "t":
		if s.chat.IsOpen() {
			s.closePanel()
			return s, nil
		}
		return s, s.openPanel()
	case "tab":
		if s.chat.IsOpen() {
			s.panelFocus = true
			return s, s.panel.Input.Focus()
		}
	case "v":
		return s, func() tea.Msg {
			return router.PushScreenMsg{Screen: review.New(s.nav)}
		}
	}
	return s, nil
}

func (s *QuizScreen) handlePanelKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return s, s.send()
	case "esc":
		s.closePanel()
		return s, nil
	case "tab":
		s.panelFocus = false
		s.panel.Input.Blur()
		return s, nil
	case "ctrl+r":
		if !s.chat.Reset() {
			s.log.Debug().Msg("new chat refused while a tutor request is in flight")
			return s, nil
		}
		s.syncTranscript()
		return s, nil
	}
	return s, s.panel.Update(msg)
}

// choose selects the option at display row i of the current question.
func (s *QuizScreen) choose(i int) {
	q, ok := s.nav.Current()
	if !ok || i < 0 || i >= len(q.Options) {
		return
	}
	if err := s.nav.SelectOption(s.nav.Index(), q.Options[i].ID); err != nil {
		s.log.Warn().Err(err).Msg("select option")
		return
	}
	s.options.Cursor = i
	s.options.Chosen = i
}

// send hands the panel input to the controller and, if accepted, starts the
// tutor request.
func (s *QuizScreen) send() tea.Cmd {
	ticket, ok := s.chat.Begin(s.panel.Input.Value())
	if !ok {
		return nil
	}
	s.panel.Input.Clear()
	s.syncTranscript()

	q := s.chat.Query(ticket, s.tutorContext())
	t := s.tutor
	ask := func() tea.Msg {
		if t == nil {
			return tutorReplyMsg{Ticket: ticket, Err: errNoTutor}
		}
		reply, err := t.Ask(context.Background(), q)
		return tutorReplyMsg{Ticket: ticket, Reply: reply, Err: err}
	}
	return tea.Batch(ask, s.panel.Tick())
}

// tutorContext projects the current question and answer for a tutor query.
func (s *QuizScreen) tutorContext() tutor.Context {
	qc := tutor.Context{
		QuestionIndex: s.nav.Index(),
		Answer:        tutor.NoAnswerSentinel,
	}
	q, ok := s.nav.Current()
	if !ok {
		return qc
	}
	qc.Question = q.Raw
	qc.Prompt = q.Prompt
	for _, o := range q.Options {
		qc.Options = append(qc.Options, o.Label)
	}
	if opt, ok := s.nav.Selected(s.nav.Index()); ok {
		qc.Answer = opt.Label
	}
	return qc
}

func (s *QuizScreen) openPanel() tea.Cmd {
	s.chat.Open()
	s.panelFocus = true
	s.syncTranscript()
	return s.panel.Input.Focus()
}

// closePanel hides the panel. A request in flight keeps running and its
// reply still lands in the transcript.
func (s *QuizScreen) closePanel() {
	s.chat.Close()
	s.panelFocus = false
	s.panel.Input.Blur()
}

// syncOptions rebuilds the option list for the current question.
func (s *QuizScreen) syncOptions() {
	q, ok := s.nav.Current()
	if !ok {
		return
	}
	labels := make([]string, len(q.Options))
	chosen := -1
	sel, hasSel := s.nav.Selected(s.nav.Index())
	for i, o := range q.Options {
		labels[i] = o.Label
		if hasSel && o.ID == sel.ID {
			chosen = i
		}
	}
	s.options = components.NewOptionList(labels, chosen)
	s.options.Locked = s.nav.Submitted()
}

// syncTranscript pushes the controller's transcript into the panel.
func (s *QuizScreen) syncTranscript() {
	msgs := s.chat.Transcript()
	lines := make([]components.ChatLine, len(msgs))
	for i, m := range msgs {
		lines[i] = components.ChatLine{
			FromUser: m.Sender == tutor.SenderUser,
			Text:     m.Text,
			Pending:  m.Status == tutor.StatusPending,
			Failed:   m.Status == tutor.StatusFailed,
		}
	}
	s.panel.SetLines(lines)
}
