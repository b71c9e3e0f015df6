package quiz

import (
	qz "github.com/abhisek/quiztutor/internal/quiz"
	"github.com/abhisek/quiztutor/internal/tutor"
)

// questionsLoadedMsg carries the result of the question fetch.
type questionsLoadedMsg struct {
	Set qz.QuestionSet
	Err error
}

// tutorReplyMsg carries the result of one tutor request.
type tutorReplyMsg struct {
	Ticket tutor.Ticket
	Reply  *tutor.Reply
	Err    error
}
