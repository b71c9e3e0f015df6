package quiz

// Option is one selectable answer of a question.
type Option struct {
	ID    int
	Label string
}

// Question is a single multiple-choice question.
type Question struct {
	// ID is the backend id when the payload carries an integer one,
	// otherwise the question's position in the set.
	ID int

	// Prompt is the question text shown to the learner.
	Prompt string

	// Options holds the answers in display order. Never empty.
	Options []Option

	// Raw is the question object exactly as the backend sent it. The tutor
	// request forwards it verbatim as context.
	Raw map[string]any
}

// Option returns the option with the given id.
func (q Question) Option(id int) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// QuestionSet is the ordered collection of questions returned by one fetch.
// It is never mutated after parsing.
type QuestionSet []Question

// SelectionMap maps a question index to the id of the selected option.
// A missing key means no option has been selected for that question.
type SelectionMap map[int]int

// LoadState is the readiness of the question set.
type LoadState int

const (
	LoadLoading LoadState = iota
	LoadReady
	LoadFailed
)

func (s LoadState) String() string {
	switch s {
	case LoadLoading:
		return "loading"
	case LoadReady:
		return "ready"
	case LoadFailed:
		return "failed"
	default:
		return "unknown"
	}
}
