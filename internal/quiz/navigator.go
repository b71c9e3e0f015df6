package quiz

// Navigator owns forward-only progress through a question set: the current
// index, the per-question selections, and the submitted flag that gates
// advancing. It is not safe for concurrent use; the UI event loop is its
// only writer.
type Navigator struct {
	set        QuestionSet
	state      LoadState
	loadErr    error
	index      int
	submitted  bool
	selections SelectionMap
}

// NewNavigator returns a navigator waiting for its question set.
func NewNavigator() *Navigator {
	return &Navigator{
		state:      LoadLoading,
		selections: make(SelectionMap),
	}
}

// Load installs the fetched question set and moves to the first question.
func (n *Navigator) Load(set QuestionSet) error {
	if len(set) == 0 {
		n.Fail(ErrEmptySet)
		return ErrEmptySet
	}
	n.set = set
	n.state = LoadReady
	n.loadErr = nil
	n.index = 0
	n.submitted = false
	n.selections = make(SelectionMap)
	return nil
}

// Fail records that the fetch did not produce a usable question set.
func (n *Navigator) Fail(err error) {
	n.set = nil
	n.state = LoadFailed
	n.loadErr = err
}

// Retry moves a failed navigator back to loading. It reports whether the
// caller should start a new fetch.
func (n *Navigator) Retry() bool {
	if n.state != LoadFailed {
		return false
	}
	n.state = LoadLoading
	n.loadErr = nil
	return true
}

// State returns the load state.
func (n *Navigator) State() LoadState { return n.state }

// Err returns the fetch error when the state is LoadFailed.
func (n *Navigator) Err() error { return n.loadErr }

// Len returns the number of questions.
func (n *Navigator) Len() int { return len(n.set) }

// Index returns the current question index.
func (n *Navigator) Index() int { return n.index }

// Submitted reports whether the current question has been submitted.
func (n *Navigator) Submitted() bool { return n.submitted }

// IsLast reports whether the current question is the final one.
func (n *Navigator) IsLast() bool {
	return n.state == LoadReady && n.index == len(n.set)-1
}

// Current returns the question at the current index.
func (n *Navigator) Current() (Question, bool) {
	if n.state != LoadReady {
		return Question{}, false
	}
	return n.set[n.index], true
}

// Question returns the question at index i.
func (n *Navigator) Question(i int) (Question, bool) {
	if n.state != LoadReady || i < 0 || i >= len(n.set) {
		return Question{}, false
	}
	return n.set[i], true
}

// SelectOption records optionID as the answer for question i. It overwrites
// any earlier choice and is allowed after submission without clearing it.
func (n *Navigator) SelectOption(i, optionID int) error {
	if n.state != LoadReady {
		return ErrNotReady
	}
	if i < 0 || i >= len(n.set) {
		return &IndexError{Index: i, Len: len(n.set)}
	}
	if _, ok := n.set[i].Option(optionID); !ok {
		return &UnknownOptionError{QuestionIndex: i, OptionID: optionID}
	}
	n.selections[i] = optionID
	return nil
}

// Selected returns the option chosen for question i, if any.
func (n *Navigator) Selected(i int) (Option, bool) {
	id, ok := n.selections[i]
	if !ok {
		return Option{}, false
	}
	q, ok := n.Question(i)
	if !ok {
		return Option{}, false
	}
	return q.Option(id)
}

// Selections returns a copy of the selection map.
func (n *Navigator) Selections() SelectionMap {
	out := make(SelectionMap, len(n.selections))
	for k, v := range n.selections {
		out[k] = v
	}
	return out
}

// Submit locks in the current question. Repeated calls have no further
// effect, and an unanswered question may be submitted.
func (n *Navigator) Submit() {
	if n.state != LoadReady {
		return
	}
	n.submitted = true
}

// CanAdvance reports whether Advance would move to another question. The
// Next control is disabled whenever this is false.
func (n *Navigator) CanAdvance() bool {
	return n.state == LoadReady && n.submitted && n.index < len(n.set)-1
}

// Advance moves to the next question and clears the submitted flag. It
// returns false and leaves the state untouched when the current question is
// not submitted or is the last one.
func (n *Navigator) Advance() bool {
	if !n.CanAdvance() {
		return false
	}
	n.index++
	n.submitted = false
	return true
}
