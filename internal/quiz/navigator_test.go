package quiz

import (
	"errors"
	"testing"
)

func sampleSet(n int) QuestionSet {
	set := make(QuestionSet, n)
	for i := range set {
		set[i] = Question{
			ID:     i,
			Prompt: "Question",
			Options: []Option{
				{ID: 0, Label: "A"},
				{ID: 1, Label: "B"},
				{ID: 2, Label: "C"},
			},
		}
	}
	return set
}

func loaded(t *testing.T, n int) *Navigator {
	t.Helper()
	nav := NewNavigator()
	if err := nav.Load(sampleSet(n)); err != nil {
		t.Fatalf("load: %v", err)
	}
	return nav
}

func TestNavigator_StartsLoading(t *testing.T) {
	nav := NewNavigator()
	if nav.State() != LoadLoading {
		t.Fatalf("state = %v, want loading", nav.State())
	}
	if _, ok := nav.Current(); ok {
		t.Error("expected no current question before load")
	}
	if nav.Advance() {
		t.Error("advance must fail before load")
	}
}

func TestNavigator_LoadResetsToFirstQuestion(t *testing.T) {
	nav := loaded(t, 3)
	if nav.Index() != 0 {
		t.Errorf("index = %d, want 0", nav.Index())
	}
	if nav.Submitted() {
		t.Error("expected submitted=false after load")
	}
	if nav.Len() != 3 {
		t.Errorf("len = %d, want 3", nav.Len())
	}
}

func TestNavigator_LoadEmptySetFails(t *testing.T) {
	nav := NewNavigator()
	err := nav.Load(QuestionSet{})
	if !errors.Is(err, ErrEmptySet) {
		t.Fatalf("err = %v, want ErrEmptySet", err)
	}
	if nav.State() != LoadFailed {
		t.Errorf("state = %v, want failed", nav.State())
	}
}

func TestNavigator_AdvanceAfterSubmit(t *testing.T) {
	nav := loaded(t, 4)
	for i := 0; i < 3; i++ {
		nav.Submit()
		if !nav.Advance() {
			t.Fatalf("advance from %d rejected", i)
		}
		if nav.Index() != i+1 {
			t.Errorf("index = %d, want %d", nav.Index(), i+1)
		}
		if nav.Submitted() {
			t.Errorf("submitted not reset at index %d", nav.Index())
		}
	}
}

func TestNavigator_AdvanceWithoutSubmitRejected(t *testing.T) {
	nav := loaded(t, 3)
	if nav.CanAdvance() {
		t.Error("CanAdvance must be false before submit")
	}
	if nav.Advance() {
		t.Error("advance must be rejected before submit")
	}
	if nav.Index() != 0 {
		t.Errorf("index = %d, want 0", nav.Index())
	}
}

func TestNavigator_AdvanceAtLastIndexIsNoop(t *testing.T) {
	nav := loaded(t, 2)
	nav.Submit()
	nav.Advance()

	for _, submitted := range []bool{false, true} {
		if submitted {
			nav.Submit()
		}
		if nav.Advance() {
			t.Errorf("advance at last index succeeded (submitted=%v)", submitted)
		}
		if nav.Index() != 1 {
			t.Errorf("index = %d, want 1", nav.Index())
		}
	}
	if !nav.IsLast() {
		t.Error("expected IsLast at final question")
	}
}

func TestNavigator_SubmitIsIdempotent(t *testing.T) {
	nav := loaded(t, 3)
	nav.Submit()
	nav.Submit()
	if !nav.Submitted() {
		t.Fatal("expected submitted")
	}
	nav.Advance()
	if nav.Index() != 1 {
		t.Errorf("index = %d, want 1 (one advance per submit)", nav.Index())
	}
}

func TestNavigator_SubmitWithoutSelection(t *testing.T) {
	nav := loaded(t, 2)
	nav.Submit()
	if !nav.Submitted() {
		t.Error("unanswered question must be submittable")
	}
	if _, ok := nav.Selected(0); ok {
		t.Error("expected no selection")
	}
}

func TestNavigator_SelectAfterSubmitKeepsSubmitted(t *testing.T) {
	nav := loaded(t, 2)
	if err := nav.SelectOption(0, 0); err != nil {
		t.Fatal(err)
	}
	nav.Submit()
	if err := nav.SelectOption(0, 2); err != nil {
		t.Fatal(err)
	}
	if !nav.Submitted() {
		t.Error("changing the answer must not un-submit")
	}
	opt, _ := nav.Selected(0)
	if opt.ID != 2 {
		t.Errorf("selected = %d, want 2", opt.ID)
	}
}

func TestNavigator_SelectionsPersistAcrossNavigation(t *testing.T) {
	nav := loaded(t, 3)
	if err := nav.SelectOption(0, 1); err != nil {
		t.Fatal(err)
	}
	nav.Submit()
	nav.Advance()
	if err := nav.SelectOption(1, 2); err != nil {
		t.Fatal(err)
	}

	sel := nav.Selections()
	if sel[0] != 1 || sel[1] != 2 {
		t.Errorf("selections = %v, want map[0:1 1:2]", sel)
	}
	if _, ok := sel[2]; ok {
		t.Error("question 2 should have no entry")
	}

	// Selections returns a copy.
	sel[0] = 0
	if opt, _ := nav.Selected(0); opt.ID != 1 {
		t.Error("mutating the copy changed navigator state")
	}
}

func TestNavigator_SelectOptionRejectsInvalidInput(t *testing.T) {
	nav := loaded(t, 2)

	var idxErr *IndexError
	if err := nav.SelectOption(5, 0); !errors.As(err, &idxErr) {
		t.Errorf("err = %v, want IndexError", err)
	}
	var optErr *UnknownOptionError
	if err := nav.SelectOption(0, 9); !errors.As(err, &optErr) {
		t.Errorf("err = %v, want UnknownOptionError", err)
	}
	if len(nav.Selections()) != 0 {
		t.Error("rejected selections must not be recorded")
	}
}

func TestNavigator_FailAndRetry(t *testing.T) {
	nav := NewNavigator()
	if nav.Retry() {
		t.Error("retry must be refused while loading")
	}

	boom := errors.New("boom")
	nav.Fail(boom)
	if nav.State() != LoadFailed || !errors.Is(nav.Err(), boom) {
		t.Fatalf("state = %v err = %v", nav.State(), nav.Err())
	}
	if !nav.Retry() {
		t.Fatal("retry refused after failure")
	}
	if nav.State() != LoadLoading || nav.Err() != nil {
		t.Errorf("state = %v err = %v after retry", nav.State(), nav.Err())
	}
}

func TestNavigator_SingleQuestionScenario(t *testing.T) {
	nav := NewNavigator()
	err := nav.Load(QuestionSet{{
		ID:      0,
		Prompt:  "Pick one",
		Options: []Option{{ID: 0, Label: "A"}, {ID: 1, Label: "B"}},
	}})
	if err != nil {
		t.Fatal(err)
	}

	if err := nav.SelectOption(0, 1); err != nil {
		t.Fatal(err)
	}
	nav.Submit()
	if !nav.Submitted() {
		t.Fatal("expected submitted")
	}
	if nav.Advance() {
		t.Error("advance must be a no-op with one question")
	}
	if opt, _ := nav.Selected(0); opt.Label != "B" {
		t.Errorf("selected label = %q, want B", opt.Label)
	}
}
