package components

import (
	"fmt"
	"strings"

	"github.com/abhisek/quiztutor/internal/ui/theme"
)

// OptionList renders the answers of one question. Cursor is the highlighted
// row, Chosen the selected row (-1 for none). Locked dims the rows once the
// question has been submitted; the choice can still change.
type OptionList struct {
	Options []string
	Cursor  int
	Chosen  int
	Locked  bool
}

// NewOptionList returns a list with the cursor on the chosen row, or on the
// first row when nothing is chosen.
func NewOptionList(options []string, chosen int) OptionList {
	cursor := chosen
	if cursor < 0 || cursor >= len(options) {
		cursor = 0
	}
	return OptionList{Options: options, Cursor: cursor, Chosen: chosen}
}

// Up moves the cursor one row up.
func (l *OptionList) Up() {
	if l.Cursor > 0 {
		l.Cursor--
	}
}

// Down moves the cursor one row down.
func (l *OptionList) Down() {
	if l.Cursor < len(l.Options)-1 {
		l.Cursor++
	}
}

// Letter returns the display letter for row i: A, B, ... Z, then 27, 28.
func Letter(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return fmt.Sprint(i + 1)
}

// View renders the list.
func (l OptionList) View() string {
	var b strings.Builder
	for i, opt := range l.Options {
		prefix := "  "
		if i == l.Cursor {
			prefix = "▸ "
		}
		mark := "○"
		if i == l.Chosen {
			mark = "●"
		}
		line := fmt.Sprintf("%s%s %s) %s", prefix, mark, Letter(i), opt)

		switch {
		case i == l.Chosen:
			b.WriteString(theme.Chosen.Render(line))
		case i == l.Cursor:
			b.WriteString(theme.Cursor.Render(line))
		case l.Locked:
			b.WriteString(theme.Locked.Render(line))
		default:
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
