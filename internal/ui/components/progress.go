package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/teachback/internal/ui/theme"
)

// ScoreBar renders a labelled 0..100 score as a horizontal bar.
type ScoreBar struct {
	Label string
	Score int

	// LabelWidth pads labels so bars in a column line up.
	LabelWidth int
	Width      int
}

// View renders the bar with the given styles.
func (b ScoreBar) View(st theme.Styles) string {
	score := min(max(b.Score, 0), 100)

	label := b.Label
	if pad := b.LabelWidth - lipgloss.Width(label); pad > 0 {
		label += strings.Repeat(" ", pad)
	}

	width := max(b.Width, 4)
	filled := width * score / 100
	empty := width - filled

	var bar string
	if st.Colored() {
		bar = st.BarFilled.Render(strings.Repeat(" ", filled)) +
			st.BarEmpty.Render(strings.Repeat(" ", empty))
	} else {
		bar = "[" + strings.Repeat("#", filled) + strings.Repeat(".", empty) + "]"
	}

	return fmt.Sprintf("%s  %s  %s", st.Body.Render(label), bar, st.Score(score).Render(fmt.Sprintf("%3d", score)))
}
