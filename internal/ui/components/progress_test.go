package components

import (
	"testing"

	"github.com/abhisek/teachback/internal/ui/theme"
)

func TestScoreBarPlain(t *testing.T) {
	tests := []struct {
		bar  ScoreBar
		want string
	}{
		{ScoreBar{Label: "Clarity", Score: 50, Width: 10}, "Clarity  [#####.....]   50"},
		{ScoreBar{Label: "English", Score: 130, Width: 4, LabelWidth: 9}, "English    [####]  100"},
		{ScoreBar{Label: "Coverage", Score: -5, Width: 2}, "Coverage  [....]    0"},
	}
	for _, tt := range tests {
		if got := tt.bar.View(theme.New(false)); got != tt.want {
			t.Errorf("View() = %q, want %q", got, tt.want)
		}
	}
}
