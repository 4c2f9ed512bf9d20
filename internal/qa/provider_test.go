package qa

import (
	"context"
	"errors"
	"testing"
)

func TestQuestionAndHintCoverRound(t *testing.T) {
	p := NewProvider()
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < RoundSize; i++ {
		q, err := p.Question(ctx, i)
		if err != nil {
			t.Fatalf("Question(%d): %v", i, err)
		}
		if q == "" || seen[q] {
			t.Errorf("Question(%d) = %q, want a distinct non-empty question", i, q)
		}
		seen[q] = true

		h, err := p.Hint(ctx, i)
		if err != nil || h == "" {
			t.Errorf("Hint(%d) = %q, %v", i, h, err)
		}
	}
}

func TestOutOfRange(t *testing.T) {
	p := NewProvider()
	ctx := context.Background()

	for _, idx := range []int{-1, RoundSize, RoundSize + 3} {
		if _, err := p.Question(ctx, idx); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("Question(%d) err = %v, want ErrIndexOutOfRange", idx, err)
		}
		if _, err := p.Hint(ctx, idx); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("Hint(%d) err = %v, want ErrIndexOutOfRange", idx, err)
		}
		if _, err := p.Submit(ctx, idx, "answer"); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("Submit(%d) err = %v, want ErrIndexOutOfRange", idx, err)
		}
	}
}

func TestCoachNote(t *testing.T) {
	tests := []struct {
		name     string
		index    int
		answer   string
		wantNote bool
	}{
		{"short answer", 0, "use have", true},
		{"lowercase start", 0, "you use it for experiences in your life", true},
		{"good answer", 0, "You use it for experiences up to now.", false},
		{"example without full stop", 1, "I have visited Paris three times", true},
		{"example with full stop", 1, "I have visited Paris three times.", false},
		{"no punctuation needed outside example", 3, "It is different from the past simple", false},
	}

	p := NewProvider()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := p.Submit(context.Background(), tt.index, tt.answer)
			if err != nil {
				t.Fatalf("Submit: %v", err)
			}
			if got := res.CoachNote != ""; got != tt.wantNote {
				t.Errorf("note = %q, wantNote %v", res.CoachNote, tt.wantNote)
			}
		})
	}
}

func TestRoundHelpers(t *testing.T) {
	items := []Item{
		{Question: "q1", Answer: "a1"},
		Skip("q2"),
		{Question: "q3", Answer: "a3", CoachNote: "note"},
	}
	if got := Answered(items); got != 2 {
		t.Errorf("Answered = %d, want 2", got)
	}
	if Complete(items) {
		t.Error("3 items should not complete the round")
	}
	items = append(items, Skip("q4"), Skip("q5"))
	if !Complete(items) {
		t.Error("5 items should complete the round")
	}
	if s := Skip("q"); !s.Skipped || s.Answer != "" {
		t.Errorf("Skip = %+v", s)
	}
}
