package qa

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// RoundSize is the fixed number of questions in a Q&A round.
const RoundSize = 5

// ErrIndexOutOfRange is returned for a question index outside the round.
var ErrIndexOutOfRange = errors.New("question index out of range")

// minFullAnswer is the length below which an answer gets a coach note
// asking for a full sentence.
const minFullAnswer = 20

// Item is one answered or skipped question of the round.
type Item struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	CoachNote string `json:"coachNote,omitempty"`
	Skipped   bool   `json:"skipped,omitempty"`
}

// Result is the provider's reaction to a submitted answer.
type Result struct {
	CoachNote string `json:"coachNote,omitempty"`
}

type step struct {
	question string
	hint     string
}

var steps = [RoundSize]step{
	{
		question: "What is the single most important rule to remember about this topic?",
		hint:     "Think about the one sentence you would write on a sticky note.",
	},
	{
		question: "Can you give me an example sentence that uses it correctly?",
		hint:     "Use a situation from your own day, like work, school or family.",
	},
	{
		question: "What is a common mistake learners make here, and how do you avoid it?",
		hint:     "Look back at the common mistake note in the lesson.",
	},
	{
		question: "How is this different from something similar you already know?",
		hint:     "Compare it with a word or structure that looks alike.",
	},
	{
		question: "When would you NOT use this? Give me an exception or a limit.",
		hint:     "Think of a context where the rule would sound wrong.",
	},
}

// Provider serves the fixed interrogation round.
type Provider struct{}

// NewProvider creates a Q&A provider.
func NewProvider() *Provider {
	return &Provider{}
}

// Question returns the question at index.
func (p *Provider) Question(_ context.Context, index int) (string, error) {
	s, err := stepAt(index)
	if err != nil {
		return "", err
	}
	return s.question, nil
}

// Hint returns the hint for the question at index. It has no side effects.
func (p *Provider) Hint(_ context.Context, index int) (string, error) {
	s, err := stepAt(index)
	if err != nil {
		return "", err
	}
	return s.hint, nil
}

// Submit reviews an answer and returns an optional coach note.
func (p *Provider) Submit(_ context.Context, index int, answer string) (Result, error) {
	if _, err := stepAt(index); err != nil {
		return Result{}, err
	}
	return Result{CoachNote: coachNote(index, answer)}, nil
}

func stepAt(index int) (step, error) {
	if index < 0 || index >= RoundSize {
		return step{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	return steps[index], nil
}

func coachNote(index int, answer string) string {
	a := strings.TrimSpace(answer)
	if utf8.RuneCountInString(a) < minFullAnswer {
		return "Try to answer in a full sentence so your reasoning is clear."
	}
	first, _ := utf8.DecodeRuneInString(a)
	if unicode.IsLower(first) {
		return "Start your sentence with a capital letter."
	}
	if index == 1 && !strings.ContainsAny(a[len(a)-1:], ".!?") {
		return "Finish your example sentence with a full stop."
	}
	return ""
}
