package catalog

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// Lesson is the micro-lesson studied before the teach-back.
type Lesson struct {
	ID            string         `json:"id"`
	TopicID       string         `json:"topicId"`
	Title         string         `json:"title"`
	Sections      []Section      `json:"sections"`
	CommonMistake string         `json:"commonMistake"`
	Exercises     []MiniExercise `json:"exercises"`
}

// Section is one heading of a lesson with its body and example sentences.
type Section struct {
	Heading  string   `json:"heading"`
	Body     string   `json:"body"`
	Examples []string `json:"examples,omitempty"`
}

// MiniExercise is a multiple-choice check used only in the lesson review.
type MiniExercise struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

// Correction pairs a flawed phrase with its fix and the reason for it.
type Correction struct {
	Before string `json:"before"`
	After  string `json:"after"`
	Why    string `json:"why"`
}

// KeyPoint is an idea a complete explanation of a topic should mention.
// It counts as covered when any of its keywords appears in the learner's text.
type KeyPoint struct {
	Text     string   `json:"text"`
	Keywords []string `json:"keywords"`
}

// Exemplar is the reference content used to analyse a learner's explanation.
type Exemplar struct {
	KeyPoints        []KeyPoint
	Corrections      []Correction
	ModelExplanation string
}

// GetExemplar returns the reference content for a topic.
func GetExemplar(topicID string) (Exemplar, error) {
	e, ok := exemplars[topicID]
	if !ok {
		return Exemplar{}, fmt.Errorf("%w: %q", ErrUnknownTopic, topicID)
	}
	return Exemplar{
		KeyPoints:        slices.Clone(e.KeyPoints),
		Corrections:      slices.Clone(e.Corrections),
		ModelExplanation: e.ModelExplanation,
	}, nil
}

// StaticLessons serves lessons from the built-in lesson bank.
// It is the content provider used when no LLM is configured.
type StaticLessons struct{}

// NewStaticLessons creates a StaticLessons provider.
func NewStaticLessons() *StaticLessons {
	return &StaticLessons{}
}

// GenerateLesson returns the built-in lesson for a topic.
func (s *StaticLessons) GenerateLesson(_ context.Context, topicID string) (*Lesson, error) {
	l, ok := lessonBank[topicID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTopic, topicID)
	}
	return cloneLesson(l), nil
}

// RegenerateLesson returns the same built-in content under a fresh lesson ID.
func (s *StaticLessons) RegenerateLesson(ctx context.Context, topicID string) (*Lesson, error) {
	return s.GenerateLesson(ctx, topicID)
}

func cloneLesson(l Lesson) *Lesson {
	out := l
	out.ID = uuid.NewString()
	out.Sections = make([]Section, len(l.Sections))
	for i, sec := range l.Sections {
		sec.Examples = slices.Clone(sec.Examples)
		out.Sections[i] = sec
	}
	out.Exercises = make([]MiniExercise, len(l.Exercises))
	for i, ex := range l.Exercises {
		ex.Options = slices.Clone(ex.Options)
		out.Exercises[i] = ex
	}
	return &out
}
