package catalog

import (
	"errors"
	"fmt"
	"slices"
)

// ErrUnknownTopic is returned when a topic ID is not in the catalog.
var ErrUnknownTopic = errors.New("unknown topic")

// Category groups topics by the language skill they train.
type Category string

const (
	CategoryGrammar    Category = "grammar"
	CategoryVocabulary Category = "vocabulary"
	CategorySpeaking   Category = "speaking"
	CategoryWriting    Category = "writing"
)

// AllCategories returns all categories in display order.
func AllCategories() []Category {
	return []Category{
		CategoryGrammar,
		CategoryVocabulary,
		CategorySpeaking,
		CategoryWriting,
	}
}

// CategoryDisplayName returns a human-readable name for a category.
func CategoryDisplayName(c Category) string {
	switch c {
	case CategoryGrammar:
		return "Grammar"
	case CategoryVocabulary:
		return "Vocabulary"
	case CategorySpeaking:
		return "Speaking"
	case CategoryWriting:
		return "Writing"
	default:
		return string(c)
	}
}

// Level is a CEFR proficiency level.
type Level string

const (
	LevelA1 Level = "A1"
	LevelA2 Level = "A2"
	LevelB1 Level = "B1"
	LevelB2 Level = "B2"
	LevelC1 Level = "C1"
	LevelC2 Level = "C2"
)

// Valid reports whether l is one of the six CEFR levels.
func (l Level) Valid() bool {
	switch l {
	case LevelA1, LevelA2, LevelB1, LevelB2, LevelC1, LevelC2:
		return true
	}
	return false
}

// Topic is a unit of study the learner can pick for a session.
// Everything except Starred is immutable reference data.
type Topic struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Category      Category `json:"category"`
	Level         Level    `json:"level"`
	EstimatedMins int      `json:"estimatedMins"`
	Tags          []string `json:"tags,omitempty"`
	Starred       bool     `json:"starred"`
}

// AllTopics returns a copy of the catalog in display order.
func AllTopics() []Topic {
	out := make([]Topic, len(topics))
	for i, t := range topics {
		out[i] = t
		out[i].Tags = slices.Clone(t.Tags)
	}
	return out
}

// GetTopic returns the topic with the given ID.
func GetTopic(id string) (Topic, error) {
	for _, t := range topics {
		if t.ID == id {
			t.Tags = slices.Clone(t.Tags)
			return t, nil
		}
	}
	return Topic{}, fmt.Errorf("%w: %q", ErrUnknownTopic, id)
}

// TopicsByCategory returns the topics of one category in display order.
func TopicsByCategory(c Category) []Topic {
	var out []Topic
	for _, t := range AllTopics() {
		if t.Category == c {
			out = append(out, t)
		}
	}
	return out
}

// WithStars returns a copy of ts with Starred set from the given set.
func WithStars(ts []Topic, starred map[string]bool) []Topic {
	out := make([]Topic, len(ts))
	for i, t := range ts {
		t.Starred = starred[t.ID]
		out[i] = t
	}
	return out
}
