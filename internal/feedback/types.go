package feedback

import (
	"math"

	"github.com/abhisek/teachback/internal/catalog"
	"github.com/abhisek/teachback/internal/qa"
)

// Scores are the four graded dimensions, each in 0..100.
type Scores struct {
	Correctness int `json:"correctness"`
	Coverage    int `json:"coverage"`
	Clarity     int `json:"clarity"`
	English     int `json:"english"`
}

// Total returns the rounded mean of the four dimensions.
func (s Scores) Total() int {
	sum := s.Correctness + s.Coverage + s.Clarity + s.English
	return int(math.Round(float64(sum) / 4))
}

// Clamped returns s with every dimension limited to 0..100.
func (s Scores) Clamped() Scores {
	return Scores{
		Correctness: clamp(s.Correctness),
		Coverage:    clamp(s.Coverage),
		Clarity:     clamp(s.Clarity),
		English:     clamp(s.English),
	}
}

func clamp(v int) int {
	return max(0, min(100, v))
}

// Grade is the qualitative bucket of a total score.
type Grade string

const (
	GradeExcellent Grade = "Excellent"
	GradeStrong    Grade = "Strong"
	GradeImproving Grade = "Improving"
	GradeNeedsWork Grade = "Needs Work"
)

// Grade thresholds are inclusive lower bounds.
const (
	excellentFrom = 85
	strongFrom    = 70
	improvingFrom = 55
)

// GradeFor maps a total score to its bucket.
func GradeFor(total int) Grade {
	switch {
	case total >= excellentFrom:
		return GradeExcellent
	case total >= strongFrom:
		return GradeStrong
	case total >= improvingFrom:
		return GradeImproving
	default:
		return GradeNeedsWork
	}
}

// Input is everything the synthesizer looks at.
type Input struct {
	Topic       catalog.Topic
	Explanation string
	QA          []qa.Item
}

// Result is the end-of-session feedback.
type Result struct {
	Scores              Scores               `json:"scores"`
	Total               int                  `json:"totalScore"`
	Grade               Grade                `json:"grade"`
	TopFixes            []string             `json:"topFixes"`
	Corrections         []catalog.Correction `json:"corrections"`
	MissingPoints       []string             `json:"missingPoints"`
	ImprovedExplanation string               `json:"improvedExplanation"`
	NextSuggestion      catalog.Topic        `json:"nextLessonSuggestion"`
}
