package session

import (
	"slices"
	"time"

	"github.com/abhisek/teachback/internal/qa"
	"github.com/abhisek/teachback/internal/store"
)

// BuildRecord flattens s into a session record. The record is completed
// only when feedback has been computed.
func BuildRecord(s State, at time.Time) *store.SessionRecord {
	rec := &store.SessionRecord{
		SessionID:       s.SessionID,
		Date:            at,
		TopicID:         s.TopicID,
		Lesson:          s.Lesson,
		UserExplanation: s.Explanation,
		QATranscript:    slices.Clone(s.QA),
		TopFixes:        []string{},
		MissingPoints:   []string{},
		Status:          store.StatusInProgress,
	}
	if rec.QATranscript == nil {
		rec.QATranscript = []qa.Item{}
	}
	if s.Topic != nil {
		rec.Topic = *s.Topic
	}

	if f := s.Feedback; f != nil {
		rec.Scores = f.Scores
		rec.TotalScore = f.Total
		rec.Grade = f.Grade
		rec.TopFixes = slices.Clone(f.TopFixes)
		rec.MissingPoints = slices.Clone(f.MissingPoints)
		rec.Corrections = slices.Clone(f.Corrections)
		rec.ImprovedExplanation = f.ImprovedExplanation
		rec.NextLessonSuggestion = f.NextSuggestion
		rec.Status = store.StatusCompleted
	}
	return rec
}
