package session

import (
	"github.com/abhisek/teachback/internal/catalog"
	"github.com/abhisek/teachback/internal/dialogue"
	"github.com/abhisek/teachback/internal/feedback"
	"github.com/abhisek/teachback/internal/qa"
)

// Action is a state transition request. The set is closed.
type Action interface {
	isAction()
}

type (
	// SelectTopic picks the topic in Setup. Picking a different topic than
	// the current one starts a new session under SessionID.
	SelectTopic struct {
		Topic     catalog.Topic
		SessionID string
	}

	// LessonLoaded stores a generated or regenerated lesson.
	LessonLoaded struct {
		Lesson *catalog.Lesson
	}

	// Next advances one phase.
	Next struct{}

	// Back returns to the previous phase keeping accumulated state.
	Back struct{}

	// GoTo jumps from Teach straight to Feedback once the dialogue concluded.
	GoTo struct {
		Phase Phase
	}

	// OpeningAsked appends the student's first question.
	OpeningAsked struct {
		Turn dialogue.Turn
	}

	// LearnerSaid appends a learner utterance to the transcript and explanation.
	LearnerSaid struct {
		Turn dialogue.Turn
	}

	// PartnerReplied appends the student's reaction to the last utterance.
	PartnerReplied struct {
		Turn       dialogue.Turn
		Understood bool
	}

	// QuestionLoaded shows the question for Index.
	QuestionLoaded struct {
		Index    int
		Question string
	}

	// AnswerRecorded appends an answered or skipped Q&A item.
	AnswerRecorded struct {
		Item qa.Item
	}

	// FeedbackReady stores the synthesized feedback.
	FeedbackReady struct {
		Result *feedback.Result
	}

	// Retry starts a new teach-back attempt on the same topic and lesson.
	Retry struct{}

	// NewTopic discards the whole session.
	NewTopic struct{}
)

func (SelectTopic) isAction()    {}
func (LessonLoaded) isAction()   {}
func (Next) isAction()           {}
func (Back) isAction()           {}
func (GoTo) isAction()           {}
func (OpeningAsked) isAction()   {}
func (LearnerSaid) isAction()    {}
func (PartnerReplied) isAction() {}
func (QuestionLoaded) isAction() {}
func (AnswerRecorded) isAction() {}
func (FeedbackReady) isAction()  {}
func (Retry) isAction()          {}
func (NewTopic) isAction()       {}

// Reduce applies a to s and returns the next state. It never mutates s.
// Actions that are not allowed in the current phase return s unchanged.
func Reduce(s State, a Action) State {
	next := s.clone()

	switch a := a.(type) {
	case SelectTopic:
		if s.Phase != PhaseSetup || a.Topic.ID == "" || a.Topic.ID == s.TopicID {
			return s
		}
		topic := a.Topic
		next = NewState()
		next.Generation = s.Generation + 1
		next.SessionID = a.SessionID
		next.TopicID = topic.ID
		next.Topic = &topic

	case LessonLoaded:
		if a.Lesson == nil || a.Lesson.TopicID != s.TopicID {
			return s
		}
		if s.Phase != PhaseSetup && s.Phase != PhaseLesson {
			return s
		}
		next.Lesson = a.Lesson

	case Next:
		switch s.Phase {
		case PhaseSetup:
			if s.Topic == nil || s.Lesson == nil {
				return s
			}
		case PhaseTeach:
			// A concluded dialogue never enters Questions. Before feedback
			// exists the move belongs to GoTo.
			if s.Concluded {
				if s.Feedback == nil {
					return s
				}
				next.Phase = PhaseFeedback
				next.Generation++
				return next
			}
		case PhaseQuestions:
			if !qa.Complete(s.QA) {
				return s
			}
		case PhaseFeedback:
			return s
		}
		next.Phase = s.Phase + 1
		next.Generation++

	case Back:
		if s.Phase <= PhaseSetup {
			return s
		}
		next.Phase = s.Phase - 1
		if s.Phase == PhaseFeedback && s.Concluded {
			next.Phase = PhaseTeach
		}
		next.Generation++

	case GoTo:
		if s.Phase != PhaseTeach || a.Phase != PhaseFeedback || !s.Concluded {
			return s
		}
		next.Phase = PhaseFeedback
		next.Generation++

	case OpeningAsked:
		if !s.AwaitingOpening() || a.Turn.Role != dialogue.RoleTutor {
			return s
		}
		next.Transcript = append(next.Transcript, a.Turn)

	case LearnerSaid:
		if s.Phase != PhaseTeach || s.Concluded || a.Turn.Role != dialogue.RoleLearner {
			return s
		}
		next.Transcript = append(next.Transcript, a.Turn)
		if next.Explanation == "" {
			next.Explanation = a.Turn.Text
		} else {
			next.Explanation += "\n" + a.Turn.Text
		}

	case PartnerReplied:
		if s.Phase != PhaseTeach || s.Concluded || a.Turn.Role != dialogue.RoleTutor {
			return s
		}
		if n := len(s.Transcript); n == 0 || s.Transcript[n-1].Role != dialogue.RoleLearner {
			return s
		}
		next.Transcript = append(next.Transcript, a.Turn)
		next.Concluded = a.Understood

	case QuestionLoaded:
		if s.Phase != PhaseQuestions || a.Index != s.QAIndex || qa.Complete(s.QA) {
			return s
		}
		next.CurrentQuestion = a.Question
		next.LastCoachNote = ""

	case AnswerRecorded:
		if s.Phase != PhaseQuestions || qa.Complete(s.QA) {
			return s
		}
		next.QA = append(next.QA, a.Item)
		next.QAIndex = len(next.QA)
		next.CurrentQuestion = ""
		next.LastCoachNote = a.Item.CoachNote
		if qa.Complete(next.QA) {
			next.Phase = PhaseFeedback
			next.Feedback = nil
			next.Generation++
		}

	case FeedbackReady:
		if s.Phase != PhaseFeedback || a.Result == nil {
			return s
		}
		next.Feedback = a.Result

	case Retry:
		if s.Topic == nil || s.Lesson == nil || s.Phase < PhaseLesson {
			return s
		}
		next.Phase = PhaseTeach
		next.Explanation = ""
		next.Transcript = nil
		next.Concluded = false
		next.QA = nil
		next.QAIndex = 0
		next.CurrentQuestion = ""
		next.LastCoachNote = ""
		next.Feedback = nil
		next.Generation++

	case NewTopic:
		next = NewState()
		next.Generation = s.Generation + 1

	default:
		return s
	}

	return next
}
