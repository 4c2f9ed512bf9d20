package session

import (
	"slices"

	"github.com/abhisek/teachback/internal/catalog"
	"github.com/abhisek/teachback/internal/dialogue"
	"github.com/abhisek/teachback/internal/feedback"
	"github.com/abhisek/teachback/internal/qa"
)

// Phase is the step of the teach-back flow the learner is on.
type Phase int

const (
	PhaseSetup     Phase = iota + 1 // Choosing a topic
	PhaseLesson                     // Reading the micro-lesson
	PhaseTeach                      // Explaining the topic to the simulated student
	PhaseQuestions                  // Answering the fixed Q&A round
	PhaseFeedback                   // Reviewing scores and corrections
)

var phaseNames = map[Phase]string{
	PhaseSetup:     "setup",
	PhaseLesson:    "lesson",
	PhaseTeach:     "teach",
	PhaseQuestions: "questions",
	PhaseFeedback:  "feedback",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether p is one of the five phases.
func (p Phase) Valid() bool {
	return p >= PhaseSetup && p <= PhaseFeedback
}

// State is the pedagogical state of one session. It holds no UI concerns;
// transient notices live on the Board.
type State struct {
	SessionID string `json:"sessionId"`

	// Generation changes whenever the learner abandons the current flow
	// (navigation, retry, new topic). Collaborator results carry the
	// generation they were requested under and are dropped on mismatch.
	Generation uint64 `json:"generation"`

	Phase   Phase           `json:"phase"`
	TopicID string          `json:"topicId"`
	Topic   *catalog.Topic  `json:"topic,omitempty"`
	Lesson  *catalog.Lesson `json:"lesson,omitempty"`

	// Explanation is every learner utterance of the attempt, newline-joined.
	Explanation string          `json:"explanation"`
	Transcript  []dialogue.Turn `json:"transcript"`

	// Concluded is set once the simulated student says it understood.
	Concluded bool `json:"concluded"`

	QA              []qa.Item `json:"qa"`
	QAIndex         int       `json:"qaIndex"`
	CurrentQuestion string    `json:"currentQuestion,omitempty"`
	LastCoachNote   string    `json:"lastCoachNote,omitempty"`

	Feedback *feedback.Result `json:"feedback,omitempty"`
}

// NewState returns the empty Setup state.
func NewState() State {
	return State{Phase: PhaseSetup}
}

// clone returns a copy that shares no mutable memory with s.
func (s State) clone() State {
	out := s
	out.Transcript = slices.Clone(s.Transcript)
	out.QA = slices.Clone(s.QA)
	if s.Topic != nil {
		t := *s.Topic
		t.Tags = slices.Clone(s.Topic.Tags)
		out.Topic = &t
	}
	return out
}

// AwaitingOpening reports whether the Teach phase still needs the student's
// first question.
func (s State) AwaitingOpening() bool {
	return s.Phase == PhaseTeach && len(s.Transcript) == 0
}

// AwaitingQuestion reports whether the Questions phase needs the question
// for the current index loaded.
func (s State) AwaitingQuestion() bool {
	return s.Phase == PhaseQuestions && s.QAIndex < qa.RoundSize && s.CurrentQuestion == ""
}

// AwaitingConclusion reports whether the student understood but Feedback
// has not been opened yet.
func (s State) AwaitingConclusion() bool {
	return s.Phase == PhaseTeach && s.Concluded && s.Feedback == nil
}

// AwaitingFeedback reports whether Feedback was entered but not computed.
func (s State) AwaitingFeedback() bool {
	return s.Phase == PhaseFeedback && s.Feedback == nil
}

// Completed reports whether feedback has been computed at least once.
func (s State) Completed() bool {
	return s.Feedback != nil
}

// validate checks the structural invariants of a restored state.
func (s State) validate() bool {
	if !s.Phase.Valid() {
		return false
	}
	if len(s.QA) > qa.RoundSize || s.QAIndex != len(s.QA) {
		return false
	}
	for _, t := range s.Transcript {
		if !t.Role.Valid() {
			return false
		}
	}
	if s.Phase > PhaseSetup && (s.Topic == nil || s.Topic.ID != s.TopicID) {
		return false
	}
	if s.Phase > PhaseSetup && s.Lesson == nil {
		return false
	}
	return true
}
