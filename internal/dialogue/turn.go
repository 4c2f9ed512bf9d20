package dialogue

import "time"

// Role identifies who produced a turn in the teach-back dialogue.
type Role string

const (
	// RoleTutor is the simulated student the learner is teaching.
	RoleTutor   Role = "tutor"
	RoleLearner Role = "learner"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleTutor || r == RoleLearner
}

// Turn is a single utterance in the transcript.
type Turn struct {
	Role Role      `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"timestamp"`
}

// NewTurn creates a turn stamped with the current time.
func NewTurn(role Role, text string) Turn {
	return Turn{Role: role, Text: text, At: time.Now().UTC()}
}

// LearnerTurns counts the learner turns in a transcript.
func LearnerTurns(transcript []Turn) int {
	n := 0
	for _, t := range transcript {
		if t.Role == RoleLearner {
			n++
		}
	}
	return n
}
