package dialogue

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/teachback/internal/catalog"
)

// Reply is the simulated student's answer to one learner utterance.
type Reply struct {
	Question   string `json:"question"`
	Understood bool   `json:"understood"`
	Note       string `json:"note,omitempty"`
}

const (
	closingLine   = "Oh, I get it now! Thank you, that really makes sense to me."
	reexplainLine = "Hmm, I'm still a bit lost. Could you explain it again with a concrete example?"

	noteUnderstood = "The student understood your explanation."
	noteTooShort   = "That was quite short. Add more detail and an example."
)

// followUps are asked in order, one per learner turn.
var followUps = []string{
	"Okay, I think I'm starting to see it. Can you give me an example sentence?",
	"Interesting! How is this different from something similar I might already know?",
	"What mistake do learners usually make with this, and how can I avoid it?",
	"Why does the rule work that way? Can you tell me the reason?",
}

// Partner is the rule-based simulated student.
type Partner struct {
	policy Policy
}

// NewPartner creates a Partner with the given thresholds.
func NewPartner(policy Policy) *Partner {
	return &Partner{policy: policy}
}

// Policy returns the thresholds the partner decides with.
func (p *Partner) Policy() Policy {
	return p.policy
}

// Opening returns the first question the student asks about a topic.
func (p *Partner) Opening(_ context.Context, topic catalog.Topic) (string, error) {
	if topic.ID == "" {
		return "", fmt.Errorf("opening question: empty topic")
	}
	return fmt.Sprintf(
		"Hi! I'm trying to learn about %q, but I don't understand it yet. Can you explain it to me in simple words?",
		topic.Title,
	), nil
}

// FollowUp decides how the student reacts to a new learner utterance.
// transcript is the dialogue before the utterance was added.
func (p *Partner) FollowUp(_ context.Context, transcript []Turn, utterance string) (Reply, error) {
	return Decide(p.policy, LearnerTurns(transcript), utterance), nil
}

// Decide applies the understanding heuristic. turns is the number of learner
// turns that came before utterance.
func Decide(policy Policy, turns int, utterance string) Reply {
	length := utf8.RuneCountInString(strings.TrimSpace(utterance))

	if turns >= policy.UnderstoodAfterTurns {
		return Reply{Question: closingLine, Understood: true, Note: noteUnderstood}
	}

	if turns < policy.ReexplainBelowTurns && length < policy.ShortUtterance {
		return Reply{Question: reexplainLine, Understood: false, Note: noteTooShort}
	}

	idx := min(turns, len(followUps)-1)
	reply := Reply{
		Question:   followUps[idx],
		Understood: turns >= policy.EarlyUnderstandTurns && length > policy.LongUtterance,
	}
	if reply.Understood {
		reply.Note = noteUnderstood
	}
	return reply
}
