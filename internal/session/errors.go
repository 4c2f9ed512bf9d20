package session

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned while a collaborator call is in flight.
	ErrBusy = errors.New("session is busy")

	// ErrNoTopic is returned when advancing from Setup without a topic.
	ErrNoTopic = errors.New("no topic selected")

	// ErrEmptyAnswer is returned for blank utterances and answers.
	ErrEmptyAnswer = errors.New("answer is empty")

	// ErrWrongPhase is returned when an operation is not allowed in the
	// current phase.
	ErrWrongPhase = errors.New("not allowed in this phase")

	// ErrRoundComplete is returned when the Q&A round already has all items.
	ErrRoundComplete = errors.New("question round is complete")

	// ErrStale is returned when a collaborator result arrived after the
	// learner moved on. The result has been discarded.
	ErrStale = errors.New("result discarded: session moved on")
)

// ContentError wraps a failed collaborator call. The session stays where it
// was and the learner may try again.
type ContentError struct {
	Op  string
	Err error
}

func (e *ContentError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ContentError) Unwrap() error {
	return e.Err
}

// IsContentError reports whether err is a collaborator failure.
func IsContentError(err error) bool {
	var ce *ContentError
	return errors.As(err, &ce)
}
