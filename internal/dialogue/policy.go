package dialogue

import "fmt"

// Policy holds the thresholds of the understanding heuristic.
// Turn counts refer to learner turns already in the transcript when the
// new utterance arrives; lengths are in characters of the trimmed utterance.
type Policy struct {
	// UnderstoodAfterTurns is the hard cap: at or above this many learner
	// turns the student always understands.
	UnderstoodAfterTurns int `yaml:"understood_after_turns"`

	// ReexplainBelowTurns and ShortUtterance together trigger a request to
	// re-explain: early turns that are shorter than ShortUtterance.
	ReexplainBelowTurns int `yaml:"reexplain_below_turns"`
	ShortUtterance      int `yaml:"short_utterance"`

	// EarlyUnderstandTurns and LongUtterance allow understanding before the
	// cap when a late enough turn is long enough.
	EarlyUnderstandTurns int `yaml:"early_understand_turns"`
	LongUtterance        int `yaml:"long_utterance"`
}

// DefaultPolicy returns the standard thresholds.
func DefaultPolicy() Policy {
	return Policy{
		UnderstoodAfterTurns: 4,
		ReexplainBelowTurns:  2,
		ShortUtterance:       50,
		EarlyUnderstandTurns: 3,
		LongUtterance:        80,
	}
}

// Validate checks that the thresholds are usable.
func (p Policy) Validate() error {
	if p.UnderstoodAfterTurns < 1 {
		return fmt.Errorf("understood_after_turns must be at least 1, got %d", p.UnderstoodAfterTurns)
	}
	if p.ReexplainBelowTurns < 0 || p.EarlyUnderstandTurns < 0 {
		return fmt.Errorf("turn thresholds must not be negative")
	}
	if p.ShortUtterance < 0 || p.LongUtterance < 0 {
		return fmt.Errorf("utterance lengths must not be negative")
	}
	return nil
}
