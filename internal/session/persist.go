package session

import (
	"encoding/json"
	"fmt"
)

// stateVersion is bumped when State changes incompatibly. Blobs written
// under another version are discarded on load.
const stateVersion = 1

type persistedState struct {
	Version int   `json:"version"`
	State   State `json:"state"`
}

// StateKey is the key-value key the learner's in-progress state is saved under.
func StateKey(learner string) string {
	return "session:" + learner
}

func encodeState(s State) ([]byte, error) {
	data, err := json.Marshal(persistedState{Version: stateVersion, State: s})
	if err != nil {
		return nil, fmt.Errorf("encode session state: %w", err)
	}
	return data, nil
}

// decodeState parses a persisted blob. It reports false for missing,
// corrupt, outdated or structurally invalid data.
func decodeState(data []byte) (State, bool) {
	if len(data) == 0 {
		return State{}, false
	}
	var p persistedState
	if err := json.Unmarshal(data, &p); err != nil {
		return State{}, false
	}
	if p.Version != stateVersion || !p.State.validate() {
		return State{}, false
	}
	return p.State, true
}
