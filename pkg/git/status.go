package git

import (
	"encoding/json"
)

// Kind identifies the flavour of status entries a poller reports.
type Kind int

// Kind values.
const (
	CommitStatuses Kind = iota
	CheckRuns
)

func (k Kind) String() string {
	if k == CheckRuns {
		return "check-runs"
	}
	return "statuses"
}

const (
	statePending   = "pending"
	stateCompleted = "completed"
)

// Status is a single status entry reported for a commit, either a commit
// status or a check run.
type Status struct {
	// Name is the context of a commit status, or the name of a check run.
	Name string `json:"name"`
	// State is the state of a commit status, or the status of a check run.
	State       string `json:"state"`
	Conclusion  string `json:"conclusion,omitempty"`
	Description string `json:"description,omitempty"`
	TargetURL   string `json:"target_url,omitempty"`
	Kind        Kind   `json:"-"`

	// Raw is the entry exactly as the provider returned it.
	Raw json.RawMessage `json:"-"`
}

// Terminal returns true if the entry will not change state again.
func (s *Status) Terminal() bool {
	if s.Kind == CheckRuns {
		return s.State == stateCompleted
	}
	return s.State != statePending
}

// FindStatus returns the first entry with the provided name for which match
// returns true, or nil if there is none.
//
// A nil match accepts every entry with the right name.
func FindStatus(statuses []*Status, name string, match func(*Status) (bool, error)) (*Status, error) {
	for _, s := range statuses {
		if s.Name != name {
			continue
		}
		if match == nil {
			return s, nil
		}
		ok, err := match(s)
		if err != nil {
			return nil, err
		}
		if ok {
			return s, nil
		}
	}
	return nil, nil
}
