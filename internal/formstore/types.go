package formstore

import "time"

// Snapshot is the persisted copy of one inspection form. Items, Evidences and
// Summary are opaque to the store and passed through unchanged.
type Snapshot struct {
	EntityID  int            `json:"id"`
	Items     map[string]any `json:"items"`
	Evidences []any          `json:"evidences"`
	Notes     string         `json:"notes"`
	Summary   any            `json:"summary"`
	CreatedAt int64          `json:"createdAt"` // epoch milliseconds
}

func (s Snapshot) CreatedTime() time.Time { return time.UnixMilli(s.CreatedAt) }

func (s Snapshot) State() State {
	return State{
		Items:     s.Items,
		Evidences: s.Evidences,
		Notes:     s.Notes,
		Summary:   s.Summary,
	}
}

// State is the in-memory form model supplied by the page on save.
type State struct {
	Items     map[string]any `json:"items,omitempty"`
	Evidences []any          `json:"evidences,omitempty"`
	Notes     string         `json:"notes,omitempty"`
	Summary   any            `json:"summary,omitempty"`
}

func (s State) withDefaults() State {
	if s.Items == nil {
		s.Items = map[string]any{}
	}
	if s.Evidences == nil {
		s.Evidences = []any{}
	}
	if s.Summary == nil {
		s.Summary = map[string]any{}
	}
	return s
}

func newSnapshot(entityID int, state State, now time.Time) Snapshot {
	state = state.withDefaults()
	return Snapshot{
		EntityID:  entityID,
		Items:     state.Items,
		Evidences: state.Evidences,
		Notes:     state.Notes,
		Summary:   state.Summary,
		CreatedAt: now.UnixMilli(),
	}
}

type Status int

const (
	StatusAbsent Status = iota
	StatusFound
	StatusExpired
	StatusCorrupt
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusExpired:
		return "expired"
	case StatusCorrupt:
		return "corrupt"
	default:
		return "absent"
	}
}

// Result is what Inspect saw at a key. Only StatusFound carries a usable
// snapshot; expired and corrupt entries have already been removed. Raw holds
// the stored value for found and corrupt entries.
type Result struct {
	Status   Status
	Snapshot Snapshot
	Raw      string
	Err      error
}

func (r Result) Found() bool { return r.Status == StatusFound }
