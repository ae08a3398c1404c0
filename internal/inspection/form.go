package inspection

import (
	"net/url"
	"strings"

	"inspecciones/webapp/internal/formstore"
	jsonpkg "inspecciones/webapp/internal/pkg/json"
)

// Field names used by the rendered page form.
const (
	fieldState      = "state"
	fieldNotes      = "notes"
	fieldItemPrefix = "item."
)

// Inspection is the record as served by the inspections API.
type Inspection struct {
	ID           int            `json:"id"`
	Facility     string         `json:"facility"`
	Area         string         `json:"area,omitempty"`
	Inspector    string         `json:"inspector,omitempty"`
	ScheduledFor string         `json:"scheduledFor,omitempty"`
	Status       string         `json:"status,omitempty"`
	Items        map[string]any `json:"items"`
	Evidences    []any          `json:"evidences"`
	Notes        string         `json:"notes"`
	Summary      any            `json:"summary"`
}

// Restore merges a locally saved draft into the record: draft items override
// items with the same id, the other fields replace the record's when set.
func (i *Inspection) Restore(snap formstore.Snapshot) {
	if len(snap.Items) > 0 {
		merged := make(map[string]any, len(i.Items)+len(snap.Items))
		for k, v := range i.Items {
			merged[k] = v
		}
		for k, v := range snap.Items {
			merged[k] = v
		}
		i.Items = merged
	}
	if len(snap.Evidences) > 0 {
		i.Evidences = snap.Evidences
	}
	if snap.Notes != "" {
		i.Notes = snap.Notes
	}
	if !isEmptySummary(snap.Summary) {
		i.Summary = snap.Summary
	}
}

func isEmptySummary(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case map[string]any:
		return len(t) == 0
	}
	return false
}

func (i *Inspection) State() formstore.State {
	return formstore.State{
		Items:     i.Items,
		Evidences: i.Evidences,
		Notes:     i.Notes,
		Summary:   i.Summary,
	}
}

// stateFromForm applies posted form fields over base. A "state" field replaces
// base. An item input posted back unchanged keeps the structured value it was
// rendered from; edited inputs are stored as text.
func stateFromForm(form url.Values, base formstore.State) (formstore.State, error) {
	if raw := form.Get(fieldState); raw != "" {
		base = formstore.State{}
		if err := jsonpkg.UnmarshalString(raw, &base); err != nil {
			return formstore.State{}, err
		}
	}

	items := make(map[string]any, len(base.Items))
	for k, v := range base.Items {
		items[k] = v
	}
	for name, values := range form {
		key, ok := strings.CutPrefix(name, fieldItemPrefix)
		if !ok || key == "" || len(values) == 0 {
			continue
		}
		value := values[len(values)-1]
		if cur, exists := items[key]; exists && displayValue(cur) == value {
			continue
		}
		items[key] = value
	}
	if len(items) > 0 {
		base.Items = items
	}
	if form.Has(fieldNotes) {
		base.Notes = form.Get(fieldNotes)
	}
	return base, nil
}
