package formstore

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/cloudwego/base64x"

	jsonpkg "inspecciones/webapp/internal/pkg/json"
)

var (
	ErrCorrupt = errors.New("formstore: corrupt snapshot")
	// ErrInvalidText rejects strings JSON cannot carry byte for byte.
	ErrInvalidText = errors.New("formstore: text is not valid UTF-8")
)

// URL-safe alphabet keeps the value inside the cookie-octet range.
var valueEncoding = base64x.URLEncoding

type wireSnapshot struct {
	EntityID  int            `json:"id"`
	Items     map[string]any `json:"items"`
	Evidences []any          `json:"evidences"`
	Notes     string         `json:"notes"`
	Summary   any            `json:"summary"`
	CreatedAt *int64         `json:"createdAt"`
}

// Encode serializes s fully in memory; nothing is returned on failure.
func Encode(s Snapshot) (string, error) {
	if s.CreatedAt <= 0 {
		return "", fmt.Errorf("formstore: encode: invalid createdAt %d", s.CreatedAt)
	}
	if !validUTF8(s.Items) || !validUTF8(s.Evidences) || !utf8.ValidString(s.Notes) || !validUTF8(s.Summary) {
		return "", ErrInvalidText
	}
	b, err := jsonpkg.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("formstore: encode: %w", err)
	}
	return valueEncoding.EncodeToString(b), nil
}

// Decode is the inverse of Encode. Every failure wraps ErrCorrupt.
func Decode(raw string) (Snapshot, error) {
	if raw == "" {
		return Snapshot{}, fmt.Errorf("%w: empty value", ErrCorrupt)
	}

	b, err := valueEncoding.DecodeString(raw)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: base64: %v", ErrCorrupt, err)
	}

	var w wireSnapshot
	if err := jsonpkg.Unmarshal(b, &w); err != nil {
		return Snapshot{}, fmt.Errorf("%w: json: %v", ErrCorrupt, err)
	}
	if w.CreatedAt == nil || *w.CreatedAt <= 0 {
		return Snapshot{}, fmt.Errorf("%w: missing createdAt", ErrCorrupt)
	}
	if w.EntityID < 0 {
		return Snapshot{}, fmt.Errorf("%w: invalid id %d", ErrCorrupt, w.EntityID)
	}

	state := State{Items: w.Items, Evidences: w.Evidences, Notes: w.Notes, Summary: w.Summary}.withDefaults()
	return Snapshot{
		EntityID:  w.EntityID,
		Items:     state.Items,
		Evidences: state.Evidences,
		Notes:     state.Notes,
		Summary:   state.Summary,
		CreatedAt: *w.CreatedAt,
	}, nil
}

func validUTF8(v any) bool {
	switch t := v.(type) {
	case string:
		return utf8.ValidString(t)
	case map[string]any:
		for k, item := range t {
			if !utf8.ValidString(k) || !validUTF8(item) {
				return false
			}
		}
	case []any:
		for _, item := range t {
			if !validUTF8(item) {
				return false
			}
		}
	case map[string]string:
		for k, item := range t {
			if !utf8.ValidString(k) || !utf8.ValidString(item) {
				return false
			}
		}
	case []string:
		for _, item := range t {
			if !utf8.ValidString(item) {
				return false
			}
		}
	}
	return true
}
