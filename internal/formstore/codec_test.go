package formstore

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleSnapshot() Snapshot {
	return Snapshot{
		EntityID: 42,
		Items: map[string]any{
			"17": map[string]any{"score": int64(3), "checked": true, "comment": "puerta dañada"},
			"18": map[string]any{"score": 0.5},
		},
		Evidences: []any{
			map[string]any{"itemId": "17", "url": "/uploads/a.jpg"},
			"/uploads/b.jpg",
		},
		Notes:     "Revisión semanal\nsin incidencias graves",
		Summary:   map[string]any{"total": int64(12), "percent": 87.5},
		CreatedAt: 1760400000000,
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	want := sampleSnapshot()

	raw, err := Encode(want)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeProducesCookieSafeValue(t *testing.T) {
	raw, err := Encode(sampleSnapshot())
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		ok := c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '-' || c == '_' || c == '='
		if !ok {
			t.Fatalf("unexpected byte %q at %d in encoded value", c, i)
		}
	}
}

func TestEncodeRejectsMissingTimestamp(t *testing.T) {
	s := sampleSnapshot()
	s.CreatedAt = 0
	if _, err := Encode(s); err == nil {
		t.Fatalf("expected error for zero createdAt")
	}
}

func TestDecodeAppliesDefaults(t *testing.T) {
	raw := valueEncoding.EncodeToString([]byte(`{"id":3,"createdAt":1760400000000}`))
	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	want := Snapshot{
		EntityID:  3,
		Items:     map[string]any{},
		Evidences: []any{},
		Summary:   map[string]any{},
		CreatedAt: 1760400000000,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRejectsCorruptValues(t *testing.T) {
	enc := func(s string) string { return valueEncoding.EncodeToString([]byte(s)) }

	cases := map[string]string{
		"empty":              "",
		"not base64":         "%%%not-base64%%%",
		"not json":           enc("hello world"),
		"truncated json":     enc(`{"id":1,"items":{"a":1}`),
		"json null":          enc("null"),
		"json array":         enc(`[1,2,3]`),
		"missing createdAt":  enc(`{"id":1,"items":{"a":1}}`),
		"string createdAt":   enc(`{"id":1,"createdAt":"yesterday"}`),
		"negative createdAt": enc(`{"id":1,"createdAt":-5}`),
		"items not object":   enc(`{"id":1,"items":5,"createdAt":1760400000000}`),
		"negative id":        enc(`{"id":-1,"createdAt":1760400000000}`),
	}

	for name, raw := range cases {
		if _, err := Decode(raw); !errors.Is(err, ErrCorrupt) {
			t.Fatalf("%s: expected ErrCorrupt, got %v", name, err)
		}
	}
}

func TestDecodeRejectsTamperedValue(t *testing.T) {
	raw, err := Encode(sampleSnapshot())
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	tampered := raw[:len(raw)/2] + "!" + raw[len(raw)/2+1:]
	if _, err := Decode(tampered); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt for tampered value, got %v", err)
	}
	if _, err := Decode(strings.Repeat("=", 8)); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt for padding-only value, got %v", err)
	}
}

func TestEncodeRejectsInvalidUTF8(t *testing.T) {
	cases := map[string]Snapshot{
		"notes":      {Notes: "a\xffb"},
		"item value": {Items: map[string]any{"1": "bad\xfe"}},
		"item key":   {Items: map[string]any{"k\xff": "ok"}},
		"evidence":   {Evidences: []any{map[string]any{"url": "\xc3"}}},
		"summary":    {Summary: map[string]any{"label": []any{"\xff"}}},
	}
	for name, s := range cases {
		s.EntityID = 1
		s.CreatedAt = 1760400000000
		if _, err := Encode(s); !errors.Is(err, ErrInvalidText) {
			t.Fatalf("%s: expected ErrInvalidText, got %v", name, err)
		}
	}
}
