package json

import (
	"strings"
	"testing"
	"unsafe"
)

func TestUnmarshalStringCopiesStrings(t *testing.T) {
	type payload struct {
		S string `json:"s"`
	}

	want := strings.Repeat("a", 1<<16)
	src := `{"s":"` + want + `"}`

	var out payload
	if err := UnmarshalString(src, &out); err != nil {
		t.Fatalf("UnmarshalString error: %v", err)
	}
	if out.S != want {
		t.Fatalf("decoded mismatch: got len=%d want len=%d", len(out.S), len(want))
	}

	inStart := uintptr(unsafe.Pointer(unsafe.StringData(src)))
	inEnd := inStart + uintptr(len(src))
	outStart := uintptr(unsafe.Pointer(unsafe.StringData(out.S)))
	if outStart >= inStart && outStart < inEnd {
		t.Fatalf("decoded string references input buffer; CopyString expected")
	}
}

func TestMarshalSortsMapKeys(t *testing.T) {
	v := map[string]any{"zeta": 1, "alpha": 2, "mid": 3}
	for i := 0; i < 5; i++ {
		got, err := MarshalString(v)
		if err != nil {
			t.Fatalf("MarshalString error: %v", err)
		}
		if got != `{"alpha":2,"mid":3,"zeta":1}` {
			t.Fatalf("unexpected encoding: %s", got)
		}
	}
}

func TestUnmarshalKeepsIntegers(t *testing.T) {
	var out map[string]any
	if err := Unmarshal([]byte(`{"score":7,"ratio":0.5}`), &out); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if _, ok := out["score"].(int64); !ok {
		t.Fatalf("expected int64 score, got %T", out["score"])
	}
	if _, ok := out["ratio"].(float64); !ok {
		t.Fatalf("expected float64 ratio, got %T", out["ratio"])
	}
}
