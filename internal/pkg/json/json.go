package json

import "github.com/bytedance/sonic"

// Map keys are sorted so the same value always encodes to the same bytes.
// Numbers decode as int64 where possible so integer scores survive a round
// trip through map[string]any unchanged.
var api = sonic.Config{
	EscapeHTML:     false,
	SortMapKeys:    true,
	UseInt64:       true,
	CopyString:     true,
	ValidateString: true,
}.Froze()

func Marshal(v any) ([]byte, error) { return api.Marshal(v) }

func Unmarshal(data []byte, v any) error { return api.Unmarshal(data, v) }

func MarshalString(v any) (string, error) { return api.MarshalToString(v) }

func UnmarshalString(data string, v any) error { return api.UnmarshalFromString(data, v) }
