package id

import (
	"strings"

	"github.com/google/uuid"
)

const maxRequestIDLen = 128

func RequestID() string { return "req-" + uuid.New().String() }

// SanitizeRequestID accepts a caller-supplied request id when it is short and
// printable, otherwise it returns a fresh one.
func SanitizeRequestID(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || len(v) > maxRequestIDLen {
		return RequestID()
	}
	for i := 0; i < len(v); i++ {
		if c := v[i]; c < 0x21 || c > 0x7e {
			return RequestID()
		}
	}
	return v
}
