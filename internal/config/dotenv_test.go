package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseDotEnvLine(t *testing.T) {
	cases := []struct {
		line   string
		key    string
		value  string
		wantOK bool
	}{
		{line: "PORT=8080", key: "PORT", value: "8080", wantOK: true},
		{line: "export DEBUG=low", key: "DEBUG", value: "low", wantOK: true},
		{line: `API_TOKEN="a b#c"`, key: "API_TOKEN", value: "a b#c", wantOK: true},
		{line: "API_BASE_URL='http://x/api'", key: "API_BASE_URL", value: "http://x/api", wantOK: true},
		{line: "FORM_COOKIE_SECURE=false # local dev", key: "FORM_COOKIE_SECURE", value: "false", wantOK: true},
		{line: "EMPTY=", key: "EMPTY", value: "", wantOK: true},
		{line: "# comment", wantOK: false},
		{line: "   ", wantOK: false},
		{line: "=novalue", wantOK: false},
		{line: "NOEQUALS", wantOK: false},
	}

	for _, tc := range cases {
		key, value, ok := parseDotEnvLine(tc.line)
		if ok != tc.wantOK {
			t.Fatalf("parseDotEnvLine(%q) ok=%v want %v", tc.line, ok, tc.wantOK)
		}
		if !ok {
			continue
		}
		if key != tc.key || value != tc.value {
			t.Fatalf("parseDotEnvLine(%q) = (%q, %q), want (%q, %q)", tc.line, key, value, tc.key, tc.value)
		}
	}
}

func TestApplyDotEnvFile_KeepsExistingEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "FORMSTORE_TEST_A=from-file\nFORMSTORE_TEST_B=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	t.Setenv("FORMSTORE_TEST_A", "from-env")
	os.Unsetenv("FORMSTORE_TEST_B")
	t.Cleanup(func() { os.Unsetenv("FORMSTORE_TEST_B") })

	if n := applyDotEnvFile(path); n != 1 {
		t.Fatalf("applied %d vars, want 1", n)
	}
	if got := os.Getenv("FORMSTORE_TEST_A"); got != "from-env" {
		t.Fatalf("FORMSTORE_TEST_A = %q, want from-env", got)
	}
	if got := os.Getenv("FORMSTORE_TEST_B"); got != "from-file" {
		t.Fatalf("FORMSTORE_TEST_B = %q, want from-file", got)
	}
}
