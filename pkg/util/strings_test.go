package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		wantPath string
		wantOK   bool
	}{
		{"simple key", "users/get", "users/get", true},
		{"single file", "user.json", "user.json", true},
		{"dot prefix", "./users/get", "users/get", true},
		{"double slash", "users//get", "users/get", true},
		{"resolves inside", "a/b/../c", "a/c", true},

		{"simple traversal", "../secret", "", false},
		{"nested traversal", "users/../../etc/passwd", "", false},
		{"dot-dot only", "..", "", false},
		{"absolute", "/etc/passwd", "", false},
		{"backslash traversal", `users\..\..\secret`, "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			gotPath, gotOK := SafeFilePath(tt.input)
			assert.Equal(t, tt.wantOK, gotOK, "SafeFilePath(%q) ok", tt.input)
			assert.Equal(t, tt.wantPath, gotPath, "SafeFilePath(%q) path", tt.input)
		})
	}
}

func TestTruncateBody(t *testing.T) {
	assert.Equal(t, "short", TruncateBody("short", 10))
	assert.Equal(t, "abc...(truncated)", TruncateBody("abcdef", 3))
}

func TestTruncateBody_DefaultMaxSize(t *testing.T) {
	long := strings.Repeat("x", MaxLogBodySize+10)
	got := TruncateBody(long, 0)
	assert.True(t, strings.HasSuffix(got, "...(truncated)"))
	assert.Len(t, got, MaxLogBodySize+len("...(truncated)"))
}
