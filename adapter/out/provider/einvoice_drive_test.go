package provider

import "testing"

func TestEscapeQuery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "einvoice", "einvoice"},
		{"single quote", "o'brien", `o\'brien`},
		{"backslash", `a\b`, `a\\b`},
		{"backslash then quote", `a\'b`, `a\\\'b`},
		{"chinese", "發票", "發票"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := escapeQuery(tt.input); got != tt.want {
				t.Errorf("escapeQuery(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
