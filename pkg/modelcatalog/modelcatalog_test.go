package modelcatalog

import (
	"testing"
)

func TestIsSupported(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "known model", in: "vertex/gemini-2.0-flash-001", want: true},
		{name: "known authenticated model", in: "fireworks/deepseek-v3", want: true},
		{name: "unknown model", in: "acme/supermodel-9000", want: false},
		{name: "empty", in: "", want: false},
		{name: "label not accepted", in: "Gemini 2.0 Flash", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSupported(tt.in); got != tt.want {
				t.Errorf("IsSupported(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAllowedForAnonymous(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "open scope", in: "openai/gpt-4o-mini", want: true},
		{name: "authenticated only", in: "anthropic/claude-v3-haiku", want: false},
		{name: "unknown model never allowed", in: "acme/supermodel-9000", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AllowedForAnonymous(tt.in); got != tt.want {
				t.Errorf("AllowedForAnonymous(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
