package utils

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple name",
			input:    "server01",
			expected: "server01",
		},
		{
			name:     "name with spaces",
			input:    "Patch Panel 01",
			expected: "patch-panel-01",
		},
		{
			name:     "special characters stripped",
			input:    "core.sw/01",
			expected: "coresw01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.expected {
				t.Errorf("Slugify(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeColor(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "six char hex",
			input:    "ff0000",
			expected: "ff0000",
		},
		{
			name:     "hash prefix",
			input:    "#FF0000",
			expected: "ff0000",
		},
		{
			name:     "three char expansion",
			input:    "f00",
			expected: "ff0000",
		},
		{
			name:     "invalid length",
			input:    "ff00",
			expected: "",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeColor(tt.input); got != tt.expected {
				t.Errorf("NormalizeColor(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestGetCableColor(t *testing.T) {
	if got := GetCableColor("cat6a"); got != "ffeb3b" {
		t.Errorf("GetCableColor(cat6a) = %q, expected %q", got, "ffeb3b")
	}
	if got := GetCableColor("unknown"); got != "" {
		t.Errorf("GetCableColor(unknown) = %q, expected empty", got)
	}
}
