package utils

import (
	"strings"

	"github.com/braunma/cabletrace/internal/constants"
)

// NormalizeColor converts various color formats to 6-char hex without #
func NormalizeColor(input string) string {
	if input == "" {
		return ""
	}

	// Remove # prefix if present
	input = strings.TrimPrefix(input, "#")

	// Convert to lowercase
	input = strings.ToLower(input)

	// If it's 3 characters, expand to 6 (e.g., "f00" -> "ff0000")
	if len(input) == 3 {
		return string([]byte{
			input[0], input[0],
			input[1], input[1],
			input[2], input[2],
		})
	}

	// If it's already 6 characters, return as-is
	if len(input) == 6 {
		return input
	}

	// Invalid format, return empty
	return ""
}

// GetCableColor returns the default color for a cable type
func GetCableColor(cableType string) string {
	if color, ok := constants.CableColorMap[strings.ToLower(cableType)]; ok {
		return color
	}
	return ""
}
