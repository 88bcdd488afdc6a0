package errors

import (
	"strings"
	"unicode"
)

// ValidateOutputPath validates a user-supplied output path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	return nil
}

// ValidatePaletteName validates the name of a fixed palette file entry.
// Names appear in legends and cache keys, so they must be simple identifiers.
func ValidatePaletteName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPalette, "palette name cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidPalette, "palette name too long (max 64 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPalette, "palette name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidPalette, "palette name cannot contain path separators")
	}

	return nil
}

// ValidateHexColor validates a hex color string of the form "#RRGGBB".
func ValidateHexColor(s string) error {
	if len(s) != 7 || s[0] != '#' {
		return New(ErrCodeInvalidPalette, "invalid hex color %q (expected #RRGGBB)", s)
	}

	for _, r := range s[1:] {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return New(ErrCodeInvalidPalette, "invalid hex color %q (expected #RRGGBB)", s)
		}
	}

	return nil
}
