package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// MaxTaskCodeLength bounds task codes so they stay printable in tables and
// diagram labels.
const MaxTaskCodeLength = 256

// ValidateTaskCode validates a task code for safety and correctness.
//
// The validation rules are intentionally conservative:
//   - No empty codes
//   - No control characters (including newlines and null bytes)
//   - No leading or trailing whitespace
//   - Maximum length of 256 characters
//
// Reserved anchor codes are checked by the builder, not here.
func ValidateTaskCode(code string) error {
	if code == "" {
		return New(ErrCodeInvalidInput, "task code cannot be empty")
	}

	if len(code) > MaxTaskCodeLength {
		return New(ErrCodeInvalidInput, "task code too long (max %d characters)", MaxTaskCodeLength).ForTask(code)
	}

	for _, r := range code {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "task code %q contains invalid control characters", code).ForTask(code)
		}
	}

	if strings.TrimSpace(code) != code {
		return New(ErrCodeInvalidInput, "task code %q has leading or trailing whitespace", code).ForTask(code)
	}

	return nil
}

// ValidateInputPath validates the path of a task file.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
//   - Extension must be one of the given ones (case-insensitive)
func ValidateInputPath(path string, exts ...string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if len(exts) == 0 {
		return nil
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range exts {
		if ext == want {
			return nil
		}
	}
	return New(ErrCodeInvalidPath, "unsupported file extension %q (want one of %s)", ext, strings.Join(exts, ", "))
}
