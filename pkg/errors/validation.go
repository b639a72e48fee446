package errors

import (
	"math"
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateID validates a node or link identifier.
//
// Identifiers end up in SVG id attributes and marker references
// (url(#arrowhead-<id>)), so the rules reject anything that would break them:
//   - No empty ids
//   - No whitespace or control characters
//   - No '#', '(' or ')'
//   - Maximum length of 256 characters
func ValidateID(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "%s id cannot be empty", kind)
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "%s id too long (max 256 characters)", kind)
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "%s id %q contains whitespace or control characters", kind, id)
		}
	}

	if strings.ContainsAny(id, "#()") {
		return New(ErrCodeInvalidInput, "%s id %q contains invalid characters", kind, id)
	}

	return nil
}

// ValidateFinite checks that every value is a finite number.
// The name is used in the error message, e.g. "node a: x".
func ValidateFinite(name string, values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidGeometry, "%s must be finite, got %v", name, v)
		}
	}
	return nil
}

// ValidateViewport checks that viewport dimensions are positive and finite.
func ValidateViewport(width, height float64) error {
	if err := ValidateFinite("viewport", width, height); err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidGeometry, "viewport must be positive, got %vx%v", width, height)
	}
	return nil
}

// ValidatePath validates an output or input file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if filepath.Base(path) == "." || strings.HasSuffix(path, string(filepath.Separator)) {
		return New(ErrCodeInvalidPath, "path %q names a directory", path)
	}

	return nil
}
