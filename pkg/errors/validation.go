package errors

import (
	"strings"
	"unicode"
)

// ValidateTemplateName validates a template reference before it is looked up.
// Templates are resolved inside a template directory, so names that could
// escape it are rejected.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No absolute paths
//   - No path traversal sequences (..) or backslashes
//   - Maximum length of 256 characters
func ValidateTemplateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidTemplate, "template name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidTemplate, "template name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidTemplate, "template name contains invalid control characters")
		}
	}

	if strings.HasPrefix(name, "/") {
		return New(ErrCodeInvalidTemplate, "template name must be relative: %q", name)
	}

	for _, pattern := range []string{"..", "\\", "\x00"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidTemplate, "template name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidatePath validates a node path.
// Paths are compared byte for byte during resolution, so only characters that
// can never appear in a URL reference are rejected.
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 2048
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateCurrentPath validates the path of the page being viewed. A blank
// path is valid and selects tree mode.
func ValidateCurrentPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	return ValidatePath(path)
}

// ValidateURLPrefix validates a URL prefix used to rewrite relative paths.
// An empty prefix is valid and disables rewriting.
func ValidateURLPrefix(prefix string) error {
	if prefix == "" {
		return nil
	}

	if strings.HasPrefix(prefix, "//") {
		return nil
	}

	if !strings.HasPrefix(prefix, "http://") && !strings.HasPrefix(prefix, "https://") {
		return New(ErrCodeInvalidURLPrefix, "url prefix must use http or https scheme: %q", prefix)
	}

	return nil
}

// ValidateTableName validates an SQL identifier supplied through configuration.
func ValidateTableName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidConfig, "table name cannot be empty")
	}
	for i, r := range name {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (i > 0 && r >= '0' && r <= '9') {
			continue
		}
		return New(ErrCodeInvalidConfig, "invalid table name: %q", name)
	}
	return nil
}
