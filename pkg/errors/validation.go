package errors

import (
	"regexp"
	"strings"
)

// workspaceNameRegex matches names usable as storage keys and file names.
var workspaceNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateWorkspaceName validates a workspace name before it is used as a
// storage key. Names end up as file names in the file store, so the rules
// are conservative:
//   - No empty names
//   - Maximum length of 128 characters
//   - Letters, digits, '.', '_' and '-' only, starting with a letter or digit
//   - No path traversal sequences
func ValidateWorkspaceName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "workspace name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "workspace name too long (max 128 characters)")
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidInput, "workspace name cannot contain %q", "..")
	}

	if !workspaceNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid workspace name: %q", name)
	}

	return nil
}
