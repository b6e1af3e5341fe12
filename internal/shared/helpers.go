// Package shared provides common utility functions used across multiple
// packages in the cargonix codebase.
package shared

import (
	"fmt"
	"strings"
)

// NormalizeCrateName maps hyphens to underscores, following how cargo and
// the registry treat crate names when matching dependency declarations.
func NormalizeCrateName(value string) string {
	return strings.ReplaceAll(value, "-", "_")
}

// CommandError wraps a command execution error with its trimmed output
// for cleaner error messages.
func CommandError(output []byte, err error) error {
	return fmt.Errorf("%s: %w", strings.TrimSpace(string(output)), err)
}
