package keys

import (
	"fmt"
	"path/filepath"
	"strings"
)

// sanitizeKey replaces spaces with hyphens and lowercases the string.
func sanitizeKey(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, " ", "-"))
}

// Artifact returns the object key for a file produced by a run.
func Artifact(runID, path string) string {
	return fmt.Sprintf("runs/%s/%s", sanitizeKey(runID), sanitizeKey(filepath.Base(path)))
}
