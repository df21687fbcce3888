package utils

import (
	"path/filepath"
	"strings"
)

// ContainedPath cleans requested and reports whether it lies inside root.
// Both paths are made absolute first; the cleaned absolute path is returned.
// When requested exists, symlinks are resolved and the target must also lie
// inside the (resolved) root.
func ContainedPath(root, requested string) (string, bool) {
	if requested == "" || root == "" {
		return "", false
	}

	// Tolerate Windows-style separators coming from URLs
	requested = strings.ReplaceAll(requested, "\\", "/")

	absRoot, err := filepath.Abs(filepath.Clean(root))
	if err != nil {
		return "", false
	}
	absPath, err := filepath.Abs(filepath.Clean(filepath.FromSlash(requested)))
	if err != nil {
		return "", false
	}

	if !within(absRoot, absPath) {
		return "", false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		// Nothing on disk to escape through
		return absPath, true
	}
	resolvedRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		resolvedRoot = absRoot
	}
	if !within(resolvedRoot, resolved) {
		return "", false
	}
	return absPath, true
}

// within reports whether path is strictly below root.
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
