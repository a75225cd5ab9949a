package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hpungsan/indotrip/internal/config"
	"github.com/hpungsan/indotrip/internal/errors"
)

// ValidateExportPath performs path validation for itinerary exports.
// It checks:
// 1. Path traversal (.. sequences)
// 2. Extension (must match the export format)
// 3. Directory restrictions (file must be DIRECTLY in the exports dir or allowed_paths, no subdirectories)
// 4. Symlink safety (parent dir must not be a symlink, file must not be a symlink)
//
// The "no subdirectories" rule eliminates TOCTOU races where an intermediate
// directory component could be swapped for a symlink between validation and
// open. Combined with O_NOFOLLOW on the final component this closes the gap.
func ValidateExportPath(path, ext string, cfg *config.Config) error {
	if path == "" {
		return errors.NewInvalidRequest("path is required")
	}

	if containsTraversal(path) {
		return errors.NewInvalidRequest("path must not contain directory traversal (..)")
	}

	cleaned := filepath.Clean(path)
	if !strings.EqualFold(filepath.Ext(cleaned), ext) {
		return errors.NewInvalidRequest(fmt.Sprintf("path must have %s extension", ext))
	}

	absPath, err := filepath.Abs(cleaned)
	if err != nil {
		return errors.NewInvalidRequest(fmt.Sprintf("invalid path: %v", err))
	}

	// Unsafe mode skips directory checks but never symlink checks.
	if cfg == nil || !cfg.AllowUnsafePaths {
		allowedDirs, err := allowedExportDirs(cfg)
		if err != nil {
			return err
		}

		parentDir := filepath.Dir(absPath)
		if !isDirectlyInAllowedDir(parentDir, allowedDirs) {
			return errors.NewInvalidRequest(
				fmt.Sprintf("file must be directly in an allowed directory (no subdirectories); allowed: %v",
					allowedDirs))
		}

		if info, err := os.Lstat(parentDir); err == nil && info.Mode()&os.ModeSymlink != 0 {
			return errors.NewInvalidRequest("parent directory must not be a symlink")
		}
	}

	if info, err := os.Lstat(absPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return errors.NewInvalidRequest("path must not be a symlink")
	}

	return nil
}

// allowedExportDirs returns the exports directory plus every absolute
// allowed_paths entry, cleaned. Existing symlinked entries are resolved.
func allowedExportDirs(cfg *config.Config) ([]string, error) {
	defaultDir, err := exportsDir(cfg)
	if err != nil {
		return nil, err
	}
	dirs := []string{defaultDir}

	if cfg != nil {
		for _, p := range cfg.AllowedPaths {
			if filepath.IsAbs(p) {
				dirs = append(dirs, filepath.Clean(p))
			}
		}
	}

	result := make([]string, 0, len(dirs))
	for _, d := range dirs {
		abs, err := filepath.Abs(filepath.Clean(d))
		if err != nil {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid allowed path: %v", err))
		}
		if info, err := os.Lstat(abs); err == nil && info.Mode()&os.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(abs)
			if err != nil {
				return nil, errors.NewInvalidRequest(fmt.Sprintf("cannot resolve symlink in allowed path: %v", err))
			}
			abs = resolved
		}
		result = append(result, abs)
	}

	return result, nil
}

// exportsDir is cfg.ExportsDir, or <base dir>/exports when unset.
func exportsDir(cfg *config.Config) (string, error) {
	if cfg != nil && cfg.ExportsDir != "" {
		return cfg.ExportsDir, nil
	}
	base, err := config.BaseDir()
	if err != nil {
		return "", errors.NewInternal(err)
	}
	return filepath.Join(base, "exports"), nil
}

// isDirectlyInAllowedDir checks if parentDir exactly matches one of the allowed directories.
// This is stricter than "is under": the file must be directly in the allowed dir.
func isDirectlyInAllowedDir(parentDir string, allowedDirs []string) bool {
	parentDir = filepath.Clean(parentDir)
	for _, dir := range allowedDirs {
		if parentDir == filepath.Clean(dir) {
			return true
		}
	}
	return false
}

// containsTraversal checks if path contains ".." directory traversal.
func containsTraversal(path string) bool {
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if part == ".." {
			return true
		}
	}
	// Forward slashes count on every platform (user input).
	if filepath.Separator != '/' {
		for _, part := range strings.Split(path, "/") {
			if part == ".." {
				return true
			}
		}
	}
	return false
}

// SanitizeForFilename makes s safe to embed in a filename.
func SanitizeForFilename(s string) string {
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, "..", "-")
	s = strings.ReplaceAll(s, " ", "-")

	var result strings.Builder
	for _, r := range s {
		if r >= 32 && r != 127 {
			result.WriteRune(r)
		}
	}
	s = result.String()

	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	s = strings.Trim(s, "-.")

	if s == "" {
		s = "trip"
	}
	return s
}
