package tempres

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// candidateDirs returns the ordered list of directories Create tries. An
// explicit CandidateDirs option replaces the chain; a PrimaryDir option is
// tried first. Unwritable entries are filtered here so Create only attempts
// plausible locations, but a directory passing this check can still fail at
// write time (disk full, quota) and falls through to the next candidate.
func (m *Manager) candidateDirs() []string {
	if len(m.candidates) > 0 {
		return withPrimary(m.primary, m.candidates)
	}

	var dirs []string

	if d := os.TempDir(); writableDir(d) {
		dirs = append(dirs, d)
	}

	if home, err := os.UserHomeDir(); err == nil {
		userTemp := filepath.Join(home, ".cache", "bc1", "tmp")
		if err := os.MkdirAll(userTemp, 0o755); err == nil && writableDir(userTemp) {
			dirs = append(dirs, userTemp)
		}
	}

	projectTemp := filepath.Join(".", "temp")
	if err := os.MkdirAll(projectTemp, 0o755); err == nil && writableDir(projectTemp) {
		dirs = append(dirs, projectTemp)
	}

	// Current directory as last resort.
	if writableDir(".") {
		dirs = append(dirs, ".")
	}

	return withPrimary(m.primary, dirs)
}

func withPrimary(primary string, dirs []string) []string {
	if primary == "" {
		return dirs
	}
	out := make([]string, 0, len(dirs)+1)
	out = append(out, primary)
	for _, d := range dirs {
		if d != primary {
			out = append(out, d)
		}
	}
	return out
}

func writableDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}
	return unix.Access(path, unix.W_OK|unix.X_OK) == nil
}
