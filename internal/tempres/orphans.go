package tempres

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SweepOrphans removes files created by previous processes: anything in a
// candidate directory carrying the manager's "bc1-" name prefix and older
// than maxAge. Files tracked by this manager are left to the normal cleanup
// paths. It returns the number of files removed.
func (m *Manager) SweepOrphans(maxAge time.Duration) int {
	cutoff := m.now().Add(-maxAge)

	m.mu.Lock()
	tracked := make(map[string]struct{}, len(m.trackers))
	for path := range m.trackers {
		tracked[path] = struct{}{}
	}
	m.mu.Unlock()

	removed := 0
	for _, dir := range m.candidateDirs() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasPrefix(entry.Name(), "bc1-") {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			if _, ok := tracked[path]; ok {
				continue
			}
			info, err := entry.Info()
			if err != nil || info.ModTime().After(cutoff) {
				continue
			}
			if err := os.Remove(path); err != nil {
				m.logger.Warn("failed to remove orphaned temp file", "path", path, "error", err)
				continue
			}
			m.logger.Debug("removed orphaned temp file", "path", path)
			removed++
		}
	}
	return removed
}
