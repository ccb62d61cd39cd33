package tempres

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"bc1/internal/fileutil"
	"bc1/internal/logging"
)

// ErrNoWritableLocation is returned by Create when every candidate directory
// has been exhausted.
var ErrNoWritableLocation = errors.New("no writable temp location")

// Purpose describes why a temp resource exists.
type Purpose string

const (
	PurposeAudio      Purpose = "audio"
	PurposeTranscript Purpose = "transcript"
	PurposeCache      Purpose = "cache"
)

// tracker records the state of one temp resource. Trackers never leave the
// package; callers hold only the path string.
type tracker struct {
	path      string
	createdAt time.Time
	size      int64
	purpose   Purpose
	locked    bool
	attempts  uint32
}

// Options configures a Manager.
type Options struct {
	// PrimaryDir, when set, is tried before the default candidate chain.
	PrimaryDir string
	// CandidateDirs replaces the default candidate chain entirely. Intended
	// for tests and unusual deployments.
	CandidateDirs []string
	// Grace is the pause before a tracked file is deleted, letting the last
	// reader release its OS handle. Defaults to 100ms.
	Grace  time.Duration
	Logger *slog.Logger
}

// Manager tracks temp resources and reclaims them.
type Manager struct {
	mu       sync.Mutex
	trackers map[string]*tracker

	primary    string
	candidates []string
	grace      time.Duration
	logger     *slog.Logger
	now        func() time.Time

	sweepMu   sync.Mutex
	sweepStop chan struct{}
	sweepDone chan struct{}
}

// NewManager constructs a Manager. The zero Options value is usable.
func NewManager(opts Options) *Manager {
	grace := opts.Grace
	if grace <= 0 {
		grace = 100 * time.Millisecond
	}
	return &Manager{
		trackers:   make(map[string]*tracker),
		primary:    opts.PrimaryDir,
		candidates: append([]string(nil), opts.CandidateDirs...),
		grace:      grace,
		logger:     logging.OrNop(opts.Logger),
		now:        time.Now,
	}
}

// Create writes data to a uniquely named file in the first candidate
// directory that accepts a verified write, registers a tracker for it
// (unlocked), and returns the path. It fails with ErrNoWritableLocation only
// after every candidate has been tried.
func (m *Manager) Create(data []byte, extension string, purpose Purpose) (string, error) {
	if len(data) == 0 {
		return "", errors.New("refusing to create empty temp resource")
	}
	if extension == "" {
		extension = "tmp"
	}

	var lastErr error
	for _, dir := range m.candidateDirs() {
		path := filepath.Join(dir, fmt.Sprintf("bc1-%s.%s", uuid.NewString(), extension))
		if err := fileutil.WriteFileVerified(path, data); err != nil {
			m.logger.Debug("temp write failed, trying next location",
				"dir", dir, "purpose", string(purpose), "error", err)
			lastErr = err
			continue
		}

		m.mu.Lock()
		m.trackers[path] = &tracker{
			path:      path,
			createdAt: m.now(),
			size:      int64(len(data)),
			purpose:   purpose,
		}
		m.mu.Unlock()

		m.logger.Debug("created temp resource",
			"path", path, "purpose", string(purpose), "size", len(data))
		return path, nil
	}

	if lastErr != nil {
		return "", fmt.Errorf("%w: last attempt: %w", ErrNoWritableLocation, lastErr)
	}
	return "", ErrNoWritableLocation
}

// MarkLocked flags a tracked resource as in use, shielding it from Cleanup
// and the background sweep. Unknown paths are ignored.
func (m *Manager) MarkLocked(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.trackers[path]; ok {
		t.locked = true
	}
}

// MarkUnlocked clears the in-use flag. Unknown paths are ignored.
func (m *Manager) MarkUnlocked(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.trackers[path]; ok {
		t.locked = false
	}
}

// Cleanup deletes one tracked resource. It refuses (returns false) while the
// tracker is locked. Deletion failures are not fatal: the attempt is counted
// and the file is retried on the next sweep.
func (m *Manager) Cleanup(path string) bool {
	m.mu.Lock()
	t, tracked := m.trackers[path]
	if tracked && t.locked {
		m.mu.Unlock()
		m.logger.Debug("cleanup deferred, resource locked", "path", path)
		return false
	}
	m.mu.Unlock()

	// Let a just-closed handle settle before unlinking.
	time.Sleep(m.grace)

	err := os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		m.mu.Lock()
		if t, ok := m.trackers[path]; ok {
			t.attempts++
		}
		m.mu.Unlock()
		m.logger.Warn("temp cleanup failed, will retry on next sweep", "path", path, "error", err)
		return false
	}

	m.mu.Lock()
	delete(m.trackers, path)
	m.mu.Unlock()

	m.logger.Debug("cleaned temp resource", "path", path)
	return true
}

// CleanupOld reclaims every unlocked resource older than maxAge and reports
// how many files were removed.
func (m *Manager) CleanupOld(maxAge time.Duration) int {
	cutoff := m.now().Add(-maxAge)

	m.mu.Lock()
	var stale []string
	for path, t := range m.trackers {
		if !t.locked && t.createdAt.Before(cutoff) {
			stale = append(stale, path)
		}
	}
	m.mu.Unlock()

	cleaned := 0
	for _, path := range stale {
		if m.Cleanup(path) {
			cleaned++
		}
	}
	if cleaned > 0 {
		m.logger.Info("swept aged temp resources", "count", cleaned)
	}
	return cleaned
}

// CleanupAll stops the background sweep, then force-deletes every tracked
// file ignoring lock state and clears the registry. This is the documented
// shutdown override: a consumer still holding a locked path loses it.
func (m *Manager) CleanupAll() int {
	m.StopBackgroundSweep()

	m.mu.Lock()
	paths := make([]string, 0, len(m.trackers))
	for path := range m.trackers {
		paths = append(paths, path)
	}
	m.mu.Unlock()

	cleaned := 0
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			m.logger.Debug("shutdown cleanup failed", "path", path, "error", err)
			continue
		}
		cleaned++
	}

	m.mu.Lock()
	m.trackers = make(map[string]*tracker)
	m.mu.Unlock()

	if cleaned > 0 {
		m.logger.Info("shutdown cleanup complete", "count", cleaned)
	}
	return cleaned
}

// TrackedCount reports how many resources are currently registered.
func (m *Manager) TrackedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.trackers)
}

// StartBackgroundSweep launches the sweep loop that reclaims unlocked
// resources older than maxAge every interval. Calling it while a sweep is
// already running is a no-op.
func (m *Manager) StartBackgroundSweep(interval, maxAge time.Duration) {
	m.sweepMu.Lock()
	defer m.sweepMu.Unlock()
	if m.sweepStop != nil {
		return
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	m.sweepStop = stop
	m.sweepDone = done

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				m.CleanupOld(maxAge)
			}
		}
	}()

	m.logger.Debug("background sweep started", "interval", interval, "max_age", maxAge)
}

// StopBackgroundSweep signals the sweep loop to exit and joins it with a
// bounded timeout so shutdown cannot race a concurrent sweep pass.
func (m *Manager) StopBackgroundSweep() {
	m.sweepMu.Lock()
	stop := m.sweepStop
	done := m.sweepDone
	m.sweepStop = nil
	m.sweepDone = nil
	m.sweepMu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		m.logger.Warn("background sweep did not stop within timeout")
	}
}
