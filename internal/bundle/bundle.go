package bundle

import (
	"sync"

	"bc1/internal/manifest"
	"bc1/internal/tempres"
)

// Bundle is the loader's output: a materialized audio path, the parsed
// transcript, optional metadata, and the manifest that governed the load.
// The caller owns the bundle exclusively until Cleanup is invoked.
type Bundle struct {
	// AudioFile is the temp resource holding the extracted audio payload.
	// Consumers should MarkLocked it on the owning manager for the duration
	// of playback.
	AudioFile string
	Segments  []TranscriptSegment
	Metadata  map[string]any
	Manifest  manifest.Manifest

	// ChecksumOK is false when a manifest checksum was present and did not
	// match the member bytes. The load still succeeds; validation treats
	// this as a failure.
	ChecksumOK bool

	cleanupFiles []string
	temp         *tempres.Manager
	cleanupOnce  sync.Once
}

// Temp returns the manager that owns the bundle's temp resources, for
// consumers that need to lock the audio path during use.
func (b *Bundle) Temp() *tempres.Manager {
	return b.temp
}

// Cleanup releases every temp path the load created. It is idempotent and
// best-effort: a locked or busy file is left for the manager's sweep.
func (b *Bundle) Cleanup() {
	b.cleanupOnce.Do(func() {
		for _, path := range b.cleanupFiles {
			if b.temp == nil {
				continue
			}
			b.temp.MarkUnlocked(path)
			b.temp.Cleanup(path)
		}
	})
}

// SegmentAt returns the first segment whose time range contains the given
// position in seconds, or nil.
func (b *Bundle) SegmentAt(seconds float64) *TranscriptSegment {
	for i := range b.Segments {
		if b.Segments[i].StartTime <= seconds && seconds <= b.Segments[i].EndTime {
			return &b.Segments[i]
		}
	}
	return nil
}
