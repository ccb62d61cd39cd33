package integrity

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"bc1/internal/bundle"
	"bc1/internal/logging"
	"bc1/internal/probe"
)

// AudioReport is the result of validating one audio resource.
type AudioReport struct {
	Valid      bool
	Error      string
	Duration   float64 // seconds
	SampleRate int
	Channels   int
	Size       int64
	Codec      string
}

// BundleReport is the result of validating a full bundle end-to-end.
type BundleReport struct {
	Valid            bool
	Error            string
	TotalSize        int64
	AudioSize        int64
	SegmentCount     int
	MetadataPresent  bool
	ChecksumOK       bool
	InvertedSegments int
	Audio            AudioReport
}

// Checker validates media through a probe and the bundle loader.
type Checker struct {
	prober   probe.Prober
	loader   *bundle.Loader
	minBytes int64
	logger   *slog.Logger
}

// NewChecker constructs a Checker. minBytes is the size floor below which an
// audio payload is considered truncated.
func NewChecker(prober probe.Prober, loader *bundle.Loader, minBytes int64, logger *slog.Logger) *Checker {
	return &Checker{
		prober:   prober,
		loader:   loader,
		minBytes: minBytes,
		logger:   logging.OrNop(logger),
	}
}

// ValidateAudio checks a standalone audio resource on disk.
func (c *Checker) ValidateAudio(ctx context.Context, path string) AudioReport {
	var report AudioReport

	info, err := os.Stat(path)
	if err != nil {
		report.Error = fmt.Sprintf("file does not exist: %v", err)
		return report
	}
	report.Size = info.Size()
	if report.Size < c.minBytes {
		report.Error = fmt.Sprintf("file too small: %d bytes (floor %d)", report.Size, c.minBytes)
		return report
	}

	streamInfo, err := c.prober.Probe(ctx, path)
	if err != nil {
		report.Error = fmt.Sprintf("decode probe failed: %v", err)
		return report
	}
	report.Duration = streamInfo.Duration.Seconds()
	report.SampleRate = streamInfo.SampleRate
	report.Channels = streamInfo.Channels
	report.Codec = streamInfo.Codec

	if report.Duration <= 0 {
		report.Error = "invalid duration"
		return report
	}
	if report.SampleRate <= 0 {
		report.Error = "invalid sample rate"
		return report
	}

	// Headers can claim audio the file does not hold; require real samples.
	if err := c.prober.ShortDecode(ctx, path); err != nil {
		report.Error = fmt.Sprintf("short decode failed: %v", err)
		return report
	}

	report.Valid = true
	return report
}

// ValidateBundle opens the archive for real, validates the extracted audio
// member, and cleans up the bundle regardless of outcome. Validation never
// leaks a temp file.
func (c *Checker) ValidateBundle(ctx context.Context, path string) BundleReport {
	var report BundleReport

	info, err := os.Stat(path)
	if err != nil {
		report.Error = fmt.Sprintf("bundle does not exist: %v", err)
		return report
	}
	report.TotalSize = info.Size()
	if report.TotalSize < c.minBytes {
		report.Error = fmt.Sprintf("bundle too small: %d bytes (floor %d)", report.TotalSize, c.minBytes)
		return report
	}

	b, err := c.loader.Open(path)
	if err != nil {
		report.Error = fmt.Sprintf("open failed: %v", err)
		return report
	}
	defer b.Cleanup()

	report.SegmentCount = len(b.Segments)
	report.MetadataPresent = b.Metadata != nil
	report.ChecksumOK = b.ChecksumOK
	for _, seg := range b.Segments {
		if seg.StartTime > seg.EndTime {
			report.InvertedSegments++
		}
	}
	if audioInfo, err := os.Stat(b.AudioFile); err == nil {
		report.AudioSize = audioInfo.Size()
	}

	report.Audio = c.ValidateAudio(ctx, b.AudioFile)
	if !report.Audio.Valid {
		report.Error = fmt.Sprintf("audio invalid: %s", report.Audio.Error)
		return report
	}
	if !report.ChecksumOK {
		report.Error = "checksum mismatch"
		return report
	}
	if report.InvertedSegments > 0 {
		c.logger.Warn("bundle has inverted segment times",
			"path", path, "count", report.InvertedSegments)
	}

	report.Valid = true
	return report
}
