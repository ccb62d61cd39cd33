package catalog

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"bc1/internal/bundle"
	"bc1/internal/logging"
)

// Scanner walks a directory tree, opens every bundle it finds, and records
// the results in the catalog.
type Scanner struct {
	store       *Store
	loader      *bundle.Loader
	parallelism int
	logger      *slog.Logger
}

// Summary reports the outcome of one scan.
type Summary struct {
	Indexed int
	Skipped int
	Failed  int
}

// NewScanner wires a scanner to a catalog store and bundle loader.
func NewScanner(store *Store, loader *bundle.Loader, parallelism int, logger *slog.Logger) *Scanner {
	if parallelism < 1 {
		parallelism = 1
	}
	return &Scanner{
		store:       store,
		loader:      loader,
		parallelism: parallelism,
		logger:      logging.OrNop(logger),
	}
}

// Scan indexes every .bc1 file under root. Bundles whose size and mtime
// match the existing record are skipped. Individual bundle failures are
// logged and counted but do not abort the walk.
func (s *Scanner) Scan(ctx context.Context, root string) (Summary, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".bc1") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return Summary{}, fmt.Errorf("walk %s: %w", root, err)
	}

	var (
		mu      sync.Mutex
		summary Summary
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.parallelism)

	for _, path := range paths {
		group.Go(func() error {
			outcome, err := s.indexOne(groupCtx, path)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				summary.Failed++
				s.logger.Warn("failed to index bundle", "path", path, "error", err)
			case outcome == outcomeSkipped:
				summary.Skipped++
			default:
				summary.Indexed++
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return summary, err
	}

	s.logger.Info("scan complete",
		"root", root,
		"indexed", summary.Indexed,
		"skipped", summary.Skipped,
		"failed", summary.Failed)
	return summary, nil
}

type scanOutcome int

const (
	outcomeIndexed scanOutcome = iota
	outcomeSkipped
)

func (s *Scanner) indexOne(ctx context.Context, path string) (scanOutcome, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return outcomeIndexed, fmt.Errorf("resolve path: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return outcomeIndexed, fmt.Errorf("stat bundle: %w", err)
	}

	refresh, err := s.store.NeedsRefresh(ctx, abs, info.Size(), info.ModTime().UTC())
	if err != nil {
		return outcomeIndexed, err
	}
	if !refresh {
		return outcomeSkipped, nil
	}

	b, err := s.loader.Open(abs)
	if err != nil {
		return outcomeIndexed, err
	}
	defer b.Cleanup()

	rec := Record{
		Path:            abs,
		Title:           bundleTitle(b.Metadata, abs),
		SizeBytes:       info.Size(),
		ModTime:         info.ModTime().UTC(),
		DurationSeconds: bundleDuration(b),
		SegmentCount:    len(b.Segments),
		MetadataPresent: b.Metadata != nil,
		ChecksumOK:      b.ChecksumOK,
		Generation:      b.Manifest.Generation(),
		IndexedAt:       time.Now().UTC(),
	}

	segments := make([]SegmentRow, 0, len(b.Segments))
	for i, seg := range b.Segments {
		segments = append(segments, SegmentRow{
			Seq:       i,
			StartTime: seg.StartTime,
			EndTime:   seg.EndTime,
			Speaker:   seg.Speaker,
			Text:      seg.Text,
		})
	}

	if err := s.store.Upsert(ctx, rec, segments); err != nil {
		return outcomeIndexed, err
	}
	return outcomeIndexed, nil
}

// bundleDuration prefers an explicit metadata duration, falling back to the
// end of the last transcript segment.
func bundleDuration(b *bundle.Bundle) float64 {
	if d, ok := b.Metadata["duration"].(float64); ok && d > 0 {
		return d
	}
	var max float64
	for _, seg := range b.Segments {
		if seg.EndTime > max {
			max = seg.EndTime
		}
	}
	return max
}

// bundleTitle prefers the metadata title, falling back to a cleaned-up form
// of the filename.
func bundleTitle(metadata map[string]any, path string) string {
	if title, ok := metadata["title"].(string); ok && strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title)
	}
	return inferTitle(filepath.Base(path))
}

var titleCaser = cases.Title(language.English)

func inferTitle(filename string) string {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	name = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(name)
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return filename
	}
	return titleCaser.String(name)
}
