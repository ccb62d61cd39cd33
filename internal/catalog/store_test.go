package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleRecord(path string) Record {
	return Record{
		Path:            path,
		Title:           "Weekly Review",
		SizeBytes:       4096,
		ModTime:         time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		DurationSeconds: 61.5,
		SegmentCount:    2,
		MetadataPresent: true,
		ChecksumOK:      true,
		Generation:      2,
		IndexedAt:       time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
}

func TestUpsertAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := sampleRecord("/bundles/review.bc1")
	segments := []SegmentRow{
		{Seq: 0, StartTime: 0, EndTime: 30, Speaker: "alice", Text: "opening remarks"},
		{Seq: 1, StartTime: 30, EndTime: 61.5, Speaker: "bob", Text: "closing summary"},
	}
	if err := store.Upsert(ctx, rec, segments); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := store.GetByPath(ctx, rec.Path)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != rec.Title || got.SizeBytes != rec.SizeBytes || got.SegmentCount != 2 {
		t.Errorf("record mismatch: %+v", got)
	}
	if !got.ModTime.Equal(rec.ModTime) {
		t.Errorf("mtime = %v, want %v", got.ModTime, rec.ModTime)
	}
	if !got.MetadataPresent || !got.ChecksumOK {
		t.Errorf("flags not preserved: %+v", got)
	}
}

func TestGetByPathNotIndexed(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetByPath(context.Background(), "/missing.bc1")
	if !errors.Is(err, ErrNotIndexed) {
		t.Fatalf("err = %v, want ErrNotIndexed", err)
	}
}

func TestUpsertReplacesSegments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := sampleRecord("/bundles/review.bc1")
	first := []SegmentRow{{Seq: 0, Text: "stale text", EndTime: 1}}
	if err := store.Upsert(ctx, rec, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	rec.SegmentCount = 1
	second := []SegmentRow{{Seq: 0, Text: "fresh text", EndTime: 2}}
	if err := store.Upsert(ctx, rec, second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if hits, err := store.Search(ctx, "stale", 10); err != nil {
		t.Fatalf("search: %v", err)
	} else if len(hits) != 0 {
		t.Errorf("stale segments survived replacement: %+v", hits)
	}
	if hits, err := store.Search(ctx, "fresh", 10); err != nil {
		t.Fatalf("search: %v", err)
	} else if len(hits) != 1 {
		t.Errorf("fresh hits = %d, want 1", len(hits))
	}
}

func TestNeedsRefresh(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := sampleRecord("/bundles/review.bc1")
	if err := store.Upsert(ctx, rec, nil); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	cases := []struct {
		name string
		size int64
		mod  time.Time
		want bool
	}{
		{"unchanged", rec.SizeBytes, rec.ModTime, false},
		{"size changed", rec.SizeBytes + 1, rec.ModTime, true},
		{"mtime changed", rec.SizeBytes, rec.ModTime.Add(time.Second), true},
	}
	for _, tc := range cases {
		got, err := store.NeedsRefresh(ctx, rec.Path, tc.size, tc.mod)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got != tc.want {
			t.Errorf("%s: NeedsRefresh = %v, want %v", tc.name, got, tc.want)
		}
	}

	if got, err := store.NeedsRefresh(ctx, "/never-seen.bc1", 1, time.Now()); err != nil || !got {
		t.Errorf("unseen path: got %v, %v; want true, nil", got, err)
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := sampleRecord("/bundles/review.bc1")
	segments := []SegmentRow{
		{Seq: 0, StartTime: 0, EndTime: 5, Speaker: "alice", Text: "The Quarterly Budget looks healthy"},
		{Seq: 1, StartTime: 5, EndTime: 10, Speaker: "bob", Text: "no relevant content here"},
	}
	if err := store.Upsert(ctx, rec, segments); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	hits, err := store.Search(ctx, "quarterly budget", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("hits = %d, want 1", len(hits))
	}
	if hits[0].BundlePath != rec.Path || hits[0].Seq != 0 {
		t.Errorf("unexpected hit: %+v", hits[0])
	}
	if hits[0].Title != rec.Title {
		t.Errorf("title = %q, want %q", hits[0].Title, rec.Title)
	}
}

func TestSearchRespectsLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := sampleRecord("/bundles/review.bc1")
	var segments []SegmentRow
	for i := 0; i < 10; i++ {
		segments = append(segments, SegmentRow{Seq: i, Text: "repeated phrase", EndTime: float64(i + 1)})
	}
	if err := store.Upsert(ctx, rec, segments); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	hits, err := store.Search(ctx, "repeated", 3)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 3 {
		t.Errorf("hits = %d, want 3", len(hits))
	}
}

func TestRemoveCascadesToSegments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := sampleRecord("/bundles/review.bc1")
	segments := []SegmentRow{{Seq: 0, Text: "doomed segment", EndTime: 1}}
	if err := store.Upsert(ctx, rec, segments); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := store.Remove(ctx, rec.Path); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if _, err := store.GetByPath(ctx, rec.Path); !errors.Is(err, ErrNotIndexed) {
		t.Errorf("record survived removal: %v", err)
	}
	if hits, err := store.Search(ctx, "doomed", 10); err != nil {
		t.Fatalf("search: %v", err)
	} else if len(hits) != 0 {
		t.Errorf("segments survived removal: %+v", hits)
	}
}

func TestListOrderedByPath(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, path := range []string{"/b/second.bc1", "/a/first.bc1"} {
		rec := sampleRecord(path)
		if err := store.Upsert(ctx, rec, nil); err != nil {
			t.Fatalf("upsert %s: %v", path, err)
		}
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].Path != "/a/first.bc1" || records[1].Path != "/b/second.bc1" {
		t.Errorf("unexpected order: %q, %q", records[0].Path, records[1].Path)
	}
}
