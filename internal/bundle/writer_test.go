package bundle_test

import (
	"archive/zip"
	"bytes"
	"testing"

	"bc1/internal/bundle"
	"bc1/internal/manifest"
	"bc1/internal/testsupport"
)

func TestWriterMemberOrderAndNaming(t *testing.T) {
	archive, err := bundle.NewWriter(nil).Create(
		[]byte("audio"), "opus",
		[]bundle.TranscriptSegment{{StartTime: 0, EndTime: 1, Text: "x", Confidence: 1}},
		map[string]any{"title": "t"},
	)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		manifest.MemberName,
		"audio/audio.opus",
		manifest.DefaultTranscriptMember,
		manifest.DefaultMetadataMember,
	}
	if len(zr.File) != len(want) {
		t.Fatalf("member count = %d, want %d", len(zr.File), len(want))
	}
	for i, f := range zr.File {
		if f.Name != want[i] {
			t.Fatalf("member %d = %s, want %s", i, f.Name, want[i])
		}
	}
}

func TestWriterOmitsMetadataMemberWhenNil(t *testing.T) {
	archive, err := bundle.NewWriter(nil).Create([]byte("audio"), "mp3", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range zr.File {
		if f.Name == manifest.DefaultMetadataMember {
			t.Fatal("metadata member should be absent when metadata is nil")
		}
	}
}

func TestWriterRejectsEmptyAudio(t *testing.T) {
	if _, err := bundle.NewWriter(nil).Create(nil, "opus", nil, nil); err == nil {
		t.Fatal("expected error for empty audio payload")
	}
}

func TestWriterEmitsGeneration2Manifest(t *testing.T) {
	temp := testsupport.NewTempManager(t)
	loader := bundle.NewLoader(temp, nil)

	archive, err := bundle.NewWriter(nil).Create([]byte("payload"), "flac", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := loader.OpenBytes(archive)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Cleanup()

	if b.Manifest.Generation() != 2 {
		t.Fatalf("generation = %d, want 2", b.Manifest.Generation())
	}
	if b.Manifest.Version != manifest.CurrentVersion {
		t.Fatalf("version = %q", b.Manifest.Version)
	}
	if b.Manifest.ChecksumAudio == "" || b.Manifest.ChecksumTranscript == "" {
		t.Fatal("writer must compute both checksums")
	}
	if b.Manifest.Encrypted {
		t.Fatal("writer must not set the encrypted flag")
	}
}

func TestCreateFile(t *testing.T) {
	path := t.TempDir() + "/out.bc1"
	err := bundle.NewWriter(nil).CreateFile(path, []byte("audio"), "wav", bundle.DemoSegments(), nil)
	if err != nil {
		t.Fatalf("CreateFile: %v", err)
	}

	temp := testsupport.NewTempManager(t)
	b, err := bundle.NewLoader(temp, nil).Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer b.Cleanup()
	if len(b.Segments) != 3 {
		t.Fatalf("segment count = %d", len(b.Segments))
	}
}
