package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileVerified(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payload.bin")
	data := []byte("verified payload bytes")

	if err := WriteFileVerified(path, data); err != nil {
		t.Fatalf("WriteFileVerified: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(data) {
		t.Fatalf("content mismatch: got %q", got)
	}
}

func TestWriteFileVerifiedEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.bin")
	if err := WriteFileVerified(path, nil); err != nil {
		t.Fatalf("WriteFileVerified with empty data: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 0 {
		t.Fatalf("expected empty file, got %d bytes", info.Size())
	}
}

func TestWriteFileVerifiedUnwritableDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	if err := WriteFileVerified(filepath.Join(dir, "x.bin"), []byte("data")); err == nil {
		t.Fatal("expected error writing into missing directory")
	}
}

func TestCopyFileVerified(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")

	if err := os.WriteFile(src, []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CopyFileVerified(src, dst); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "payload" {
		t.Fatalf("content mismatch: got %q", got)
	}
}
