// Package testsupport provides shared fixtures for package tests: isolated
// configs, temp-resource managers, and canned bundles.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"bc1/internal/bundle"
	"bc1/internal/config"
	"bc1/internal/tempres"
)

// NewConfig produces a config whose paths all live under the test's temp
// directory.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.TempDir = filepath.Join(base, "tmp")
	cfg.Paths.CacheDir = filepath.Join(base, "cache")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.CatalogDB = filepath.Join(base, "catalog.db")

	if err := os.MkdirAll(cfg.Paths.TempDir, 0o755); err != nil {
		t.Fatalf("mkdir temp dir: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// NewTempManager returns a manager confined to a per-test directory, with
// shutdown cleanup registered on test exit.
func NewTempManager(t testing.TB) *tempres.Manager {
	t.Helper()

	m := tempres.NewManager(tempres.Options{
		CandidateDirs: []string{t.TempDir()},
		Grace:         time.Millisecond,
	})
	t.Cleanup(func() { m.CleanupAll() })
	return m
}

// DemoBundleBytes builds a complete generation-2 archive with a synthesized
// WAV payload, three segments, and metadata.
func DemoBundleBytes(t testing.TB) []byte {
	t.Helper()

	data, err := bundle.NewWriter(nil).Create(
		bundle.DemoAudioWAV(1.0),
		"wav",
		bundle.DemoSegments(),
		bundle.DemoMetadata(),
	)
	if err != nil {
		t.Fatalf("build demo bundle: %v", err)
	}
	return data
}

// WriteDemoBundle materializes a demo archive at path.
func WriteDemoBundle(t testing.TB, path string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, DemoBundleBytes(t), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
