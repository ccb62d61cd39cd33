package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bc1/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if cfg.Temp.SweepIntervalSeconds != 300 {
		t.Fatalf("unexpected default sweep interval: %d", cfg.Temp.SweepIntervalSeconds)
	}
	if cfg.Integrity.Prober != "native" {
		t.Fatalf("unexpected default prober: %q", cfg.Integrity.Prober)
	}
	if !filepath.IsAbs(cfg.Paths.CacheDir) {
		t.Fatalf("cache dir not expanded: %q", cfg.Paths.CacheDir)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
temp_dir = "` + dir + `"

[temp]
max_age_seconds = 120
grace_interval_ms = 5

[integrity]
prober = "ffprobe"
ffprobe_binary = "/opt/ffmpeg/bin/ffprobe"

[logging]
format = "json"
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved=%q exists=%v", resolved, exists)
	}
	if cfg.Temp.MaxAgeSeconds != 120 {
		t.Fatalf("max_age_seconds = %d", cfg.Temp.MaxAgeSeconds)
	}
	if cfg.GraceInterval().Milliseconds() != 5 {
		t.Fatalf("grace interval = %s", cfg.GraceInterval())
	}
	if cfg.Integrity.Prober != "ffprobe" {
		t.Fatalf("prober = %q", cfg.Integrity.Prober)
	}
	if cfg.Paths.TempDir != dir {
		t.Fatalf("temp_dir = %q", cfg.Paths.TempDir)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"zero sweep", func(c *config.Config) { c.Temp.SweepIntervalSeconds = 0 }, "sweep_interval_seconds"},
		{"negative age", func(c *config.Config) { c.Temp.MaxAgeSeconds = -1 }, "max_age_seconds"},
		{"bad prober", func(c *config.Config) { c.Integrity.Prober = "librosa" }, "prober"},
		{"zero parallelism", func(c *config.Config) { c.Index.Parallelism = 0 }, "parallelism"},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "yaml" }, "logging.format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.WriteSample(path); err != nil {
		t.Fatalf("WriteSample: %v", err)
	}
	if err := config.WriteSample(path); err == nil {
		t.Fatal("expected error when overwriting existing config")
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("sample config should resolve")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config should validate: %v", err)
	}
}
