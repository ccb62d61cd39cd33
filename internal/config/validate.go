package config

import "fmt"

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.Temp.SweepIntervalSeconds <= 0 {
		return fmt.Errorf("temp.sweep_interval_seconds must be positive, got %d", c.Temp.SweepIntervalSeconds)
	}
	if c.Temp.MaxAgeSeconds <= 0 {
		return fmt.Errorf("temp.max_age_seconds must be positive, got %d", c.Temp.MaxAgeSeconds)
	}
	if c.Temp.GraceIntervalMillis < 0 {
		return fmt.Errorf("temp.grace_interval_ms must not be negative, got %d", c.Temp.GraceIntervalMillis)
	}
	switch c.Integrity.Prober {
	case "native", "ffprobe":
	default:
		return fmt.Errorf("integrity.prober must be \"native\" or \"ffprobe\", got %q", c.Integrity.Prober)
	}
	if c.Integrity.MinAudioBytes < 0 {
		return fmt.Errorf("integrity.min_audio_bytes must not be negative, got %d", c.Integrity.MinAudioBytes)
	}
	if c.Index.Parallelism <= 0 {
		return fmt.Errorf("index.parallelism must be positive, got %d", c.Index.Parallelism)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	return nil
}
