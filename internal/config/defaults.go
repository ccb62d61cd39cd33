package config

const (
	defaultCacheDir      = "~/.cache/bc1"
	defaultLogDir        = "~/.local/share/bc1/logs"
	defaultCatalogDB     = "~/.local/share/bc1/catalog.db"
	defaultSweepInterval = 300
	defaultMaxAge        = 3600
	defaultGraceMillis   = 100
	defaultProber        = "native"
	defaultFFprobeBinary = "ffprobe"
	defaultMinAudioBytes = 1000
	defaultParallelism   = 4
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CacheDir:  defaultCacheDir,
			LogDir:    defaultLogDir,
			CatalogDB: defaultCatalogDB,
		},
		Temp: Temp{
			SweepIntervalSeconds: defaultSweepInterval,
			MaxAgeSeconds:        defaultMaxAge,
			GraceIntervalMillis:  defaultGraceMillis,
		},
		Integrity: Integrity{
			Prober:        defaultProber,
			FFprobeBinary: defaultFFprobeBinary,
			MinAudioBytes: defaultMinAudioBytes,
		},
		Index: Index{
			Parallelism: defaultParallelism,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
