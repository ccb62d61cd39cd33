package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"bc1/internal/bundle"
	"bc1/internal/config"
	"bc1/internal/integrity"
	"bc1/internal/logging"
	"bc1/internal/probe"
	"bc1/internal/tempres"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger

	tempMu sync.Mutex
	temp   *tempres.Manager
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) loggerValue() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		})
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

// tempManager builds the process temp-resource manager on first use.
// shutdown reclaims everything it still tracks.
func (c *commandContext) tempManager() (*tempres.Manager, error) {
	c.tempMu.Lock()
	defer c.tempMu.Unlock()

	if c.temp != nil {
		return c.temp, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	c.temp = tempres.NewManager(tempres.Options{
		PrimaryDir: cfg.Paths.TempDir,
		Grace:      cfg.GraceInterval(),
		Logger:     c.loggerValue(),
	})
	return c.temp, nil
}

func (c *commandContext) shutdown() {
	c.tempMu.Lock()
	defer c.tempMu.Unlock()
	if c.temp != nil {
		c.temp.CleanupAll()
		c.temp = nil
	}
}

func (c *commandContext) newLoader() (*bundle.Loader, error) {
	temp, err := c.tempManager()
	if err != nil {
		return nil, err
	}
	return bundle.NewLoader(temp, c.loggerValue()), nil
}

func (c *commandContext) newChecker() (*integrity.Checker, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	loader, err := c.newLoader()
	if err != nil {
		return nil, err
	}

	var prober probe.Prober
	switch cfg.Integrity.Prober {
	case "ffprobe":
		prober = probe.NewFFprobe(cfg.Integrity.FFprobeBinary)
	case "native":
		prober = probe.NewNative()
	default:
		return nil, fmt.Errorf("integrity.prober: unsupported value %q", cfg.Integrity.Prober)
	}

	return integrity.NewChecker(prober, loader, cfg.Integrity.MinAudioBytes, c.loggerValue()), nil
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
