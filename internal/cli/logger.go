package cli

import (
	"github.com/glorpus-work/wikidump/internal/logger"
	"github.com/glorpus-work/wikidump/pkg/config"
)

// setupLogging initializes the global logger from the configured level and format.
func setupLogging(cfg *config.Config) {
	logger.InitLogger(cfg.Settings.LogLevel, logger.OutputFormat(cfg.Settings.OutputFormat))
	logger.Debug("Configuration loaded", logger.Fields{
		"mirror":    cfg.Mirror.Key,
		"cache_dir": cfg.Settings.CacheDir,
		"no_cache":  cfg.Settings.DisableCache,
	})
}
