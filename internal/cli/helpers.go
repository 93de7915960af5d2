package cli

import (
	"context"
	"fmt"

	"github.com/glorpus-work/wikidump/internal/logger"
	"github.com/glorpus-work/wikidump/pkg/cache"
	"github.com/glorpus-work/wikidump/pkg/config"
	"github.com/glorpus-work/wikidump/pkg/download"
	"github.com/glorpus-work/wikidump/pkg/dump"
	indexhttp "github.com/glorpus-work/wikidump/pkg/http"
)

// These variables will be set by the main package
var (
	ConfigPath *string
	Verbose    *bool
	MirrorKey  *string
	CacheDir   *string
	NoCache    *bool
	LogFormat  *string
)

func getConfigPath() string {
	if ConfigPath != nil && *ConfigPath != "" {
		return *ConfigPath
	}

	defaultPath, err := config.GetDefaultConfigPath()
	if err != nil {
		logger.Warn("Failed to get default config path, using defaults", logger.Fields{"error": err})
		return ""
	}
	return defaultPath
}

// loadConfig reads the configuration file, applies environment and flag overrides
// and configures logging.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if path := getConfigPath(); path != "" {
		var err error
		cfg, err = config.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if MirrorKey != nil && *MirrorKey != "" {
		cfg.Mirror = config.MirrorConfig{Key: *MirrorKey}
	}
	if CacheDir != nil && *CacheDir != "" {
		cfg.Settings.CacheDir = *CacheDir
	}
	if NoCache != nil && *NoCache {
		cfg.Settings.DisableCache = true
	}
	if Verbose != nil && *Verbose {
		cfg.Settings.LogLevel = "debug"
	}
	if LogFormat != nil && *LogFormat != "" {
		cfg.Settings.OutputFormat = *LogFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	setupLogging(cfg)
	return cfg, nil
}

func newIndexStore(cfg *config.Config) *cache.Store {
	return cache.NewStore(cfg.Settings.CacheDir)
}

// newDumpClient loads the index of the configured mirror.
func newDumpClient(ctx context.Context, cfg *config.Config, downloads download.Downloader, progress indexhttp.ProgressFunc) (*dump.Client, error) {
	m, err := cfg.ResolveMirror()
	if err != nil {
		return nil, err
	}

	useCache := !cfg.Settings.DisableCache
	return dump.New(ctx, dump.Options{
		Mirror:        m,
		Store:         newIndexStore(cfg),
		UseCache:      useCache,
		CacheIndex:    useCache && !cfg.Settings.DisableCacheWrite,
		ClearExpired:  !cfg.Settings.KeepExpiredCaches,
		Index:         indexhttp.NewIndexClient(cfg.Settings.IndexTimeout, cfg.Settings.UserAgent),
		Downloads:     downloads,
		IndexProgress: progress,
	})
}
