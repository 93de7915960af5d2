package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/glorpus-work/wikidump/pkg/errutils"
	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnv.
const (
	EnvFile         = "WIKIDUMP_ENV_FILE"
	EnvMirror       = "WIKIDUMP_MIRROR"
	EnvCacheDir     = "WIKIDUMP_CACHE_DIR"
	EnvDownloadDir  = "WIKIDUMP_DOWNLOAD_DIR"
	EnvLogLevel     = "WIKIDUMP_LOG_LEVEL"
	EnvUserAgent    = "WIKIDUMP_USER_AGENT"
	EnvIndexTimeout = "WIKIDUMP_INDEX_TIMEOUT"
	EnvChunkSize    = "WIKIDUMP_CHUNK_SIZE"
)

// loadEnvFiles loads WIKIDUMP_ENV_FILE when set, otherwise .env.local followed by .env.
// godotenv never overrides variables that are already set, so earlier files win.
func loadEnvFiles() error {
	if envFile := os.Getenv(EnvFile); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}

	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}

// ApplyEnv overrides configuration fields from WIKIDUMP_* environment variables
// and validates the result.
func (c *Config) ApplyEnv() error {
	if err := loadEnvFiles(); err != nil {
		return errutils.Wrap(errutils.ErrConfigEnv, err.Error())
	}

	if key, ok := os.LookupEnv(EnvMirror); ok && key != "" {
		c.Mirror = MirrorConfig{Key: key}
	}
	if dir, ok := os.LookupEnv(EnvCacheDir); ok {
		c.Settings.CacheDir = dir
	}
	if dir, ok := os.LookupEnv(EnvDownloadDir); ok {
		c.Settings.DownloadDir = dir
	}
	if level, ok := os.LookupEnv(EnvLogLevel); ok && level != "" {
		c.Settings.LogLevel = level
	}
	if agent, ok := os.LookupEnv(EnvUserAgent); ok && agent != "" {
		c.Settings.UserAgent = agent
	}
	if raw, ok := os.LookupEnv(EnvIndexTimeout); ok && raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", errutils.ErrConfigEnv, EnvIndexTimeout, raw, err)
		}
		c.Settings.IndexTimeout = timeout
	}
	if raw, ok := os.LookupEnv(EnvChunkSize); ok && raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", errutils.ErrConfigEnv, EnvChunkSize, raw, err)
		}
		c.Settings.ChunkSize = size
	}

	if err := c.Validate(); err != nil {
		return fmt.Errorf("%w: %w", errutils.ErrConfigEnv, err)
	}
	return nil
}
