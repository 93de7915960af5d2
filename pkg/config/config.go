// Package config provides configuration management for wikidump.
// It handles loading, validating and saving the YAML configuration file, selecting the
// dump mirror and applying environment overrides on top of the file.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glorpus-work/wikidump/internal/version"
	"github.com/glorpus-work/wikidump/pkg/errutils"
	"github.com/glorpus-work/wikidump/pkg/fsutil"
	"github.com/glorpus-work/wikidump/pkg/mirror"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// Mirror selection
	Mirror MirrorConfig `yaml:"mirror"`

	// General settings
	Settings Settings `yaml:"settings"`
}

// MirrorConfig selects the mirror the index and files are fetched from.
// Key picks a built-in mirror. Name and IndexURL together define a custom one and take precedence.
type MirrorConfig struct {
	Key      string `yaml:"key,omitempty"`
	Name     string `yaml:"name,omitempty"`
	IndexURL string `yaml:"index_url,omitempty"`
}

// HookScripts holds paths of tengo scripts run when a download stage completes.
type HookScripts struct {
	// Dir is scanned for <hook-type>.tengo files.
	Dir                string `yaml:"dir,omitempty"`
	DownloadComplete   string `yaml:"download_complete,omitempty"`
	DecompressComplete string `yaml:"decompress_complete,omitempty"`
}

// Settings represents general application settings.
type Settings struct {
	// Cache settings
	CacheDir          string `yaml:"cache_dir,omitempty"`
	DisableCache      bool   `yaml:"disable_cache"`
	DisableCacheWrite bool   `yaml:"disable_cache_write"`
	KeepExpiredCaches bool   `yaml:"keep_expired_caches"`

	// Download settings
	DownloadDir string `yaml:"download_dir,omitempty"`
	ChunkSize   int    `yaml:"chunk_size"`

	// Network settings
	IndexTimeout time.Duration `yaml:"index_timeout"`
	UserAgent    string        `yaml:"user_agent,omitempty"`
	MetricsAddr  string        `yaml:"metrics_addr,omitempty"`

	// Hook scripts
	Hooks HookScripts `yaml:"hooks,omitempty"`

	// Output settings
	OutputFormat string `yaml:"output_format"` // text, json
	LogLevel     string `yaml:"log_level"`     // debug, info, warn, error
}

// Default configuration values.
const (
	// DefaultIndexTimeout bounds a single index request.
	DefaultIndexTimeout = 5 * time.Second

	// DefaultChunkSize is the read size used while streaming downloads.
	DefaultChunkSize = 1024

	// DefaultLogLevel is the level used when none is configured.
	DefaultLogLevel = "info"

	// DefaultOutputFormat is the log format used when none is configured.
	DefaultOutputFormat = "text"

	// YAMLIndent is the number of spaces to use for YAML indentation.
	YAMLIndent = 2
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Mirror: MirrorConfig{Key: mirror.DefaultKey},
		Settings: Settings{
			ChunkSize:    DefaultChunkSize,
			IndexTimeout: DefaultIndexTimeout,
			UserAgent:    version.UserAgent(),
			OutputFormat: DefaultOutputFormat,
			LogLevel:     DefaultLogLevel,
		},
	}
}

// LoadConfig loads configuration from a file.
// A missing file is not an error and yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errutils.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errutils.Wrap(errutils.ErrInvalidConfigPath, err.Error())
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errutils.Wrapf(err, "failed to open config file: %s", path)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errutils.Wrap(err, "failed to read config data")
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errutils.Wrap(errutils.ErrConfigParse, err.Error())
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errutils.ErrConfigValidation, err)
	}

	return &config, nil
}

// SaveConfig writes the configuration to path through a temporary file and a rename.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return errutils.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errutils.Wrap(errutils.ErrInvalidConfigPath, err.Error())
	}

	if err := fsutil.EnsureFileDir(absPath); err != nil {
		return errutils.Wrap(errutils.ErrConfigDirectory, err.Error())
	}

	tempPath := absPath + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fsutil.FileModeDefault)
	if err != nil {
		return errutils.Wrap(errutils.ErrConfigFileCreate, err.Error())
	}

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(YAMLIndent)

	if err := encoder.Encode(c); err != nil {
		_ = file.Close()
		_ = os.Remove(tempPath)
		return errutils.Wrap(errutils.ErrConfigEncode, err.Error())
	}

	_ = encoder.Close()
	_ = file.Close()

	if err := os.Rename(tempPath, absPath); err != nil {
		_ = os.Remove(tempPath)
		return errutils.Wrap(errutils.ErrConfigFileRename, err.Error())
	}

	return nil
}

// ToYAML converts the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, errutils.Wrap(errutils.ErrConfigMarshal, err.Error())
	}
	return data, nil
}

// ResolveMirror returns the mirror selected by the configuration.
func (c *Config) ResolveMirror() (mirror.Mirror, error) {
	m := c.Mirror
	switch {
	case m.Name != "" && m.IndexURL != "":
		return mirror.Mirror{Name: m.Name, IndexURL: m.IndexURL}, nil
	case m.Name != "" || m.IndexURL != "":
		return mirror.Mirror{}, errutils.ErrMirrorIncomplete
	case m.Key == "":
		return mirror.Lookup(mirror.DefaultKey)
	default:
		return mirror.Lookup(m.Key)
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errutils.ErrConfigValidation
	}
	if _, err := c.ResolveMirror(); err != nil {
		return err
	}
	return validateSettings(c.Settings)
}

func validateSettings(s Settings) error {
	if s.IndexTimeout < 0 {
		return errutils.ErrIndexTimeoutNegative
	}
	if s.ChunkSize < 1 {
		return errutils.ErrChunkSizeInvalid
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[s.OutputFormat] {
		return errutils.ErrInvalidOutputFormatWithDetails(s.OutputFormat)
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(s.LogLevel)] {
		return errutils.ErrInvalidLogLevelWithDetails(s.LogLevel)
	}
	return nil
}

// applyDefaults fills zero values left by a partial config file.
func (c *Config) applyDefaults() {
	if c.Mirror.Key == "" && c.Mirror.Name == "" && c.Mirror.IndexURL == "" {
		c.Mirror.Key = mirror.DefaultKey
	}
	if c.Settings.IndexTimeout == 0 {
		c.Settings.IndexTimeout = DefaultIndexTimeout
	}
	if c.Settings.ChunkSize == 0 {
		c.Settings.ChunkSize = DefaultChunkSize
	}
	if c.Settings.UserAgent == "" {
		c.Settings.UserAgent = version.UserAgent()
	}
	if c.Settings.OutputFormat == "" {
		c.Settings.OutputFormat = DefaultOutputFormat
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = DefaultLogLevel
	}
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	return fsutil.GetDefaultConfigPath()
}
