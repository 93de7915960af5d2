package fsutil

import (
	"os"
	"path/filepath"
)

const (
	// AppName is the name of the application used in paths
	AppName = "wikidump"

	// ConfigFileName is the file name of the YAML configuration.
	ConfigFileName = "config.yaml"

	indexCacheSubdir = "indexes"
	downloadSubdir   = "downloads"
)

// GetCacheDir returns the platform-specific cache directory for the application
// On Linux: ~/.cache/wikidump/
// On macOS: ~/Library/Caches/wikidump/
// On Windows: %LOCALAPPDATA%\wikidump\
func GetCacheDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, AppName), nil
}

// GetIndexCacheDir returns the directory holding cached dump status indexes.
// Format: <cache_dir>/indexes/
func GetIndexCacheDir() (string, error) {
	cacheDir, err := GetCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, indexCacheSubdir), nil
}

// GetConfigDir returns the platform-specific configuration directory for the application.
func GetConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, AppName), nil
}

// GetDefaultConfigPath returns <config_dir>/config.yaml.
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, ConfigFileName), nil
}

// GetDownloadDir returns the default target directory for dump files.
// It is the working directory when one is available and <cache_dir>/downloads otherwise.
func GetDownloadDir() (string, error) {
	if wd, err := os.Getwd(); err == nil {
		return wd, nil
	}
	cacheDir, err := GetCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, downloadSubdir), nil
}
