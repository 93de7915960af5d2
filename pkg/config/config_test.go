package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/glorpus-work/wikidump/internal/version"
	"github.com/glorpus-work/wikidump/pkg/errutils"
	"github.com/glorpus-work/wikidump/pkg/fsutil"
	"github.com/glorpus-work/wikidump/pkg/mirror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, mirror.DefaultKey, cfg.Mirror.Key)
	assert.Equal(t, "info", cfg.Settings.LogLevel)
	assert.Equal(t, "text", cfg.Settings.OutputFormat)
	assert.Equal(t, 5*time.Second, cfg.Settings.IndexTimeout)
	assert.Equal(t, 1024, cfg.Settings.ChunkSize)
	assert.Equal(t, version.UserAgent(), cfg.Settings.UserAgent)
	assert.False(t, cfg.Settings.DisableCache)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	configContent := `mirror:
  key: bytemark
settings:
  cache_dir: /var/cache/wikidump
  keep_expired_caches: true
  index_timeout: 10s
  chunk_size: 4096
  log_level: debug
  hooks:
    decompress_complete: /etc/wikidump/check.tengo`

	err := os.WriteFile(configPath, []byte(configContent), fsutil.FileModeDefault)
	require.NoError(t, err)

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "bytemark", cfg.Mirror.Key)
	assert.Equal(t, "/var/cache/wikidump", cfg.Settings.CacheDir)
	assert.True(t, cfg.Settings.KeepExpiredCaches)
	assert.Equal(t, 10*time.Second, cfg.Settings.IndexTimeout)
	assert.Equal(t, 4096, cfg.Settings.ChunkSize)
	assert.Equal(t, "debug", cfg.Settings.LogLevel)
	assert.Equal(t, "/etc/wikidump/check.tengo", cfg.Settings.Hooks.DecompressComplete)

	// applied defaults
	assert.Equal(t, "text", cfg.Settings.OutputFormat)
	assert.Equal(t, version.UserAgent(), cfg.Settings.UserAgent)

	m, err := cfg.ResolveMirror()
	require.NoError(t, err)
	assert.Equal(t, "Bytemark", m.Name)
}

func TestLoadConfig_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.ErrorIs(t, err, errutils.ErrEmptyConfigPath)
}

func TestLoadConfigFromReader_InvalidYAML(t *testing.T) {
	_, err := LoadConfigFromReader(strings.NewReader("settings: [unclosed"))
	assert.ErrorIs(t, err, errutils.ErrConfigParse)
}

func TestLoadConfigFromReader_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "unknown mirror",
			content: "mirror:\n  key: nowhere\n",
			wantErr: errutils.ErrUnknownMirror,
		},
		{
			name:    "custom mirror without url",
			content: "mirror:\n  name: Local\n",
			wantErr: errutils.ErrMirrorIncomplete,
		},
		{
			name:    "negative timeout",
			content: "settings:\n  index_timeout: -1s\n",
			wantErr: errutils.ErrIndexTimeoutNegative,
		},
		{
			name:    "negative chunk size",
			content: "settings:\n  chunk_size: -5\n",
			wantErr: errutils.ErrChunkSizeInvalid,
		},
		{
			name:    "bad output format",
			content: "settings:\n  output_format: xml\n",
			wantErr: errutils.ErrInvalidOutputFormat,
		},
		{
			name:    "bad log level",
			content: "settings:\n  log_level: loud\n",
			wantErr: errutils.ErrInvalidLogLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfigFromReader(strings.NewReader(tt.content))
			require.Error(t, err)
			assert.ErrorIs(t, err, errutils.ErrConfigValidation)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestResolveMirror(t *testing.T) {
	t.Run("custom mirror wins over key", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Mirror.Name = "Local"
		cfg.Mirror.IndexURL = "http://localhost:8080/index.json"

		m, err := cfg.ResolveMirror()
		require.NoError(t, err)
		assert.Equal(t, mirror.Mirror{Name: "Local", IndexURL: "http://localhost:8080/index.json"}, m)
	})

	t.Run("empty key selects default", func(t *testing.T) {
		cfg := &Config{}
		m, err := cfg.ResolveMirror()
		require.NoError(t, err)
		want, _ := mirror.Lookup(mirror.DefaultKey)
		assert.Equal(t, want, m)
	})
}

func TestSaveConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mirror = MirrorConfig{Key: "acc_umea_uni"}
	cfg.Settings.LogLevel = "debug"
	cfg.Settings.IndexTimeout = 30 * time.Second

	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, cfg.SaveConfig(configPath))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "index_timeout: 30s")
	assert.NoFileExists(t, configPath+".tmp")

	loadedCfg, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, cfg, loadedCfg)
}

func TestSaveConfig_EmptyPath(t *testing.T) {
	assert.ErrorIs(t, DefaultConfig().SaveConfig(""), errutils.ErrEmptyConfigPath)
}

func TestToYAML(t *testing.T) {
	data, err := DefaultConfig().ToYAML()
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "key: wikimedia")
	assert.Contains(t, out, "index_timeout: 5s")
	assert.Contains(t, out, "chunk_size: 1024")
}

func TestGetDefaultConfigPath(t *testing.T) {
	path, err := GetDefaultConfigPath()
	require.NoError(t, err)
	assert.Equal(t, fsutil.ConfigFileName, filepath.Base(path))
}

// unsetEnv clears key for the duration of the test and restores it afterwards.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvMirror, EnvCacheDir, EnvDownloadDir, EnvLogLevel, EnvUserAgent, EnvIndexTimeout, EnvChunkSize} {
		unsetEnv(t, key)
	}
	// point at a file that does not exist so stray .env files are not picked up
	t.Setenv(EnvFile, filepath.Join(t.TempDir(), "none.env"))
}

func TestApplyEnv(t *testing.T) {
	isolateEnv(t)
	t.Setenv(EnvMirror, "your")
	t.Setenv(EnvCacheDir, "/tmp/wikidump-cache")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvIndexTimeout, "2s")
	t.Setenv(EnvChunkSize, "8192")

	cfg := DefaultConfig()
	cfg.Mirror = MirrorConfig{Name: "Local", IndexURL: "http://localhost/index.json"}

	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, MirrorConfig{Key: "your"}, cfg.Mirror)
	assert.Equal(t, "/tmp/wikidump-cache", cfg.Settings.CacheDir)
	assert.Equal(t, "warn", cfg.Settings.LogLevel)
	assert.Equal(t, 2*time.Second, cfg.Settings.IndexTimeout)
	assert.Equal(t, 8192, cfg.Settings.ChunkSize)
	assert.Equal(t, version.UserAgent(), cfg.Settings.UserAgent)
}

func TestApplyEnv_FromFile(t *testing.T) {
	isolateEnv(t)

	envPath := filepath.Join(t.TempDir(), "wikidump.env")
	require.NoError(t, os.WriteFile(envPath, []byte("WIKIDUMP_MIRROR=bytemark\nWIKIDUMP_USER_AGENT=mirror-sync/1.0\n"), fsutil.FileModeDefault))
	t.Setenv(EnvFile, envPath)

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, "bytemark", cfg.Mirror.Key)
	assert.Equal(t, "mirror-sync/1.0", cfg.Settings.UserAgent)
}

func TestApplyEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr error
	}{
		{name: "timeout", key: EnvIndexTimeout, value: "soon", wantErr: errutils.ErrConfigEnv},
		{name: "chunk size", key: EnvChunkSize, value: "big", wantErr: errutils.ErrConfigEnv},
		{name: "zero chunk size", key: EnvChunkSize, value: "0", wantErr: errutils.ErrChunkSizeInvalid},
		{name: "mirror", key: EnvMirror, value: "nowhere", wantErr: errutils.ErrUnknownMirror},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			t.Setenv(tt.key, tt.value)

			err := DefaultConfig().ApplyEnv()
			assert.ErrorIs(t, err, errutils.ErrConfigEnv)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSetAndGetValue(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		key   string
		value string
	}{
		{key: "mirror", value: "bytemark"},
		{key: "cache_dir", value: "/srv/cache"},
		{key: "download_dir", value: "/srv/dumps"},
		{key: "disable_cache", value: "true"},
		{key: "keep_expired_caches", value: "true"},
		{key: "index_timeout", value: "1m0s"},
		{key: "chunk_size", value: "2048"},
		{key: "log_level", value: "error"},
		{key: "output_format", value: "json"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			require.NoError(t, cfg.SetValue(tt.key, tt.value))
			got, err := cfg.GetValue(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.value, got)
		})
	}

	require.NoError(t, cfg.Validate())
}

func TestSetValue_Errors(t *testing.T) {
	cfg := DefaultConfig()

	assert.Error(t, cfg.SetValue("disable_cache", "maybe"))
	assert.Error(t, cfg.SetValue("index_timeout", "forever"))
	assert.Error(t, cfg.SetValue("chunk_size", "lots"))
	assert.Error(t, cfg.SetValue("colour", "red"))

	_, err := cfg.GetValue("colour")
	assert.Error(t, err)
}

func TestToMap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Settings.Hooks.DownloadComplete = "/hooks/notify.tengo"

	m := cfg.ToMap()
	assert.Equal(t, "5s", m["index_timeout"])
	assert.Equal(t, "1024", m["chunk_size"])
	assert.Equal(t, "false", m["disable_cache"])
	assert.Equal(t, "/hooks/notify.tengo", m["hooks.download_complete"])
	assert.Contains(t, m, "hooks.dir")
}
