//go:build integration

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/glorpus-work/wikidump/pkg/errutils"
)

func TestConfigShow(t *testing.T) {
	_, cfgPath := setupMirror(t, sampleFiles...)

	output, err := runCLI(t, "--config", cfgPath, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, output, "Test Mirror")
	assert.Contains(t, output, "cache_dir")
	assert.Contains(t, output, "index_timeout")
}

func TestConfigShowYAML(t *testing.T) {
	_, cfgPath := setupMirror(t, sampleFiles...)

	output, err := runCLI(t, "--config", cfgPath, "--verbose", "config", "show", "--yaml")
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(output), &parsed))
	settings, ok := parsed["settings"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "debug", settings["log_level"], "flag overrides should be shown")
}

func TestConfigInitSetGet(t *testing.T) {
	isolateEnv(t)
	cfgPath := filepath.Join(t.TempDir(), "wikidump", "config.yaml")

	_, err := runCLI(t, "--config", cfgPath, "config", "init")
	require.NoError(t, err)
	require.FileExists(t, cfgPath)

	_, err = runCLI(t, "--config", cfgPath, "config", "init")
	require.Error(t, err)
	assert.ErrorIs(t, err, errutils.ErrConfigFileExists)

	_, err = runCLI(t, "--config", cfgPath, "config", "init", "--force")
	require.NoError(t, err)

	_, err = runCLI(t, "--config", cfgPath, "config", "set", "mirror", "bytemark")
	require.NoError(t, err)
	_, err = runCLI(t, "--config", cfgPath, "config", "set", "index_timeout", "30s")
	require.NoError(t, err)

	output, err := runCLI(t, "--config", cfgPath, "config", "get", "mirror")
	require.NoError(t, err)
	assert.Equal(t, "bytemark", strings.TrimSpace(output))

	output, err = runCLI(t, "--config", cfgPath, "config", "get", "index_timeout")
	require.NoError(t, err)
	assert.Equal(t, "30s", strings.TrimSpace(output))

	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "index_timeout: 30s")
}

func TestConfigSet_DoesNotPersistOverrides(t *testing.T) {
	isolateEnv(t)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	_, err := runCLI(t, "--config", cfgPath, "config", "init")
	require.NoError(t, err)

	t.Setenv("WIKIDUMP_USER_AGENT", "from-env/1.0")
	_, err = runCLI(t, "--config", cfgPath, "--verbose", "config", "set", "chunk_size", "4096")
	require.NoError(t, err)

	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "chunk_size: 4096")
	assert.NotContains(t, string(data), "from-env/1.0")
	assert.NotContains(t, string(data), "log_level: debug")
}

func TestConfigSet_InvalidValue(t *testing.T) {
	isolateEnv(t)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	_, err := runCLI(t, "--config", cfgPath, "config", "init")
	require.NoError(t, err)

	_, err = runCLI(t, "--config", cfgPath, "config", "set", "chunk_size", "-1")
	require.Error(t, err)

	_, err = runCLI(t, "--config", cfgPath, "config", "set", "no_such_key", "1")
	require.Error(t, err)
}

func TestConfigPath(t *testing.T) {
	isolateEnv(t)
	cfgPath := missingConfig(t)

	output, err := runCLI(t, "--config", cfgPath, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, cfgPath+"\n", output)
}

func TestConfigEnvOverride(t *testing.T) {
	isolateEnv(t)
	t.Setenv("WIKIDUMP_MIRROR", "your")

	output, err := runCLI(t, "--config", missingConfig(t), "config", "get", "mirror")
	require.NoError(t, err)
	assert.Equal(t, "your", strings.TrimSpace(output))
}
