//go:build integration

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/wikidump/pkg/config"
	"github.com/glorpus-work/wikidump/test/testutil"
)

// sampleFiles is the dump published by the test mirror in most tests.
var sampleFiles = []testutil.DumpFile{
	{Wiki: "enwiki", Job: "articlesdump", Name: "enwiki-pages-articles.xml.gz", Content: []byte("<mediawiki>articles</mediawiki>")},
	{Wiki: "enwiki", Job: "articlesdump", Name: "enwiki-pages-meta.xml.bz2", Content: []byte("<mediawiki>meta</mediawiki>")},
	{Wiki: "enwiki", Job: "sitestats", Name: "enwiki-site_stats.sql", Content: []byte("INSERT INTO site_stats;")},
	{Wiki: "dewiki", Job: "articlesdump", Name: "dewiki-pages-articles.xml.gz", Content: []byte("<mediawiki>artikel</mediawiki>")},
}

// isolateEnv keeps WIKIDUMP_* variables and .env files of the host out of the test.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvFile, filepath.Join(t.TempDir(), "missing.env"))
	for _, key := range []string{
		config.EnvMirror, config.EnvCacheDir, config.EnvDownloadDir, config.EnvLogLevel,
		config.EnvUserAgent, config.EnvIndexTimeout, config.EnvChunkSize,
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

// setupMirror starts a test mirror and writes a config pointing at it.
func setupMirror(t *testing.T, files ...testutil.DumpFile) (*testutil.TestServer, string) {
	t.Helper()
	isolateEnv(t)
	srv := testutil.NewTestServer(t, files...)
	return srv, testutil.SetupTestConfig(t, srv.IndexURL())
}

// missingConfig returns a config path that does not exist, so built-in defaults apply.
func missingConfig(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.yaml")
}

// runCLI executes the root command with args and returns what it printed to stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}
