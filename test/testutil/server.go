// Package testutil provides a fake dump mirror and config helpers for integration tests.
package testutil

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/mholt/archives"

	"github.com/glorpus-work/wikidump/internal/logger"
)

// DumpDate is the date segment used in the URLs of served files.
const DumpDate = "20240101"

// DumpFile is a file published by the test mirror. Content is the uncompressed payload;
// names ending in .gz or .bz2 are served compressed.
type DumpFile struct {
	Wiki    string
	Job     string
	Name    string
	Content []byte
}

// TestServer represents a fake dump mirror serving an index.json and the files it lists.
type TestServer struct {
	Server *httptest.Server
	URL    string

	files        map[string][]byte
	index        []byte
	indexFetches atomic.Int64
}

// NewTestServer starts a mirror publishing files. The server is closed when the test ends.
func NewTestServer(t *testing.T, files ...DumpFile) *TestServer {
	t.Helper()

	ts := &TestServer{files: make(map[string][]byte)}
	wikis := map[string]map[string]any{}

	for _, f := range files {
		body := encode(t, f.Name, f.Content)
		urlPath := path.Join("/", f.Wiki, DumpDate, f.Name)
		ts.files[urlPath] = body

		sum := sha1.Sum(body)
		wiki, ok := wikis[f.Wiki]
		if !ok {
			wiki = map[string]any{"version": "1.42.0", "jobs": map[string]any{}}
			wikis[f.Wiki] = wiki
		}
		jobs := wiki["jobs"].(map[string]any)
		job, ok := jobs[f.Job].(map[string]any)
		if !ok {
			job = map[string]any{"status": "done", "updated": "2024-01-02 03:04:05", "files": map[string]any{}}
			jobs[f.Job] = job
		}
		job["files"].(map[string]any)[f.Name] = map[string]any{
			"size": len(body),
			"url":  urlPath,
			"sha1": hex.EncodeToString(sum[:]),
		}
	}

	index, err := json.Marshal(map[string]any{"wikis": wikis})
	if err != nil {
		t.Fatalf("Failed to encode test index: %v", err)
	}
	ts.index = index

	ts.Server = httptest.NewServer(http.HandlerFunc(ts.serve))
	ts.URL = ts.Server.URL
	t.Cleanup(ts.Server.Close)
	return ts
}

func (ts *TestServer) serve(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/index.json" {
		ts.indexFetches.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Length", fmt.Sprint(len(ts.index)))
		_, _ = w.Write(ts.index)
		return
	}
	body, ok := ts.files[r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Length", fmt.Sprint(len(body)))
	_, _ = w.Write(body)
}

// IndexURL returns the URL of the mirror's index.json.
func (ts *TestServer) IndexURL() string {
	return ts.URL + "/index.json"
}

// IndexFetches returns how often the index has been requested.
func (ts *TestServer) IndexFetches() int64 {
	return ts.indexFetches.Load()
}

func encode(t *testing.T, name string, content []byte) []byte {
	t.Helper()

	var compressor archives.Compressor
	switch {
	case strings.HasSuffix(name, ".gz"):
		compressor = archives.Gz{}
	case strings.HasSuffix(name, ".bz2"):
		compressor = archives.Bz2{}
	default:
		return content
	}

	var buf bytes.Buffer
	w, err := compressor.OpenWriter(&buf)
	if err != nil {
		t.Fatalf("Failed to open compressor for %s: %v", name, err)
	}
	if _, err := w.Write(content); err != nil {
		t.Fatalf("Failed to compress %s: %v", name, err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to compress %s: %v", name, err)
	}
	return buf.Bytes()
}

// SetupTestConfig writes a configuration file pointing at the test mirror and at a
// private cache directory, and returns its path.
func SetupTestConfig(t *testing.T, indexURL string) string {
	t.Helper()

	tempDir := t.TempDir()
	configStr := fmt.Sprintf(`mirror:
  name: Test Mirror
  index_url: %s
settings:
  cache_dir: %s
  log_level: info
`, indexURL, filepath.Join(tempDir, "cache"))

	configPath := filepath.Join(tempDir, "config.yaml")
	logger.Debugf("Writing test config to: %s", configPath)
	if err := os.WriteFile(configPath, []byte(configStr), 0o600); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	return configPath
}
