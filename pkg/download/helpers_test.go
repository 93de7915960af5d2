package download

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/mholt/archives"
	"github.com/stretchr/testify/require"
)

var fixture = []byte(strings.Repeat("INSERT INTO `sites` VALUES (1,'enwiki','wikipedia');\n", 400))

func compress(t *testing.T, c archives.Compressor, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := c.OpenWriter(&buf)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func sha1Hex(data []byte) string {
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}

// serveFiles serves the given path to body mapping and 404 for anything else.
func serveFiles(t *testing.T, files map[string][]byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// hookRecorder captures every hook invocation of a task.
type hookRecorder struct {
	mu                sync.Mutex
	downloadDeltas    []int64
	downloadTotals    []int64
	decompressDeltas  []int64
	downloadResults   []error
	decompressResults []error
	downloadReturns   error
	decompressReturns error
}

func (h *hookRecorder) hooks() Hooks {
	return Hooks{
		DownloadProgress: func(delta, total int64) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.downloadDeltas = append(h.downloadDeltas, delta)
			h.downloadTotals = append(h.downloadTotals, total)
		},
		DownloadComplete: func(err error) error {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.downloadResults = append(h.downloadResults, err)
			return h.downloadReturns
		},
		DecompressProgress: func(delta, _ int64) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.decompressDeltas = append(h.decompressDeltas, delta)
		},
		DecompressComplete: func(err error) error {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.decompressResults = append(h.decompressResults, err)
			return h.decompressReturns
		},
	}
}

func sum(values []int64) int64 {
	var total int64
	for _, v := range values {
		total += v
	}
	return total
}
