package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/wikidump/pkg/errutils"
)

func TestFetchIndex(t *testing.T) {
	body := `{"wikis": {"enwiki": {"version": "1.42.0", "jobs": {}}}}` + strings.Repeat(" ", 3000)

	var gotUA, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	client := NewIndexClient(time.Second, "wikidump-test/1.0")

	var calls int
	var sum, lastTotal int64
	content, err := client.FetchIndex(context.Background(), srv.URL+"/index.json", func(delta, total int64) {
		calls++
		sum += delta
		lastTotal = total
		assert.LessOrEqual(t, delta, int64(indexChunkSize))
	})
	require.NoError(t, err)

	assert.Equal(t, body, content)
	assert.Equal(t, "wikidump-test/1.0", gotUA)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, int64(len(body)), sum)
	assert.Equal(t, int64(len(body)), lastTotal)
	assert.GreaterOrEqual(t, calls, 3)
}

func TestFetchIndex_NilProgress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	content, err := NewIndexClient(0, "").FetchIndex(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, `{}`, content)
}

func TestFetchIndex_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewIndexClient(time.Second, "").FetchIndex(context.Background(), srv.URL+"/index.json", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errutils.ErrHTTPStatus)

	var httpErr *errutils.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Equal(t, srv.URL+"/index.json", httpErr.URL)
}

func TestFetchIndex_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	_, err := NewIndexClient(50*time.Millisecond, "").FetchIndex(context.Background(), srv.URL, nil)
	assert.Error(t, err)
}

func TestNewIndexClient_NoTotalDeadline(t *testing.T) {
	client := NewIndexClient(0, "")
	assert.Zero(t, client.client.Timeout)
	assert.Equal(t, DefaultTimeout, client.timeout)

	transport, ok := client.client.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, DefaultTimeout, transport.ResponseHeaderTimeout)
}

func TestFetchIndex_SlowSteadyTransferSucceeds(t *testing.T) {
	const chunks = 8
	chunk := strings.Repeat("x", 512)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(chunks*len(chunk)))
		flusher, _ := w.(http.Flusher)
		for range chunks {
			_, _ = w.Write([]byte(chunk))
			if flusher != nil {
				flusher.Flush()
			}
			time.Sleep(200 * time.Millisecond)
		}
	}))
	defer srv.Close()

	start := time.Now()
	content, err := NewIndexClient(time.Second, "").FetchIndex(context.Background(), srv.URL+"/index.json", nil)
	require.NoError(t, err)
	assert.Len(t, content, chunks*len(chunk))
	assert.Greater(t, time.Since(start), time.Second, "transfer outlasts the timeout")
}

func TestFetchIndex_StalledBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "4096")
		_, _ = w.Write([]byte(strings.Repeat("x", 100)))
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	_, err := NewIndexClient(100*time.Millisecond, "").FetchIndex(context.Background(), srv.URL, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errutils.ErrIndexStalled)
}

func TestFetchIndex_InvalidURL(t *testing.T) {
	_, err := NewIndexClient(time.Second, "").FetchIndex(context.Background(), "://bad", nil)
	assert.Error(t, err)
}
