package download

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"io"
	"net/http"

	"github.com/spf13/afero"

	"github.com/glorpus-work/wikidump/pkg/errutils"
)

// fetch streams the source into a temporary file while hashing it and verifies the
// digest at the end. The returned file is positioned at its start.
// DownloadComplete fires exactly once before fetch returns.
func (m *Manager) fetch(ctx context.Context, t *Task) (tmp afero.File, err error) {
	defer func() {
		err = complete(t.hooks.DownloadComplete, err)
		if err != nil && tmp != nil {
			m.discard(tmp)
			tmp = nil
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.Source, http.NoBody)
	if err != nil {
		return nil, errutils.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", m.userAgent)

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, errutils.Wrap(err, "download failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &errutils.HTTPError{URL: t.Source, StatusCode: resp.StatusCode}
	}

	tmp, err = afero.TempFile(m.fs, m.tempDir, "wikidump-*.part")
	if err != nil {
		return nil, errutils.Wrap(err, "could not create temp file")
	}

	hash := sha1.New()
	buf := make([]byte, t.chunkSize)
	for {
		n, readErr := readChunk(resp.Body, buf)
		if n > 0 {
			chunk := buf[:n]
			if _, err := tmp.Write(chunk); err != nil {
				return tmp, errutils.Wrap(err, "could not write temp file")
			}
			hash.Write(chunk)
			m.metrics.RecordFetched(n)
			t.hooks.DownloadProgress(int64(n), t.Size)
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return tmp, errutils.Wrap(readErr, "could not read response body")
		}
	}

	if t.sha1 != "" {
		if got := hex.EncodeToString(hash.Sum(nil)); got != t.sha1 {
			m.metrics.RecordChecksumFailure()
			return tmp, errutils.ErrIntegrityWithDigests(t.Source, t.sha1, got)
		}
	}

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return tmp, errutils.Wrap(err, "could not rewind temp file")
	}
	return tmp, nil
}
