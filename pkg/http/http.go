package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/glorpus-work/wikidump/internal/logger"
	"github.com/glorpus-work/wikidump/pkg/errutils"
)

const (
	// DefaultTimeout bounds connecting, waiting for the response headers and every
	// gap between body reads. A slow but steady transfer never times out.
	DefaultTimeout = 5 * time.Second

	// DefaultUserAgent is sent when no user agent is configured.
	DefaultUserAgent = "wikidump/dev"

	indexChunkSize = 1024
)

// IndexClient fetches index documents over HTTP.
type IndexClient struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
}

var _ Client = (*IndexClient)(nil)

// NewIndexClient creates a client with a connect and read timeout.
func NewIndexClient(timeout time.Duration, userAgent string) *IndexClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	dialer := &net.Dialer{Timeout: timeout}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = dialer.DialContext
	transport.TLSHandshakeTimeout = timeout
	transport.ResponseHeaderTimeout = timeout

	return &IndexClient{
		client:    &http.Client{Transport: transport},
		userAgent: userAgent,
		timeout:   timeout,
	}
}

// FetchIndex downloads the index at indexURL in fixed-size chunks, reporting progress per chunk.
// The request is cancelled once no data arrives for the client's timeout.
func (c *IndexClient) FetchIndex(ctx context.Context, indexURL string, progress ProgressFunc) (string, error) {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	stalled := fmt.Errorf("%w: no data for %s", errutils.ErrIndexStalled, c.timeout)
	idle := time.AfterFunc(c.timeout, func() { cancel(stalled) })
	defer idle.Stop()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, indexURL, http.NoBody)
	if err != nil {
		return "", errutils.Wrap(err, "failed to create request")
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	logger.Debug("Fetching dump index", logger.Fields{"url": indexURL})
	resp, err := c.client.Do(req)
	if err != nil {
		return "", errutils.Wrap(stallCause(ctx, err), "failed to download index")
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", &errutils.HTTPError{URL: indexURL, StatusCode: resp.StatusCode}
	}

	total := resp.ContentLength
	if total < 0 {
		total = 0
	}

	var b strings.Builder
	if total > 0 {
		b.Grow(int(total))
	}
	buf := make([]byte, indexChunkSize)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			idle.Reset(c.timeout)
			b.Write(buf[:n])
			if progress != nil {
				progress(int64(n), total)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return "", errutils.Wrap(stallCause(ctx, readErr), "failed to read index body")
		}
	}

	logger.Debug("Fetched dump index", logger.Fields{"url": indexURL, "bytes": b.Len()})
	return b.String(), nil
}

// stallCause reports the stall instead of the bare cancellation it caused.
func stallCause(ctx context.Context, err error) error {
	if cause := context.Cause(ctx); errors.Is(cause, errutils.ErrIndexStalled) {
		return cause
	}
	return err
}
