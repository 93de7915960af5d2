//go:generate mockgen -destination=mocks/http.go . Client
package http

import (
	"context"
)

// ProgressFunc receives the number of bytes read since the previous call and the
// advertised total, which is zero when the server sent no Content-Length.
type ProgressFunc func(delta, total int64)

// Client defines the interface for fetching a mirror's dump index.
type Client interface {
	// FetchIndex downloads the index document at indexURL and returns its text.
	// A non-success status is reported as *errutils.HTTPError.
	FetchIndex(ctx context.Context, indexURL string, progress ProgressFunc) (string, error)
}
