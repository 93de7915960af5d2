//go:generate mockgen -destination=mocks/download.go . Downloader

package download

import (
	"context"
	"errors"
	"fmt"

	"github.com/glorpus-work/wikidump/pkg/errutils"
)

// Downloader starts background downloads.
type Downloader interface {
	// Start launches the fetch and decompress pipeline for req and returns immediately.
	Start(ctx context.Context, req Request) (*Task, error)
}

// Request describes one file to download.
type Request struct {
	// URL is the absolute source URL.
	URL string
	// Destination is the output path. When empty it is derived from the URL and placed in Dir.
	Destination string
	// Dir is the directory for a derived destination; empty means the working directory.
	Dir string
	// Size is the advertised size in bytes and only serves as the progress total.
	Size int64
	// SHA1 is the expected lowercase hex digest; empty skips verification.
	SHA1 string
	// Decompress selects gzip or bzip2 decompression based on the URL suffix.
	Decompress bool
	// ChunkSize is the network read size; the decompressor reads ten times as much.
	ChunkSize int
	Hooks     Hooks
}

// DefaultChunkSize is used when a request does not set ChunkSize.
const DefaultChunkSize = 1024

// ProgressFunc receives the bytes processed since the previous call and the advertised total size.
type ProgressFunc func(delta, total int64)

// CompletionFunc is called exactly once when a stage ends, with the stage error or nil.
// A non-nil return marks the stage as failed.
type CompletionFunc func(err error) error

// Hooks are the progress and completion callbacks of a download. Nil hooks are no-ops.
type Hooks struct {
	DownloadProgress   ProgressFunc
	DownloadComplete   CompletionFunc
	DecompressProgress ProgressFunc
	DecompressComplete CompletionFunc
}

// NoopProgress ignores progress.
func NoopProgress(int64, int64) {}

// NoopCompletion ignores the stage result and never fails it.
func NoopCompletion(error) error { return nil }

func (h Hooks) withDefaults() Hooks {
	if h.DownloadProgress == nil {
		h.DownloadProgress = NoopProgress
	}
	if h.DownloadComplete == nil {
		h.DownloadComplete = NoopCompletion
	}
	if h.DecompressProgress == nil {
		h.DecompressProgress = NoopProgress
	}
	if h.DecompressComplete == nil {
		h.DecompressComplete = NoopCompletion
	}
	return h
}

// complete runs a completion hook with the stage result. When both the stage and
// the hook fail the errors are joined, stage error first.
func complete(hook CompletionFunc, stageErr error) error {
	hookErr := callHook(hook, stageErr)
	switch {
	case hookErr == nil:
		return stageErr
	case stageErr == nil:
		return hookErr
	default:
		return errors.Join(stageErr, hookErr)
	}
}

// callHook runs hook and turns a panic into an error so it fails only its own task.
func callHook(hook CompletionFunc, stageErr error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errutils.ErrHookPanic, r)
		}
	}()
	return hook(stageErr)
}
