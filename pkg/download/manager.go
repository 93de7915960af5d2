package download

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/glorpus-work/wikidump/internal/logger"
	"github.com/glorpus-work/wikidump/pkg/errutils"
)

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "wikidump/dev"

// Manager runs downloads as independent background tasks. It does not throttle,
// queue, deduplicate or retry; two tasks writing the same destination race.
type Manager struct {
	client    *http.Client
	userAgent string
	fs        afero.Fs
	tempDir   string
	metrics   *Metrics
}

var _ Downloader = (*Manager)(nil)

// Option configures a Manager.
type Option func(*Manager)

// WithHTTPClient replaces the HTTP client. The default client has no timeout.
func WithHTTPClient(client *http.Client) Option {
	return func(m *Manager) {
		m.client = client
	}
}

// WithFs replaces the filesystem used for temporary and destination files.
func WithFs(fs afero.Fs) Option {
	return func(m *Manager) {
		m.fs = fs
	}
}

// WithTempDir sets the directory for intermediate download files.
func WithTempDir(dir string) Option {
	return func(m *Manager) {
		m.tempDir = dir
	}
}

// WithMetrics records task and byte counters.
func WithMetrics(metrics *Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// NewManager creates a download manager. The HTTP client is shared read-only by all tasks.
func NewManager(userAgent string, opts ...Option) *Manager {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	m := &Manager{
		client:    &http.Client{},
		userAgent: userAgent,
		fs:        afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start resolves the destination and compression of req and runs fetch, verify,
// decompress and write in one goroutine. The returned task reports the outcome.
func (m *Manager) Start(ctx context.Context, req Request) (*Task, error) {
	if req.URL == "" {
		return nil, fmt.Errorf("empty source URL: %w", errutils.ErrDownloadFailed)
	}
	if req.ChunkSize <= 0 {
		req.ChunkSize = DefaultChunkSize
	}

	destination := req.Destination
	if destination == "" {
		name := ResolveDestination(req.URL, req.Decompress)
		if name == "" {
			return nil, fmt.Errorf("cannot derive file name from %s: %w", req.URL, errutils.ErrInvalidPath)
		}
		destination = filepath.Join(req.Dir, name)
	}

	task := newTask(req, destination)
	logger.Debug("Starting download", logger.Fields{
		"task":        task.ID.String(),
		"url":         task.Source,
		"destination": task.Destination,
		"compression": task.Compression.String(),
	})

	m.metrics.RecordTaskStarted()
	go func() {
		err := m.run(ctx, task)
		m.metrics.RecordTaskFinished(err)
		if err != nil {
			logger.Debug("Download failed", logger.Fields{"task": task.ID.String(), "error": err})
		} else {
			logger.Debug("Download finished", logger.Fields{"task": task.ID.String(), "destination": task.Destination})
		}
		task.finish(err)
	}()
	return task, nil
}

// run executes the stages in order. The temporary file never outlives the task.
func (m *Manager) run(ctx context.Context, t *Task) error {
	tmp, err := m.fetch(ctx, t)
	if err != nil {
		return err
	}
	defer m.discard(tmp)

	return m.decompress(tmp, t)
}

func (m *Manager) discard(f afero.File) {
	name := f.Name()
	_ = f.Close()
	if err := m.fs.Remove(name); err != nil {
		logger.Debug("Could not remove temporary download file", logger.Fields{"path": name, "error": err})
	}
}
