// Package dump is the entry point for reading a mirror's dump index and downloading the files it lists.
package dump

import (
	"context"
	"iter"
	"regexp"
	"sync"

	"github.com/glorpus-work/wikidump/internal/logger"
	"github.com/glorpus-work/wikidump/pkg/cache"
	"github.com/glorpus-work/wikidump/pkg/catalog"
	"github.com/glorpus-work/wikidump/pkg/download"
	"github.com/glorpus-work/wikidump/pkg/errutils"
	"github.com/glorpus-work/wikidump/pkg/http"
	"github.com/glorpus-work/wikidump/pkg/mirror"
)

// IndexStore is the subset of the cache store used to persist indexes.
type IndexStore interface {
	Get(m mirror.Mirror) (cache.Result, error)
	Put(path, content string) error
	ClearExpired() ([]string, error)
}

// Options control how a Client obtains its index.
type Options struct {
	// Mirror is the endpoint to read from. The zero value selects the default mirror.
	Mirror mirror.Mirror

	// Store persists indexes. When nil a cache.Store rooted at CacheDir is used.
	Store    IndexStore
	CacheDir string

	// UseCache reads today's cached index when one exists.
	UseCache bool
	// CacheIndex writes a freshly fetched index back to the cache.
	CacheIndex bool
	// ClearExpired removes cache entries from other days after loading.
	ClearExpired bool

	// Index fetches index documents. When nil an http.IndexClient with default settings is used.
	Index http.Client
	// Downloads runs file downloads. When nil a download.Manager with default settings is used.
	Downloads download.Downloader
	// IndexProgress receives progress of index fetches.
	IndexProgress http.ProgressFunc
}

// DefaultOptions enables reading and writing the index cache and clearing stale entries.
func DefaultOptions() Options {
	return Options{UseCache: true, CacheIndex: true, ClearExpired: true}
}

// DownloadOptions control a single file download.
type DownloadOptions struct {
	// Destination overrides the derived output path.
	Destination string
	// Dir receives the file when Destination is empty.
	Dir string
	// KeepCompressed writes the file as served instead of decompressing .gz and .bz2 files.
	KeepCompressed bool
	ChunkSize      int
	Hooks          download.Hooks
}

// Client reads the index of one mirror and starts downloads of the files it lists.
type Client struct {
	opts Options

	mu      sync.RWMutex
	mirror  mirror.Mirror
	catalog *catalog.Catalog
}

// New creates a client and loads the index of opts.Mirror. Loading blocks until the
// index has been read from the cache or fetched from the mirror.
func New(ctx context.Context, opts Options) (*Client, error) {
	if opts.Mirror == (mirror.Mirror{}) {
		m, err := mirror.Lookup(mirror.DefaultKey)
		if err != nil {
			return nil, err
		}
		opts.Mirror = m
	}
	if opts.Store == nil {
		opts.Store = cache.NewStore(opts.CacheDir)
	}
	if opts.Index == nil {
		opts.Index = http.NewIndexClient(http.DefaultTimeout, http.DefaultUserAgent)
	}
	if opts.Downloads == nil {
		opts.Downloads = download.NewManager(download.DefaultUserAgent)
	}

	c := &Client{opts: opts}
	if err := c.SetMirror(ctx, opts.Mirror); err != nil {
		return nil, err
	}

	if opts.ClearExpired {
		if _, err := opts.Store.ClearExpired(); err != nil {
			logger.Warn("Failed to clear expired index caches", logger.Fields{"error": err})
		}
	}
	return c, nil
}

// Mirror returns the mirror the client currently reads from.
func (c *Client) Mirror() mirror.Mirror {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mirror
}

// SetMirror switches to m and loads its index. On failure the previous mirror stays active.
func (c *Client) SetMirror(ctx context.Context, m mirror.Mirror) error {
	cat, err := c.load(ctx, m)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.mirror = m
	c.catalog = cat
	return nil
}

func (c *Client) load(ctx context.Context, m mirror.Mirror) (*catalog.Catalog, error) {
	var entry cache.Result
	if c.opts.UseCache || c.opts.CacheIndex {
		var err error
		entry, err = c.opts.Store.Get(m)
		if err != nil {
			return nil, errutils.Wrapf(err, "read index cache for %s", m.Name)
		}
	}

	if c.opts.UseCache && entry.Hit {
		cat, err := catalog.Parse([]byte(entry.Content))
		if err == nil {
			logger.Debug("Loaded index from cache", logger.Fields{"mirror": m.Name, "path": entry.Path})
			return cat, nil
		}
		logger.Warn("Cached index is unreadable, fetching again", logger.Fields{"path": entry.Path, "error": err})
	}

	content, err := c.opts.Index.FetchIndex(ctx, m.IndexURL, c.opts.IndexProgress)
	if err != nil {
		return nil, errutils.Wrapf(err, "fetch index from %s", m.Name)
	}
	cat, err := catalog.Parse([]byte(content))
	if err != nil {
		return nil, errutils.Wrapf(err, "index from %s", m.Name)
	}

	if c.opts.CacheIndex && entry.Path != "" {
		if err := c.opts.Store.Put(entry.Path, content); err != nil {
			return nil, errutils.Wrapf(err, "cache index for %s", m.Name)
		}
	}
	return cat, nil
}

// Catalog returns the loaded index.
func (c *Client) Catalog() *catalog.Catalog {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.catalog
}

// Wikis returns the names of all non-null wikis, sorted.
func (c *Client) Wikis() []string {
	return c.Catalog().Wikis()
}

// Wiki returns the named wiki.
func (c *Client) Wiki(name string) (*catalog.Wiki, error) {
	return c.Catalog().Wiki(name)
}

// Job returns a job of a wiki.
func (c *Client) Job(wiki, job string) (*catalog.Job, error) {
	return c.Catalog().Job(wiki, job)
}

// File returns a file by exact name.
func (c *Client) File(wiki, job, name string) (*catalog.File, error) {
	return c.Catalog().File(wiki, job, name)
}

// FileMatching returns the first file of a job, in name order, that re matches.
func (c *Client) FileMatching(wiki, job string, re *regexp.Regexp) (*catalog.File, error) {
	return c.Catalog().FileMatching(wiki, job, re)
}

// Files iterates over every file in the index.
func (c *Client) Files() iter.Seq[catalog.FilePath] {
	return c.Catalog().Files()
}

// FileURL resolves the URL of file against the index URL of the current mirror.
func (c *Client) FileURL(file *catalog.File) (string, error) {
	return c.Mirror().ResolveURL(file.URL)
}

// Download starts a background download of file and returns its task.
func (c *Client) Download(ctx context.Context, file *catalog.File, opts DownloadOptions) (*download.Task, error) {
	if file == nil {
		return nil, errutils.Wrap(errutils.ErrDownloadFailed, "no file given")
	}
	source, err := c.FileURL(file)
	if err != nil {
		return nil, errutils.Wrapf(err, "resolve URL of %s", file.Name)
	}

	return c.opts.Downloads.Start(ctx, download.Request{
		URL:         source,
		Destination: opts.Destination,
		Dir:         opts.Dir,
		Size:        file.Size,
		SHA1:        file.SHA1,
		Decompress:  !opts.KeepCompressed,
		ChunkSize:   opts.ChunkSize,
		Hooks:       opts.Hooks,
	})
}
