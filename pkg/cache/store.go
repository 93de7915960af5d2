package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/glorpus-work/wikidump/internal/logger"
	"github.com/glorpus-work/wikidump/pkg/errutils"
	"github.com/glorpus-work/wikidump/pkg/fsutil"
	"github.com/glorpus-work/wikidump/pkg/mirror"
)

var _ Manager = (*Store)(nil)

// Store keeps one index file per mirror and calendar day in a flat directory.
// It does no locking; concurrent first-time creation of the same entry may race.
type Store struct {
	directory string
	fs        afero.Fs
	now       func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock replaces time.Now as the source of "today".
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// WithFs replaces the operating system filesystem.
func WithFs(fs afero.Fs) StoreOption {
	return func(s *Store) {
		s.fs = fs
	}
}

// NewStore creates a store rooted at dir. An empty dir resolves to the index
// cache directory under the user cache directory, or to FallbackDir relative to
// the working directory when that cannot be determined. Use NewDefaultStore to
// get the error instead.
func NewStore(dir string, opts ...StoreOption) *Store {
	s := &Store{
		directory: dir,
		fs:        afero.NewOsFs(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.directory == "" {
		if d, err := fsutil.GetIndexCacheDir(); err == nil {
			s.directory = d
		} else {
			logger.Warn("Could not resolve user cache directory, using working directory", logger.Fields{"error": err, "directory": FallbackDir})
			s.directory = FallbackDir
		}
	}
	return s
}

// NewDefaultStore creates a store in the default index cache directory.
func NewDefaultStore(opts ...StoreOption) (*Store, error) {
	dir, err := fsutil.GetIndexCacheDir()
	if err != nil {
		return nil, errutils.Wrapf(err, "failed to get user cache directory")
	}
	return NewStore(dir, opts...), nil
}

// GetDirectory returns the cache directory path.
func (s *Store) GetDirectory() string {
	return s.directory
}

func (s *Store) today() string {
	return s.now().Format(dateLayout)
}

// FileName returns the cache file name for a mirror created today.
func (s *Store) FileName(m mirror.Mirror) (string, error) {
	name, err := Normalize(m.Name)
	if err != nil {
		return "", err
	}
	return name + separator + s.today() + Extension, nil
}

// pathFor joins fileName onto the cache directory and verifies the result
// stays directly inside it.
func (s *Store) pathFor(fileName string) (string, error) {
	path := filepath.Join(s.directory, fileName)
	if err := s.confined(path); err != nil {
		return "", err
	}
	return path, nil
}

func (s *Store) confined(path string) error {
	absDir, err := filepath.Abs(s.directory)
	if err != nil {
		return errutils.Wrapf(err, "resolve cache directory %s", s.directory)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return errutils.Wrapf(err, "resolve cache path %s", path)
	}
	if filepath.Dir(absPath) != absDir {
		return fmt.Errorf("%w: %s is not inside %s", errutils.ErrPathEscape, absPath, absDir)
	}
	return nil
}

// Get returns today's cache entry for m, creating an empty placeholder when none exists.
// A path that escapes the cache directory is a defect and panics.
func (s *Store) Get(m mirror.Mirror) (Result, error) {
	fileName, err := s.FileName(m)
	if err != nil {
		return Result{}, err
	}
	path, err := s.pathFor(fileName)
	if err != nil {
		panic(err)
	}

	data, err := afero.ReadFile(s.fs, path)
	switch {
	case err == nil:
		logger.Debug("Index cache entry found", logger.Fields{"path": path, "bytes": len(data)})
		return Result{Path: path, Content: string(data), Hit: len(data) > 0}, nil
	case !os.IsNotExist(err):
		return Result{}, errutils.Wrapf(err, "read cache file %s", path)
	}

	if err := s.fs.MkdirAll(s.directory, CacheDirPerm); err != nil {
		return Result{}, fmt.Errorf("%w %s: %w", errutils.ErrCacheDirectory, s.directory, err)
	}
	f, err := s.fs.OpenFile(path, os.O_CREATE|os.O_WRONLY, fsutil.FileModeDefault)
	if err != nil {
		return Result{}, errutils.Wrapf(err, "create cache file %s", path)
	}
	if err := f.Close(); err != nil {
		return Result{}, errutils.Wrapf(err, "create cache file %s", path)
	}
	logger.Debug("Index cache placeholder created", logger.Fields{"path": path})
	return Result{Path: path}, nil
}

// Put stores index content at a path previously returned by Get.
func (s *Store) Put(path, content string) error {
	if err := s.confined(path); err != nil {
		return err
	}
	if err := s.fs.MkdirAll(s.directory, CacheDirPerm); err != nil {
		return fmt.Errorf("%w %s: %w", errutils.ErrCacheDirectory, s.directory, err)
	}
	if err := afero.WriteFile(s.fs, path, []byte(content), fsutil.FileModeDefault); err != nil {
		return errutils.Wrapf(err, "write cache file %s", path)
	}
	return nil
}
