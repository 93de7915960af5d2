package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/glorpus-work/wikidump/internal/logger"
	"github.com/glorpus-work/wikidump/pkg/errutils"
)

// entryDate extracts the date segment from a cache file name.
// ok is false for names that lack the extension, are not name__date shaped or carry an unparsable date.
func entryDate(fileName string) (date string, ok bool) {
	stem, found := strings.CutSuffix(fileName, Extension)
	if !found {
		return "", false
	}
	parts := strings.Split(stem, separator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", false
	}
	if _, err := time.Parse(dateLayout, parts[1]); err != nil {
		return "", false
	}
	return parts[1], true
}

// ClearExpired removes every cache file whose date is not today and returns the removed names.
// Foreign or malformed files are left alone. Expiry is an exact date match, so an entry
// dated in the future is removed as well.
func (s *Store) ClearExpired() ([]string, error) {
	today := s.today()
	removed, _, err := s.remove(func(name string) bool {
		date, ok := entryDate(name)
		return ok && date != today
	})
	if err != nil {
		return removed, err
	}
	logger.Info("Removed expired index cache files", logger.Fields{"removed": removed, "directory": s.directory})
	return removed, nil
}

// ForceClear removes every file carrying the cache extension.
func (s *Store) ForceClear() ([]string, error) {
	logger.Warn("Removing all index cache files", logger.Fields{"directory": s.directory})
	removed, _, err := s.remove(func(name string) bool {
		return strings.HasSuffix(name, Extension)
	})
	if err != nil {
		return removed, err
	}
	logger.Info("Removed index cache files", logger.Fields{"removed": removed, "directory": s.directory})
	return removed, nil
}

// Clean removes cache files according to the options and reports the bytes freed.
func (s *Store) Clean(options CleanOptions) (*CleanResult, error) {
	today := s.today()
	match := func(name string) bool {
		if options.All {
			return strings.HasSuffix(name, Extension)
		}
		date, ok := entryDate(name)
		return ok && date != today
	}

	logger.Debug("Cleaning index cache", logger.Fields{"all": options.All, "directory": s.directory})
	removed, freed, err := s.remove(match)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCacheClean, err)
	}
	return &CleanResult{Removed: removed, TotalFreed: freed}, nil
}

// remove deletes the regular files in the cache directory whose names satisfy match.
// A missing directory is not an error.
func (s *Store) remove(match func(name string) bool) (removed []string, freed int64, err error) {
	removed = []string{}
	entries, err := afero.ReadDir(s.fs, s.directory)
	if err != nil {
		if os.IsNotExist(err) {
			return removed, 0, nil
		}
		return removed, 0, errutils.Wrapf(err, "read cache directory %s", s.directory)
	}

	for _, entry := range entries {
		if entry.IsDir() || !match(entry.Name()) {
			continue
		}
		if err := s.fs.Remove(filepath.Join(s.directory, entry.Name())); err != nil {
			return removed, freed, errutils.Wrapf(err, "remove cache file %s", entry.Name())
		}
		removed = append(removed, entry.Name())
		freed += entry.Size()
	}
	return removed, freed, nil
}

// GetInfo returns information about the cache directory.
func (s *Store) GetInfo() (*Info, error) {
	info := &Info{Directory: s.directory}

	entries, err := afero.ReadDir(s.fs, s.directory)
	if err != nil {
		if os.IsNotExist(err) {
			return info, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrCacheInfo, err)
	}

	today := s.today()
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Extension) {
			continue
		}
		info.Files++
		info.TotalSize += entry.Size()
		date, ok := entryDate(entry.Name())
		switch {
		case !ok:
			info.ForeignFiles++
		case date == today:
			info.CurrentFiles++
		default:
			info.ExpiredFiles++
		}
	}
	return info, nil
}
