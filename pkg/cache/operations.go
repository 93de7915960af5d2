package cache

import (
	"fmt"
	"strings"

	"github.com/glorpus-work/wikidump/internal/logger"
)

// CacheOperation renders cache management results for humans.
type CacheOperation struct {
	manager Manager
}

// NewCacheOperation creates a new cache operation instance.
func NewCacheOperation(manager Manager) *CacheOperation {
	return &CacheOperation{
		manager: manager,
	}
}

// Clean removes expired entries, or every entry when all is set, and describes the result.
func (op *CacheOperation) Clean(all bool) (string, error) {
	logger.Debug("Cleaning cache", logger.Fields{"all": all, "directory": op.manager.GetDirectory()})

	result, err := op.manager.Clean(CleanOptions{All: all})
	if err != nil {
		return "", err
	}

	if len(result.Removed) == 0 {
		return "No files were removed from the cache.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Successfully cleaned cache. Freed %s of disk space.", formatBytes(result.TotalFreed))
	for _, name := range result.Removed {
		fmt.Fprintf(&b, "\n- %s", name)
	}
	return b.String(), nil
}

// GetInfo returns information about the cache.
func (op *CacheOperation) GetInfo() (string, error) {
	info, err := op.manager.GetInfo()
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`Cache Information:
  Directory:    %s
  Total Size:   %s
  Files:        %d
  Current:      %d
  Expired:      %d
  Unrecognized: %d`,
		info.Directory,
		formatBytes(info.TotalSize),
		info.Files,
		info.CurrentFiles,
		info.ExpiredFiles,
		info.ForeignFiles,
	), nil
}

// GetDirectory returns the cache directory path.
func (op *CacheOperation) GetDirectory() string {
	return op.manager.GetDirectory()
}

// formatBytes converts bytes to a human-readable string.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	units := []string{"K", "M", "G", "T", "P", "E"}
	if exp < len(units) {
		return fmt.Sprintf("%.1f %sB", float64(bytes)/float64(div), units[exp])
	}
	return fmt.Sprintf("%d B", bytes)
}
