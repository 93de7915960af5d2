package cache

import "github.com/glorpus-work/wikidump/pkg/mirror"

// Manager defines the interface for index cache operations.
type Manager interface {
	Get(m mirror.Mirror) (Result, error)
	Put(path, content string) error
	Clean(options CleanOptions) (*CleanResult, error)
	GetInfo() (*Info, error)
	GetDirectory() string
}

// Result is the outcome of a cache lookup.
// Hit is false when the file was just created as an empty placeholder or was found empty.
type Result struct {
	Path    string
	Content string
	Hit     bool
}

// CleanOptions specifies what to clean from the cache.
type CleanOptions struct {
	// All removes every cache file regardless of its date.
	All bool
}

// CleanResult contains information about what was cleaned.
type CleanResult struct {
	Removed    []string
	TotalFreed int64
}

// Info represents cache information.
type Info struct {
	Directory    string
	TotalSize    int64
	Files        int
	CurrentFiles int
	ExpiredFiles int
	ForeignFiles int
}
