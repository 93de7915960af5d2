package download

import (
	"io"
	"strings"

	"github.com/mholt/archives"
)

// Compression is the transform applied between the downloaded bytes and the destination file.
type Compression int

// Compression kinds.
const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionBzip2
)

const (
	gzipSuffix  = ".gz"
	bzip2Suffix = ".bz2"
)

func (c Compression) String() string {
	switch c {
	case CompressionGzip:
		return "gzip"
	case CompressionBzip2:
		return "bzip2"
	default:
		return "none"
	}
}

// decompressor returns nil for CompressionNone.
func (c Compression) decompressor() archives.Decompressor {
	switch c {
	case CompressionGzip:
		return archives.Gz{}
	case CompressionBzip2:
		return archives.Bz2{}
	default:
		return nil
	}
}

// open wraps r in the decompressing reader for c. CompressionNone passes r through.
func (c Compression) open(r io.Reader) (io.ReadCloser, error) {
	d := c.decompressor()
	if d == nil {
		return io.NopCloser(r), nil
	}
	return d.OpenReader(r)
}

// CompressionFor infers the compression from the source URL. An unrecognised
// suffix, or decompress being false, yields CompressionNone.
func CompressionFor(url string, decompress bool) Compression {
	switch {
	case !decompress:
		return CompressionNone
	case strings.HasSuffix(url, gzipSuffix):
		return CompressionGzip
	case strings.HasSuffix(url, bzip2Suffix):
		return CompressionBzip2
	default:
		return CompressionNone
	}
}

// ResolveDestination derives a file name from the last path segment of url.
// When decompressing, one trailing .gz or .bz2 is removed.
func ResolveDestination(url string, decompress bool) string {
	name := url[strings.LastIndex(url, "/")+1:]
	if !decompress {
		return name
	}
	if stripped, ok := strings.CutSuffix(name, gzipSuffix); ok {
		return stripped
	}
	stripped, _ := strings.CutSuffix(name, bzip2Suffix)
	return stripped
}
