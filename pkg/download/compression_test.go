package download

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveDestination(t *testing.T) {
	tests := []struct {
		url        string
		decompress bool
		want       string
	}{
		{"https://example.org/dump/foo.sql.gz", true, "foo.sql"},
		{"https://example.org/dump/foo.sql.gz", false, "foo.sql.gz"},
		{"https://example.org/dump/foo.xml.bz2", true, "foo.xml"},
		{"https://example.org/dump/foo.xml.bz2", false, "foo.xml.bz2"},
		{"https://example.org/dump/foo.json", true, "foo.json"},
		{"https://example.org/dump/foo.bz2.gz", true, "foo.bz2"},
		{"foo.sql.gz", true, "foo.sql"},
		{"https://example.org/dump/", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveDestination(tt.url, tt.decompress))
		})
	}
}

func TestCompressionFor(t *testing.T) {
	tests := []struct {
		url        string
		decompress bool
		want       Compression
	}{
		{"https://example.org/a.sql.gz", true, CompressionGzip},
		{"https://example.org/a.xml.bz2", true, CompressionBzip2},
		{"https://example.org/a.xml.7z", true, CompressionNone},
		{"https://example.org/a.sql.gz", false, CompressionNone},
		{"https://example.org/a.xml.bz2", false, CompressionNone},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, CompressionFor(tt.url, tt.decompress))
		})
	}

	assert.Equal(t, "gzip", CompressionGzip.String())
	assert.Equal(t, "bzip2", CompressionBzip2.String())
	assert.Equal(t, "none", CompressionNone.String())
	assert.Nil(t, CompressionNone.decompressor())
}
