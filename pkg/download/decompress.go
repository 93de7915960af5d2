package download

import (
	"io"
	"os"

	"github.com/glorpus-work/wikidump/pkg/errutils"
	"github.com/glorpus-work/wikidump/pkg/fsutil"
)

// decompressChunkFactor scales the network chunk size to the decompressor read size.
const decompressChunkFactor = 10

// countingReader tracks how many bytes were consumed from the compressed source.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// readChunk fills buf from r until it is full or r returns an error. The error is
// passed through unchanged, so only io.EOF marks a clean end of stream.
func readChunk(r io.Reader, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// decompress writes src through the task's decompressor into the destination file.
// Progress is measured in compressed bytes consumed, so it lags the written output
// for compressible data. DecompressComplete fires exactly once before it returns.
func (m *Manager) decompress(src io.Reader, t *Task) (err error) {
	defer func() {
		err = complete(t.hooks.DecompressComplete, err)
	}()

	counter := &countingReader{r: src}
	reader, err := t.Compression.open(counter)
	if err != nil {
		return errutils.Wrapf(err, "open %s stream", t.Compression)
	}
	defer func() { _ = reader.Close() }()

	if err := fsutil.EnsureFileDirFs(m.fs, t.Destination); err != nil {
		return errutils.Wrap(err, "could not create destination directory")
	}
	out, err := m.fs.OpenFile(t.Destination, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fsutil.FileModeDefault)
	if err != nil {
		return errutils.Wrap(err, "could not open destination")
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = errutils.Wrap(closeErr, "could not close destination")
		}
	}()

	buf := make([]byte, decompressChunkFactor*t.chunkSize)
	var reported int64
	for {
		n, readErr := readChunk(reader, buf)
		if n > 0 {
			t.hooks.DecompressProgress(counter.n-reported, t.Size)
			reported = counter.n
			if _, err := out.Write(buf[:n]); err != nil {
				return errutils.Wrap(err, "could not write destination")
			}
			m.metrics.RecordWritten(n)
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return errutils.Wrapf(readErr, "could not read %s stream", t.Compression)
		}
	}
}
