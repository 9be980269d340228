package source

import (
	"bufio"
	"bytes"
	"context"
	"io"

	"github.com/hupe1980/vecpack/blobstore"
	"github.com/hupe1980/vecpack/internal/resource"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// MaxLineSize is the longest line the line reader accepts.
const MaxLineSize = 64 << 20

const readBufferSize = 256 * 1024

// Open returns a decompressed stream over the whole blob. Reads are charged
// against rc when it is non-nil.
func Open(ctx context.Context, blob blobstore.Blob, format Format, rc *resource.Controller) (io.ReadCloser, error) {
	var r io.Reader = blobstore.NewReader(ctx, blob)
	if rc != nil {
		r = resource.NewRateLimitedReader(ctx, r, rc)
	}
	r = bufio.NewReaderSize(r, readBufferSize)
	return Decompress(r, format)
}

// Decompress wraps r according to format.
func Decompress(r io.Reader, format Format) (io.ReadCloser, error) {
	switch format {
	case Gzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zr, nil
	case Zstd:
		dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return io.NopCloser(r), nil
	}
}

// CountLines counts lines the way LineReader yields them: a final line
// without a trailing newline still counts.
func CountLines(r io.Reader) (int, error) {
	buf := make([]byte, readBufferSize)
	count := 0
	last := byte('\n')
	for {
		n, err := r.Read(buf)
		if n > 0 {
			count += bytes.Count(buf[:n], []byte{'\n'})
			last = buf[n-1]
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, err
		}
	}
	if last != '\n' {
		count++
	}
	return count, nil
}

// LineReader iterates over lines, tracking 1-based line numbers.
type LineReader struct {
	sc   *bufio.Scanner
	line int
}

// NewLineReader creates a LineReader accepting lines up to MaxLineSize.
func NewLineReader(r io.Reader) *LineReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	return &LineReader{sc: sc}
}

// Next advances to the next line.
func (l *LineReader) Next() bool {
	if !l.sc.Scan() {
		return false
	}
	l.line++
	return true
}

// Bytes returns the current line without its terminator. The slice is only
// valid until the next call to Next.
func (l *LineReader) Bytes() []byte { return l.sc.Bytes() }

// Line returns the 1-based number of the current line.
func (l *LineReader) Line() int { return l.line }

// Err returns the first non-EOF error encountered.
func (l *LineReader) Err() error { return l.sc.Err() }
