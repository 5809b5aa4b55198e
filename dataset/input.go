package dataset

import (
	"bufio"
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// Compression identifies a stream compression format.
type Compression int

const (
	Uncompressed Compression = iota
	Gzip
	Zstd
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// ErrInputTooLarge is returned once a limited input yields more bytes than
// its limit.
var ErrInputTooLarge = errors.New("input exceeds size limit")

// LimitInput returns a reader that yields at most n bytes of r and then
// fails with ErrInputTooLarge if r has more. Unlike io.LimitReader the
// truncation is reported, so a decompressed stream cannot grow unnoticed.
func LimitInput(r io.Reader, n int64) io.Reader {
	return &limitedInput{r: r, n: n}
}

type limitedInput struct {
	r io.Reader
	n int64
}

func (l *limitedInput) Read(p []byte) (int, error) {
	if l.n <= 0 {
		var one [1]byte
		k, err := l.r.Read(one[:])
		if k > 0 {
			return 0, ErrInputTooLarge
		}
		return 0, err
	}
	if int64(len(p)) > l.n {
		p = p[:l.n]
	}
	k, err := l.r.Read(p)
	l.n -= int64(k)
	return k, err
}

// String returns the compression name.
func (c Compression) String() string {
	switch c {
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	default:
		return "none"
	}
}

// DetectCompression sniffs the leading bytes of a stream.
func DetectCompression(magic []byte) Compression {
	switch {
	case bytes.HasPrefix(magic, gzipMagic):
		return Gzip
	case bytes.HasPrefix(magic, zstdMagic):
		return Zstd
	default:
		return Uncompressed
	}
}

// Decompress wraps r in a decoder when it starts with a gzip or zstd
// header, so .jsonl.gz and .jsonl.zst files can be read directly. Plain
// input is returned buffered and unchanged. Closing the result releases
// the decoder but not r.
func Decompress(r io.Reader) (io.ReadCloser, Compression, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		return nil, Uncompressed, errors.Wrap(err, "reading input header")
	}

	switch c := DetectCompression(magic); c {
	case Gzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, c, errors.Wrap(err, "opening gzip stream")
		}
		return zr, c, nil
	case Zstd:
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, c, errors.Wrap(err, "opening zstd stream")
		}
		return dec.IOReadCloser(), c, nil
	default:
		return io.NopCloser(br), c, nil
	}
}
