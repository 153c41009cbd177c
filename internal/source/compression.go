package source

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies a stream compression format.
type Compression uint8

// Recognized compression formats.
const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionZstd
	CompressionLZ4
)

// Frame magics, in stream order.
var (
	magicGzip = []byte{0x1f, 0x8b}
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLZ4  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// String returns the format name.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionGzip:
		return "gzip"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// Detect identifies the compression of a stream from its first bytes.
func Detect(prefix []byte) Compression {
	switch {
	case bytes.HasPrefix(prefix, magicGzip):
		return CompressionGzip
	case bytes.HasPrefix(prefix, magicZstd):
		return CompressionZstd
	case bytes.HasPrefix(prefix, magicLZ4):
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// Decompress sniffs r and returns a reader of the decompressed bytes.
// Closing the result releases the decompressor but not r.
func Decompress(r io.Reader) (io.ReadCloser, Compression, error) {
	br := bufio.NewReader(r)
	// A short peek just means a short stream; the decoder reports that.
	prefix, _ := br.Peek(len(magicZstd))

	kind := Detect(prefix)
	switch kind {
	case CompressionGzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, kind, fmt.Errorf("gzip: %w", err)
		}
		return zr, kind, nil
	case CompressionZstd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, kind, fmt.Errorf("zstd: %w", err)
		}
		return zr.IOReadCloser(), kind, nil
	case CompressionLZ4:
		return io.NopCloser(lz4.NewReader(br)), kind, nil
	default:
		return io.NopCloser(br), kind, nil
	}
}
