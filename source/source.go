// Package source opens byte streams for IDX decoding: local files, file://
// URLs and s3://bucket/key objects (AWS S3 or MinIO), with transparent gzip,
// zstd and lz4 decompression.
//
// Example:
//
//	rc, err := source.Open(ctx, "train-images-idx3-ubyte.gz")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rc.Close()
//
//	dec, err := idx.NewDecoder[uint8](rc, 3)
package source

import (
	"github.com/born-ml/idx/internal/source"
)

// Option configures Open.
type Option = source.Option

// Compression identifies a stream compression format.
type Compression = source.Compression

// Recognized compression formats.
const (
	CompressionNone = source.CompressionNone
	CompressionGzip = source.CompressionGzip
	CompressionZstd = source.CompressionZstd
	CompressionLZ4  = source.CompressionLZ4
)

// Errors returned by Open.
var (
	ErrNotFound          = source.ErrNotFound
	ErrUnsupportedScheme = source.ErrUnsupportedScheme
)

// Open opens a location for sequential reading. The caller must close it.
var Open = source.Open

// Decompress sniffs a stream and wraps it in the matching decompressor.
var Decompress = source.Decompress

// Detect identifies a compression format from the first bytes of a stream.
var Detect = source.Detect

// Options.
var (
	WithLogger           = source.WithLogger
	WithS3Client         = source.WithS3Client
	WithMinio            = source.WithMinio
	WithRateLimit        = source.WithRateLimit
	WithoutDecompression = source.WithoutDecompression
)
