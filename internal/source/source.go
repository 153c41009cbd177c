package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/minio/minio-go/v7"
)

// Errors returned by Open.
var (
	ErrNotFound          = os.ErrNotExist
	ErrUnsupportedScheme = errors.New("unsupported location scheme")
)

type options struct {
	logger      *slog.Logger
	s3Client    *s3.Client
	minioClient *minio.Client
	rateLimit   int // Bytes per second, 0 = unlimited.
	decompress  bool
}

// Option configures Open.
type Option func(*options)

// WithLogger sets the logger used for debug output. Nil disables logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithS3Client sets the AWS S3 client used for s3:// locations.
//
// Without it (and without WithMinio) a client is built from the AWS default
// configuration chain on first use.
func WithS3Client(c *s3.Client) Option {
	return func(o *options) {
		o.s3Client = c
	}
}

// WithMinio serves s3:// locations from a MinIO or other S3-compatible
// endpoint. It takes precedence over WithS3Client.
func WithMinio(c *minio.Client) Option {
	return func(o *options) {
		o.minioClient = c
	}
}

// WithRateLimit throttles reads from the underlying object to bytesPerSecond.
// The limit applies to stored bytes, before decompression.
func WithRateLimit(bytesPerSecond int) Option {
	return func(o *options) {
		o.rateLimit = bytesPerSecond
	}
}

// WithoutDecompression disables compression sniffing.
func WithoutDecompression() Option {
	return func(o *options) {
		o.decompress = false
	}
}

// Open opens location for sequential reading.
//
// The caller must close the returned reader. ctx bounds the remote request
// and any throttled read.
func Open(ctx context.Context, location string, opts ...Option) (io.ReadCloser, error) {
	o := options{decompress: true}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	raw, err := openRaw(ctx, location, &o)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", location, err)
	}

	var r io.Reader = raw
	if o.rateLimit > 0 {
		r = newThrottledReader(ctx, r, o.rateLimit)
	}

	if !o.decompress {
		o.logger.DebugContext(ctx, "source opened", "location", location)
		return &readCloser{Reader: r, closers: []func() error{raw.Close}}, nil
	}

	rc, kind, err := Decompress(r)
	if err != nil {
		_ = raw.Close() // Best effort close on error.
		return nil, fmt.Errorf("open %s: %w", location, err)
	}
	o.logger.DebugContext(ctx, "source opened",
		"location", location,
		"compression", kind.String(),
		"rate_limit", o.rateLimit,
	)

	return &readCloser{Reader: rc, closers: []func() error{rc.Close, raw.Close}}, nil
}

func openRaw(ctx context.Context, location string, o *options) (io.ReadCloser, error) {
	scheme, rest, ok := strings.Cut(location, "://")
	if !ok {
		return openFile(location)
	}

	switch scheme {
	case "file":
		return openFile(rest)
	case "s3":
		bucket, key, ok := strings.Cut(rest, "/")
		if !ok || bucket == "" || key == "" {
			return nil, fmt.Errorf("s3 location must be s3://bucket/key, got %q", location)
		}
		if o.minioClient != nil {
			return openMinio(ctx, o.minioClient, bucket, key)
		}
		return openS3(ctx, o.s3Client, bucket, key)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
	}
}

func openFile(path string) (io.ReadCloser, error) {
	//nolint:gosec // G304: Opening a user-supplied dataset path is the point.
	return os.Open(path)
}

// readCloser closes every layer of a stream, innermost last.
type readCloser struct {
	io.Reader
	closers []func() error
}

func (rc *readCloser) Close() error {
	var errs []error
	for _, c := range rc.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
