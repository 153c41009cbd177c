package idx

import (
	"context"
	"fmt"
	"io"

	"github.com/born-ml/idx/internal/decoder"
	"github.com/born-ml/idx/internal/dtype"
	"github.com/born-ml/idx/internal/source"
)

// Type is an element type tag.
type Type = dtype.Type

// Element type tags.
const (
	Uint8   Type = dtype.Uint8
	Int8    Type = dtype.Int8
	Int16   Type = dtype.Int16
	Int32   Type = dtype.Int32
	Float32 Type = dtype.Float32
	Float64 Type = dtype.Float64
)

// Element is the set of Go types an IDX element decodes into.
type Element = dtype.Element

// Header is a parsed IDX header.
type Header = decoder.Header

// Decoder lazily decodes items of element type T.
type Decoder[T Element] = decoder.Decoder[T]

// Tensor is a fully decoded IDX payload.
type Tensor[T Element] = decoder.Tensor[T]

// AnyDecoder decodes items whose element type is only known at run time.
type AnyDecoder = decoder.AnyDecoder

// Item is one runtime-typed item.
type Item = decoder.Item

// Options configures NewAnyDecoder.
type Options = decoder.Options

// SourceError wraps a failure of the underlying reader.
type SourceError = decoder.SourceError

// Decoding errors.
var (
	ErrInvalidMagic           = decoder.ErrInvalidMagic
	ErrUnsupportedElementType = decoder.ErrUnsupportedElementType
	ErrInvalidDimensionCount  = decoder.ErrInvalidDimensionCount
	ErrTypeMismatch           = decoder.ErrTypeMismatch
	ErrDimensionMismatch      = decoder.ErrDimensionMismatch
	ErrTruncatedData          = decoder.ErrTruncatedData
	ErrShapeOverflow          = decoder.ErrShapeOverflow
	ErrSource                 = decoder.ErrSource
)

// NewDecoder reads the header from r and checks that it declares dims
// dimensions of T elements.
func NewDecoder[T Element](r io.Reader, dims int) (*Decoder[T], error) {
	return decoder.New[T](r, dims)
}

// NewAnyDecoder reads the header from r and checks it against opts.
func NewAnyDecoder(r io.Reader, opts Options) (*AnyDecoder, error) {
	return decoder.NewAny(r, opts)
}

// ReadHeader parses only the header of r.
func ReadHeader(r io.Reader) (Header, error) {
	return decoder.ReadHeader(r)
}

// TypeOf returns the tag of the Go element type T.
func TypeOf[T Element]() Type {
	return dtype.TypeOf[T]()
}

// Load opens location (see package source), decodes every item and closes
// the stream.
func Load[T Element](ctx context.Context, location string, dims int, opts ...source.Option) (*Tensor[T], error) {
	rc, err := source.Open(ctx, location, opts...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rc.Close() // Read-only; nothing to flush.
	}()

	dec, err := decoder.New[T](rc, dims)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location, err)
	}
	t, err := dec.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location, err)
	}
	return t, nil
}
