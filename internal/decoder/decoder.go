package decoder

import (
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/born-ml/idx/internal/dtype"
)

// Decoder lazily decodes an IDX stream whose element type is T and whose
// dimension count is fixed by the caller.
type Decoder[T dtype.Element] struct {
	s *stream
}

// New reads the header from r and checks it against T and dims.
//
// A header that does not describe dims dimensions of T elements is rejected
// with ErrTypeMismatch or ErrDimensionMismatch before any element is read.
// The decoder owns r from now on; reading r elsewhere desynchronizes it.
func New[T dtype.Element](r io.Reader, dims int) (*Decoder[T], error) {
	if err := checkDims(dims, false); err != nil {
		return nil, err
	}

	s, err := newStream(r, dtype.TypeOf[T](), dims)
	if err != nil {
		return nil, err
	}
	return &Decoder[T]{s: s}, nil
}

// Header returns a copy of the parsed header.
func (d *Decoder[T]) Header() Header {
	return d.s.headerCopy()
}

// Dims returns a copy of the dimension sizes.
func (d *Decoder[T]) Dims() []uint32 {
	return d.s.headerCopy().Dims
}

// Remaining returns the number of items not yet produced.
func (d *Decoder[T]) Remaining() int {
	return clampInt(uint64(d.s.remaining))
}

// ItemLen returns the number of elements in each item.
func (d *Decoder[T]) ItemLen() int {
	return d.s.itemLen
}

// Next returns the next item in row-major order.
//
// It returns io.EOF once all items have been produced. A short source yields
// ErrTruncatedData and a failing one a *SourceError; after an error every
// call returns that same error.
func (d *Decoder[T]) Next() ([]T, error) {
	raw, err := d.s.next()
	if err != nil {
		return nil, err
	}
	item := make([]T, d.s.itemLen)
	dtype.Decode(item, raw)
	return item, nil
}

// NextScalar returns the next element of a 1-D file.
func (d *Decoder[T]) NextScalar() (T, error) {
	var zero T
	if n := len(d.s.header.Dims); n != 1 {
		return zero, fmt.Errorf("%w: scalar items need 1 dimension, file has %d", ErrDimensionMismatch, n)
	}
	item, err := d.Next()
	if err != nil {
		return zero, err
	}
	return item[0], nil
}

// Items returns the remaining items as a single-use sequence. Iteration ends
// after the last item or after yielding the first error.
func (d *Decoder[T]) Items() iter.Seq2[[]T, error] {
	return func(yield func([]T, error) bool) {
		for {
			item, err := d.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(item, nil) {
				return
			}
		}
	}
}

// Scalars is Items for 1-D files.
func (d *Decoder[T]) Scalars() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			v, err := d.NextScalar()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(v, err)
				return
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}

// ReadAll decodes every remaining item into one tensor of shape
// [Remaining(), Dims[1:]...].
func (d *Decoder[T]) ReadAll() (*Tensor[T], error) {
	shape := make([]int, len(d.s.header.Dims))
	shape[0] = d.Remaining()
	for i, dim := range d.s.header.Dims[1:] {
		shape[i+1] = clampInt(uint64(dim))
	}

	total, err := elementCount(shape[0], d.s.itemLen)
	if err != nil {
		return nil, err
	}

	data := make([]T, 0, min(total, maxPrealloc))
	for {
		raw, err := d.s.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		n := len(data)
		data = append(data, make([]T, d.s.itemLen)...)
		dtype.Decode(data[n:], raw)
	}

	return &Tensor[T]{Shape: shape, Data: data}, nil
}
