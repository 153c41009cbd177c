package decoder

import (
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/born-ml/idx/internal/dtype"
)

// Options configures an AnyDecoder. Zero values disable the matching check.
type Options struct {
	Type dtype.Type // Required element type, 0 for any.
	Dims int        // Required dimension count, 0 for any.
}

// AnyDecoder decodes an IDX stream whose element type is only known at run
// time.
type AnyDecoder struct {
	s *stream
}

// NewAny reads the header from r and checks it against opts.
func NewAny(r io.Reader, opts Options) (*AnyDecoder, error) {
	if err := checkDims(opts.Dims, true); err != nil {
		return nil, err
	}
	if opts.Type != 0 && !opts.Type.Valid() {
		return nil, fmt.Errorf("%w: requested tag 0x%02x", ErrUnsupportedElementType, uint8(opts.Type))
	}

	s, err := newStream(r, opts.Type, opts.Dims)
	if err != nil {
		return nil, err
	}
	return &AnyDecoder{s: s}, nil
}

// Header returns a copy of the parsed header.
func (d *AnyDecoder) Header() Header {
	return d.s.headerCopy()
}

// Remaining returns the number of items not yet produced.
func (d *AnyDecoder) Remaining() int {
	return clampInt(uint64(d.s.remaining))
}

// Next returns the next item, with the same end and error contract as
// Decoder.Next.
func (d *AnyDecoder) Next() (Item, error) {
	raw, err := d.s.next()
	if err != nil {
		return Item{}, err
	}
	values, err := dtype.DecodeAny(d.s.header.Type, raw)
	if err != nil {
		return Item{}, err
	}
	return Item{Type: d.s.header.Type, values: values}, nil
}

// Items returns the remaining items as a single-use sequence.
func (d *AnyDecoder) Items() iter.Seq2[Item, error] {
	return func(yield func(Item, error) bool) {
		for {
			item, err := d.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(Item{}, err)
				return
			}
			if !yield(item, nil) {
				return
			}
		}
	}
}

// Item is one runtime-typed item: a row-major slice of the header's element
// type.
type Item struct {
	Type   dtype.Type
	values any
}

// Values returns the underlying slice: []uint8, []int8, []int16, []int32,
// []float32 or []float64 depending on Type.
func (it Item) Values() any {
	return it.values
}

// Len returns the number of elements.
func (it Item) Len() int {
	switch v := it.values.(type) {
	case []uint8:
		return len(v)
	case []int8:
		return len(v)
	case []int16:
		return len(v)
	case []int32:
		return len(v)
	case []float32:
		return len(v)
	case []float64:
		return len(v)
	}
	return 0
}

// At returns element i widened to float64. Every IDX element type is exactly
// representable as float64.
func (it Item) At(i int) float64 {
	switch v := it.values.(type) {
	case []uint8:
		return float64(v[i])
	case []int8:
		return float64(v[i])
	case []int16:
		return float64(v[i])
	case []int32:
		return float64(v[i])
	case []float32:
		return float64(v[i])
	case []float64:
		return v[i]
	}
	panic(fmt.Sprintf("decoder: empty item has no element %d", i))
}

// Float64s returns a widened copy of all elements.
func (it Item) Float64s() []float64 {
	out := make([]float64, it.Len())
	for i := range out {
		out[i] = it.At(i)
	}
	return out
}
