package decoder

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"math/bits"
	"strings"

	"github.com/born-ml/idx/internal/dtype"
)

// MaxDims is the largest dimension count a header can declare.
const MaxDims = math.MaxUint8

// prefixSize is magic + type tag + dimension count.
const prefixSize = 4

// Header is a parsed IDX header.
type Header struct {
	Type dtype.Type
	Dims []uint32 // Outer to inner; Dims[0] is the item count.
}

// NumItems returns the number of top-level items.
func (h Header) NumItems() int {
	if len(h.Dims) == 0 {
		return 0
	}
	return clampInt(uint64(h.Dims[0]))
}

// ItemLen returns the number of elements in one item: the product of all
// dimensions but the first, 1 for a 1-D file. It saturates at MaxInt.
func (h Header) ItemLen() int {
	n := uint64(1)
	for _, d := range h.Dims[min(1, len(h.Dims)):] {
		n = mulSat(n, uint64(d))
	}
	return clampInt(n)
}

// ItemSize returns the size in bytes of one item, saturating at MaxInt.
func (h Header) ItemSize() int {
	n := uint64(1)
	for _, d := range h.Dims[min(1, len(h.Dims)):] {
		n = mulSat(n, uint64(d))
	}
	return clampInt(mulSat(n, uint64(h.Type.Width()))) //nolint:gosec // Width is at most 8.
}

// NumElements returns the product of all dimensions, saturating at MaxUint64.
func (h Header) NumElements() uint64 {
	if len(h.Dims) == 0 {
		return 0
	}
	n := uint64(1)
	for _, d := range h.Dims {
		n = mulSat(n, uint64(d))
	}
	return n
}

// DataSize returns the size in bytes of the element stream, saturating at MaxUint64.
func (h Header) DataSize() uint64 {
	return mulSat(h.NumElements(), uint64(h.Type.Width())) //nolint:gosec // Width is at most 8.
}

// Size returns the encoded size of the header itself.
func (h Header) Size() int {
	return prefixSize + 4*len(h.Dims)
}

// String formats the header as "type[d0 d1 ...]".
func (h Header) String() string {
	var b strings.Builder
	b.WriteString(h.Type.String())
	b.WriteByte('[')
	for i, d := range h.Dims {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d", d)
	}
	b.WriteByte(']')
	return b.String()
}

// clampInt converts n to int, saturating at MaxInt. Item counts above
// MaxInt32 only fit on 64-bit platforms; 32-bit builds see MaxInt instead
// of a negative count.
func clampInt(n uint64) int {
	if n > math.MaxInt {
		return math.MaxInt
	}
	return int(n)
}

func mulSat(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return math.MaxUint64
	}
	return lo
}

// ReadHeader parses an IDX header without any expectation on its contents.
// The reader is left positioned at the first element.
func ReadHeader(r io.Reader) (Header, error) {
	return readHeader(r, 0, 0)
}

// readHeader parses the header and checks it against the expected type and
// arity. A zero want or dims skips the corresponding check.
func readHeader(r io.Reader, want dtype.Type, dims int) (Header, error) {
	var prefix [prefixSize]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return Header{}, readError("header", err)
	}

	if prefix[0] != 0 || prefix[1] != 0 {
		return Header{}, fmt.Errorf("%w: got 0x%02x%02x", ErrInvalidMagic, prefix[0], prefix[1])
	}

	trait, err := dtype.Lookup(prefix[2])
	if err != nil {
		return Header{}, err
	}

	n := int(prefix[3])
	if n == 0 {
		return Header{}, fmt.Errorf("%w: header declares 0 dimensions", ErrInvalidDimensionCount)
	}

	if want != 0 && trait.Type != want {
		return Header{}, fmt.Errorf("%w: expected %s, got %s", ErrTypeMismatch, want, trait.Type)
	}
	if dims != 0 && n != dims {
		return Header{}, fmt.Errorf("%w: expected %d, got %d", ErrDimensionMismatch, dims, n)
	}

	raw := make([]byte, 4*n)
	if _, err := io.ReadFull(r, raw); err != nil {
		return Header{}, readError("dimension sizes", err)
	}

	h := Header{Type: trait.Type, Dims: make([]uint32, n)}
	for i := range h.Dims {
		h.Dims[i] = binary.BigEndian.Uint32(raw[i*4:])
	}
	return h, nil
}

// checkDims validates an arity requested by the caller. Zero is allowed
// when the check is optional.
func checkDims(dims int, optional bool) error {
	if dims == 0 && optional {
		return nil
	}
	if dims < 1 || dims > MaxDims {
		return fmt.Errorf("%w: requested %d, must be in 1..%d", ErrInvalidDimensionCount, dims, MaxDims)
	}
	return nil
}

// itemShape returns the element count and byte size of one item, failing if
// either does not fit an int.
func itemShape(h Header) (length, size int, err error) {
	n := uint64(1)
	for _, d := range h.Dims[1:] {
		hi, lo := bits.Mul64(n, uint64(d))
		if hi != 0 || lo > math.MaxInt {
			return 0, 0, fmt.Errorf("%w: item of %v", ErrShapeOverflow, h.Dims[1:])
		}
		n = lo
	}
	width := uint64(h.Type.Width()) //nolint:gosec // Width is at most 8.
	if n > math.MaxInt/width {
		return 0, 0, fmt.Errorf("%w: item of %v", ErrShapeOverflow, h.Dims[1:])
	}
	return int(n), int(n * width), nil //nolint:gosec // Bounded by MaxInt above.
}
