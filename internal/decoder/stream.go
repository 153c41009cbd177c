package decoder

import (
	"fmt"
	"io"
	"slices"

	"github.com/born-ml/idx/internal/dtype"
)

// maxChunk bounds each read, and so each allocation, made before any of an
// item's bytes have been seen.
const maxChunk = 1 << 20

// stream is the state shared by Decoder and AnyDecoder: the source, the
// header and the count of items not yet produced.
type stream struct {
	r         io.Reader
	header    Header
	itemLen   int
	itemSize  int
	buf       []byte // Scratch space for one item, grown as bytes arrive.
	remaining uint32
	index     uint64 // Index of the next item, for error messages.
	err       error  // Sticky production error.
}

func newStream(r io.Reader, want dtype.Type, dims int) (*stream, error) {
	h, err := readHeader(r, want, dims)
	if err != nil {
		return nil, err
	}

	length, size, err := itemShape(h)
	if err != nil {
		return nil, err
	}

	return &stream{
		r:         r,
		header:    h,
		itemLen:   length,
		itemSize:  size,
		remaining: h.Dims[0],
	}, nil
}

// next reads the raw bytes of the next item into the scratch buffer.
// The returned slice is only valid until the following call.
func (s *stream) next() ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.remaining == 0 {
		return nil, io.EOF
	}

	if err := s.fill(); err != nil {
		s.err = readError(fmt.Sprintf("item %d", s.index), err)
		return nil, s.err
	}

	s.remaining--
	s.index++
	return s.buf, nil
}

// fill reads one item into buf. The header alone never sizes an allocation:
// past maxChunk bytes the buffer only grows after the previous chunk arrived,
// so a short source fails with a read error instead of a huge allocation.
func (s *stream) fill() error {
	if cap(s.buf) >= s.itemSize {
		s.buf = s.buf[:s.itemSize]
		_, err := io.ReadFull(s.r, s.buf)
		return err
	}

	s.buf = s.buf[:0]
	for len(s.buf) < s.itemSize {
		n := min(s.itemSize-len(s.buf), maxChunk)
		s.buf = slices.Grow(s.buf, n)
		if _, err := io.ReadFull(s.r, s.buf[len(s.buf):len(s.buf)+n]); err != nil {
			return err
		}
		s.buf = s.buf[:len(s.buf)+n]
	}
	return nil
}

func (s *stream) headerCopy() Header {
	dims := make([]uint32, len(s.header.Dims))
	copy(dims, s.header.Dims)
	return Header{Type: s.header.Type, Dims: dims}
}
