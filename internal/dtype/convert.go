package dtype

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Decode converts big-endian element bytes into dst in order.
// src must hold exactly len(dst)*TypeOf[T]().Width() bytes.
func Decode[T Element](dst []T, src []byte) {
	be := binary.BigEndian
	switch TypeOf[T]() {
	case Uint8:
		for i := range dst {
			dst[i] = T(src[i])
		}
	case Int8:
		for i := range dst {
			dst[i] = T(int8(src[i]))
		}
	case Int16:
		for i := range dst {
			dst[i] = T(int16(be.Uint16(src[i*2:])))
		}
	case Int32:
		for i := range dst {
			dst[i] = T(int32(be.Uint32(src[i*4:])))
		}
	case Float32:
		for i := range dst {
			dst[i] = T(math.Float32frombits(be.Uint32(src[i*4:])))
		}
	case Float64:
		for i := range dst {
			dst[i] = T(math.Float64frombits(be.Uint64(src[i*8:])))
		}
	}
}

// DecodeAny converts src into a freshly allocated slice of the Go type
// matching t ([]uint8, []int8, []int16, []int32, []float32 or []float64).
func DecodeAny(t Type, src []byte) (any, error) {
	width := t.Width()
	if width == 0 {
		return nil, fmt.Errorf("%w: tag 0x%02x", ErrUnsupportedElementType, uint8(t))
	}
	if len(src)%width != 0 {
		return nil, fmt.Errorf("%d bytes is not a whole number of %s elements", len(src), t)
	}
	n := len(src) / width

	switch t {
	case Uint8:
		out := make([]uint8, n)
		copy(out, src)
		return out, nil
	case Int8:
		return decodeNew[int8](n, src), nil
	case Int16:
		return decodeNew[int16](n, src), nil
	case Int32:
		return decodeNew[int32](n, src), nil
	case Float32:
		return decodeNew[float32](n, src), nil
	default:
		return decodeNew[float64](n, src), nil
	}
}

func decodeNew[T Element](n int, src []byte) []T {
	out := make([]T, n)
	Decode(out, src)
	return out
}
