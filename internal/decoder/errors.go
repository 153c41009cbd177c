package decoder

import (
	"errors"
	"fmt"
	"io"

	"github.com/born-ml/idx/internal/dtype"
)

// Decoding errors. All of them are fatal to the decoder that returned them.
var (
	ErrInvalidMagic           = errors.New("invalid magic: first two bytes must be zero")
	ErrUnsupportedElementType = dtype.ErrUnsupportedElementType
	ErrInvalidDimensionCount  = errors.New("invalid dimension count")
	ErrTypeMismatch           = errors.New("element type mismatch")
	ErrDimensionMismatch      = errors.New("dimension count mismatch")
	ErrTruncatedData          = errors.New("truncated data")
	ErrShapeOverflow          = errors.New("shape exceeds addressable size")
	ErrSource                 = errors.New("source read failed")
)

// SourceError wraps a failure of the underlying reader.
//
// It matches ErrSource with errors.Is and unwraps to the original cause.
type SourceError struct {
	Op  string // What was being read (e.g. "header", "item 12").
	Err error
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrSource, e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *SourceError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrSource.
func (e *SourceError) Is(target error) bool {
	return target == ErrSource
}

// readError classifies a failed io.ReadFull. Running out of bytes is
// truncation; anything else belongs to the source.
func readError(op string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %s", ErrTruncatedData, op)
	}
	return &SourceError{Op: op, Err: err}
}
