// Package testutil builds IDX fixtures for tests.
//
// It is intended for use in tests only.
package testutil

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/born-ml/idx/internal/dtype"
)

// Build returns an IDX file with the given tag, dimension sizes and raw
// element bytes. No consistency between dims and data is enforced, so
// truncated or oversized payloads can be expressed.
func Build(tag dtype.Type, dims []uint32, data []byte) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0, 0, byte(tag), byte(len(dims))})
	for _, d := range dims {
		_ = binary.Write(&buf, binary.BigEndian, d)
	}
	buf.Write(data)
	return buf.Bytes()
}

// BigEndian encodes values in big-endian order.
func BigEndian[T dtype.Element](values ...T) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.BigEndian, values)
	return buf.Bytes()
}

// CountingReader counts the Read calls that reach R.
type CountingReader struct {
	R     io.Reader
	Calls int
}

// Read implements io.Reader.
func (c *CountingReader) Read(p []byte) (int, error) {
	c.Calls++
	return c.R.Read(p)
}

// FailingReader serves Data and then fails with Err.
type FailingReader struct {
	Data []byte
	Err  error
}

// Read implements io.Reader.
func (f *FailingReader) Read(p []byte) (int, error) {
	if len(f.Data) == 0 {
		return 0, f.Err
	}
	n := copy(p, f.Data)
	f.Data = f.Data[n:]
	return n, nil
}
