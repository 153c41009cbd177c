// Package decoder implements lazy decoding of IDX files.
//
// An IDX file is a 4-byte prefix (two zero bytes, an element type tag and a
// dimension count N), N big-endian uint32 dimension sizes, then the elements
// in row-major order:
//
//	offset  size  field
//	0       2     magic, 0x00 0x00
//	2       1     element type tag (see internal/dtype)
//	3       1     N, 1..255
//	4       4*N   dimension sizes, outer to inner
//	4+4N    ...   elements, big-endian
//
// The first dimension is the number of items. An item is one element for a
// 1-D file and the row-major slice of prod(dims[1:]) elements otherwise, so a
// train-images-idx3-ubyte file (60000x28x28) yields 60000 items of 784 bytes.
//
// Decoder[T] checks the header against a Go element type and arity chosen by
// the caller. AnyDecoder accepts whatever the header says and returns
// runtime-typed items.
//
// Counts are reported as int and saturate at MaxInt, so files with more than
// 2^31-1 items or elements per item need a 64-bit platform.
//
// Both decoders are single-pass and not safe for concurrent use. They read
// from the source only when an item is requested.
package decoder
