package decoder

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/idx/internal/dtype"
	"github.com/born-ml/idx/internal/testutil"
)

func TestDecoder_1D(t *testing.T) {
	data := []byte{
		0x00, 0x00, 0x08, 0x01, // magic, uint8, 1 dim
		0x00, 0x00, 0x00, 0x03, // 3 items
		0x05, 0x07, 0x09,
	}

	dec, err := New[uint8](bytes.NewReader(data), 1)
	require.NoError(t, err)
	assert.Equal(t, 3, dec.Remaining())
	assert.Equal(t, 1, dec.ItemLen())

	for _, want := range []uint8{5, 7, 9} {
		v, err := dec.NextScalar()
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}

	_, err = dec.NextScalar()
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 0, dec.Remaining())
}

func TestDecoder_2D(t *testing.T) {
	data := testutil.Build(dtype.Uint8, []uint32{2, 2}, []byte{1, 2, 3, 4})

	dec, err := New[uint8](bytes.NewReader(data), 2)
	require.NoError(t, err)

	item, err := dec.Next()
	require.NoError(t, err)
	assert.Equal(t, []uint8{1, 2}, item)

	item, err = dec.Next()
	require.NoError(t, err)
	assert.Equal(t, []uint8{3, 4}, item)

	_, err = dec.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestDecoder_3D(t *testing.T) {
	data := []byte{
		0, 0, 8, 3,
		0, 0, 0, 3, // 3 matrices of 2x2
		0, 0, 0, 2,
		0, 0, 0, 2,
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
	}

	dec, err := New[uint8](bytes.NewReader(data), 3)
	require.NoError(t, err)
	assert.Equal(t, []uint32{3, 2, 2}, dec.Dims())

	var got [][]uint8
	for item, err := range dec.Items() {
		require.NoError(t, err)
		got = append(got, item)
	}
	assert.Equal(t, [][]uint8{{1, 2, 3, 4}, {5, 6, 7, 8}, {9, 10, 11, 12}}, got)
}

func TestDecoder_4DRowMajor(t *testing.T) {
	// 2 items of 2x3x2 int16; values are their own flat index.
	values := make([]int16, 24)
	for i := range values {
		values[i] = int16(i - 12)
	}
	data := testutil.Build(dtype.Int16, []uint32{2, 2, 3, 2}, testutil.BigEndian(values...))

	dec, err := New[int16](bytes.NewReader(data), 4)
	require.NoError(t, err)
	assert.Equal(t, 12, dec.ItemLen())

	first, err := dec.Next()
	require.NoError(t, err)
	second, err := dec.Next()
	require.NoError(t, err)

	assert.Equal(t, values[:12], first)
	assert.Equal(t, values[12:], second)
}

func TestDecoder_ElementTypes(t *testing.T) {
	t.Run("int8", func(t *testing.T) {
		data := testutil.Build(dtype.Int8, []uint32{3}, []byte{0x80, 0x00, 0x7F})
		dec, err := New[int8](bytes.NewReader(data), 1)
		require.NoError(t, err)
		tensor, err := dec.ReadAll()
		require.NoError(t, err)
		assert.Equal(t, []int8{-128, 0, 127}, tensor.Data)
	})

	t.Run("int32", func(t *testing.T) {
		data := testutil.Build(dtype.Int32, []uint32{2}, testutil.BigEndian[int32](-7, 1<<30))
		dec, err := New[int32](bytes.NewReader(data), 1)
		require.NoError(t, err)
		tensor, err := dec.ReadAll()
		require.NoError(t, err)
		assert.Equal(t, []int32{-7, 1 << 30}, tensor.Data)
	})

	t.Run("float32", func(t *testing.T) {
		data := testutil.Build(dtype.Float32, []uint32{1, 3}, testutil.BigEndian[float32](0.5, -2, 1e-3))
		dec, err := New[float32](bytes.NewReader(data), 2)
		require.NoError(t, err)
		item, err := dec.Next()
		require.NoError(t, err)
		assert.Equal(t, []float32{0.5, -2, 1e-3}, item)
	})

	t.Run("float64", func(t *testing.T) {
		data := testutil.Build(dtype.Float64, []uint32{2}, testutil.BigEndian(3.25, -0.125))
		dec, err := New[float64](bytes.NewReader(data), 1)
		require.NoError(t, err)
		var got []float64
		for v, err := range dec.Scalars() {
			require.NoError(t, err)
			got = append(got, v)
		}
		assert.Equal(t, []float64{3.25, -0.125}, got)
	})
}

func TestDecoder_HeaderErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		dims    int
		wantErr error
	}{
		{
			name:    "bad magic",
			data:    []byte{0x00, 0x01, 0x08, 0x01, 0, 0, 0, 1, 7},
			dims:    1,
			wantErr: ErrInvalidMagic,
		},
		{
			name:    "unknown tag",
			data:    []byte{0, 0, 0x0A, 0x01, 0, 0, 0, 1, 7},
			dims:    1,
			wantErr: ErrUnsupportedElementType,
		},
		{
			name:    "zero dimensions",
			data:    []byte{0, 0, 0x08, 0x00},
			dims:    1,
			wantErr: ErrInvalidDimensionCount,
		},
		{
			name:    "type mismatch",
			data:    testutil.Build(dtype.Int8, []uint32{1}, []byte{1}),
			dims:    1,
			wantErr: ErrTypeMismatch,
		},
		{
			name:    "file has more dimensions",
			data:    testutil.Build(dtype.Uint8, []uint32{1, 1}, []byte{1}),
			dims:    1,
			wantErr: ErrDimensionMismatch,
		},
		{
			name:    "file has fewer dimensions",
			data:    testutil.Build(dtype.Uint8, []uint32{1}, []byte{1}),
			dims:    3,
			wantErr: ErrDimensionMismatch,
		},
		{
			name:    "empty source",
			data:    nil,
			dims:    1,
			wantErr: ErrTruncatedData,
		},
		{
			name:    "short dimension sizes",
			data:    []byte{0, 0, 0x08, 0x02, 0, 0, 0, 1, 0, 0},
			dims:    2,
			wantErr: ErrTruncatedData,
		},
		{
			name:    "requested arity out of range",
			data:    testutil.Build(dtype.Uint8, []uint32{1}, []byte{1}),
			dims:    0,
			wantErr: ErrInvalidDimensionCount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec, err := New[uint8](bytes.NewReader(tt.data), tt.dims)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, dec)
		})
	}
}

func TestDecoder_UnsupportedTagReadsNoItem(t *testing.T) {
	src := &testutil.CountingReader{R: bytes.NewReader([]byte{0, 0, 0x42, 1, 0, 0, 0, 1, 9})}

	_, err := New[uint8](src, 1)
	require.ErrorIs(t, err, ErrUnsupportedElementType)
	assert.Equal(t, 1, src.Calls, "only the 4-byte prefix may be read")
}

func TestDecoder_Truncated(t *testing.T) {
	// Declares 3 items of 2 bytes but carries 5 bytes.
	data := testutil.Build(dtype.Uint8, []uint32{3, 2}, []byte{1, 2, 3, 4, 5})

	dec, err := New[uint8](bytes.NewReader(data), 2)
	require.NoError(t, err, "truncation must not be reported at construction")

	for range 2 {
		_, err := dec.Next()
		require.NoError(t, err)
	}

	item, err := dec.Next()
	require.ErrorIs(t, err, ErrTruncatedData)
	assert.Nil(t, item)
	assert.Contains(t, err.Error(), "item 2")

	// Sticky.
	_, again := dec.Next()
	assert.Equal(t, err, again)
	assert.Equal(t, 1, dec.Remaining())
}

func TestDecoder_SourceError(t *testing.T) {
	cause := errors.New("disk on fire")
	data := testutil.Build(dtype.Uint8, []uint32{2}, []byte{1})
	src := &testutil.FailingReader{Data: data, Err: cause}

	dec, err := New[uint8](src, 1)
	require.NoError(t, err)

	v, err := dec.NextScalar()
	require.NoError(t, err)
	assert.Equal(t, uint8(1), v)

	_, err = dec.NextScalar()
	require.ErrorIs(t, err, ErrSource)
	require.ErrorIs(t, err, cause)

	var srcErr *SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, "item 1", srcErr.Op)

	_, again := dec.NextScalar()
	assert.Equal(t, err, again)
}

func TestDecoder_CompletionIsIdempotent(t *testing.T) {
	data := testutil.Build(dtype.Uint8, []uint32{1}, []byte{42, 99})
	src := &testutil.CountingReader{R: bytes.NewReader(data)}

	dec, err := New[uint8](src, 1)
	require.NoError(t, err)

	_, err = dec.Next()
	require.NoError(t, err)
	calls := src.Calls

	for range 5 {
		_, err := dec.Next()
		assert.ErrorIs(t, err, io.EOF)
	}
	assert.Equal(t, calls, src.Calls, "completed decoder must not read the source")
}

func TestDecoder_ItemsStopsEarly(t *testing.T) {
	data := testutil.Build(dtype.Uint8, []uint32{4}, []byte{1, 2, 3, 4})
	dec, err := New[uint8](bytes.NewReader(data), 1)
	require.NoError(t, err)

	for v, err := range dec.Scalars() {
		require.NoError(t, err)
		if v == 2 {
			break
		}
	}
	assert.Equal(t, 2, dec.Remaining())

	v, err := dec.NextScalar()
	require.NoError(t, err)
	assert.Equal(t, uint8(3), v)
}

func TestDecoder_ItemsYieldsErrorOnce(t *testing.T) {
	data := testutil.Build(dtype.Uint8, []uint32{3}, []byte{1})
	dec, err := New[uint8](bytes.NewReader(data), 1)
	require.NoError(t, err)

	var values []uint8
	var errs []error
	for item, err := range dec.Items() {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		values = append(values, item...)
	}
	assert.Equal(t, []uint8{1}, values)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrTruncatedData)
}

func TestDecoder_NextScalarOnMatrix(t *testing.T) {
	data := testutil.Build(dtype.Uint8, []uint32{1, 2}, []byte{1, 2})
	dec, err := New[uint8](bytes.NewReader(data), 2)
	require.NoError(t, err)

	_, err = dec.NextScalar()
	require.ErrorIs(t, err, ErrDimensionMismatch)
	assert.Equal(t, 1, dec.Remaining(), "a rejected scalar read must not consume an item")
}

func TestDecoder_EmptyItems(t *testing.T) {
	data := testutil.Build(dtype.Float32, []uint32{3, 0}, nil)
	dec, err := New[float32](bytes.NewReader(data), 2)
	require.NoError(t, err)

	count := 0
	for item, err := range dec.Items() {
		require.NoError(t, err)
		assert.Empty(t, item)
		count++
	}
	assert.Equal(t, 3, count)
}

func TestDecoder_ZeroItems(t *testing.T) {
	data := testutil.Build(dtype.Uint8, []uint32{0, 28, 28}, nil)
	dec, err := New[uint8](bytes.NewReader(data), 3)
	require.NoError(t, err)

	_, err = dec.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestDecoder_ShapeOverflow(t *testing.T) {
	data := testutil.Build(dtype.Float64, []uint32{1, 0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF}, nil)
	_, err := New[float64](bytes.NewReader(data), 4)
	require.ErrorIs(t, err, ErrShapeOverflow)
}

func TestDecoder_LargeItemWithoutData(t *testing.T) {
	tests := []struct {
		name string
		dims []uint32
		data []byte
	}{
		{name: "beyond memory", dims: []uint32{1, 0xFFFFFFFF, 0xFFFF}},
		{name: "32 GiB item", dims: []uint32{1, 65536, 65536}},
		{name: "short after first chunk", dims: []uint32{1, 1 << 18, 8}, data: make([]byte, 3<<20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := testutil.Build(dtype.Float64, tt.dims, tt.data)
			dec, err := New[float64](bytes.NewReader(data), len(tt.dims))
			require.NoError(t, err)

			item, err := dec.Next()
			require.ErrorIs(t, err, ErrTruncatedData)
			assert.Nil(t, item)
		})
	}
}

func TestDecoder_ItemsSpanningChunks(t *testing.T) {
	// Items of 1.5 chunks: the scratch buffer grows once, then is reused.
	itemLen := maxChunk * 3 / 2
	payload := make([]byte, 2*itemLen)
	for i := range payload {
		payload[i] = byte(i % 251)
	}
	data := testutil.Build(dtype.Uint8, []uint32{2, uint32(itemLen)}, payload)

	dec, err := New[uint8](bytes.NewReader(data), 2)
	require.NoError(t, err)

	first, err := dec.Next()
	require.NoError(t, err)
	second, err := dec.Next()
	require.NoError(t, err)

	assert.Equal(t, payload[:itemLen], first)
	assert.Equal(t, payload[itemLen:], second)
	_, err = dec.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestDecoder_ReadAll(t *testing.T) {
	data := testutil.Build(dtype.Uint8, []uint32{3, 2, 2}, []byte{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
	})
	dec, err := New[uint8](bytes.NewReader(data), 3)
	require.NoError(t, err)

	_, err = dec.Next()
	require.NoError(t, err)

	tensor, err := dec.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 2}, tensor.Shape)
	assert.Equal(t, 2, tensor.NumItems())
	assert.Equal(t, []uint8{9, 10, 11, 12}, tensor.Item(1))
	assert.Len(t, tensor.Data, 8)

	_, err = dec.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestDecoder_ReadAllTruncated(t *testing.T) {
	data := testutil.Build(dtype.Int16, []uint32{2}, []byte{0, 1, 0})
	dec, err := New[int16](bytes.NewReader(data), 1)
	require.NoError(t, err)

	tensor, err := dec.ReadAll()
	require.ErrorIs(t, err, ErrTruncatedData)
	assert.Nil(t, tensor)
}

func TestDecoder_HeaderIsCopy(t *testing.T) {
	data := testutil.Build(dtype.Uint8, []uint32{1, 2}, []byte{1, 2})
	dec, err := New[uint8](bytes.NewReader(data), 2)
	require.NoError(t, err)

	h := dec.Header()
	h.Dims[0] = 100
	assert.Equal(t, []uint32{1, 2}, dec.Dims())
	assert.Equal(t, 1, dec.Remaining())
}
