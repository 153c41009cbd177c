// Package idx decodes IDX files, the binary format of the MNIST dataset
// family.
//
// An IDX file declares an element type and an N-dimensional shape, followed
// by the elements in big-endian, row-major order. The first dimension counts
// the items: a labels file (idx1) yields one scalar per item, an images file
// (idx3, 60000x28x28) yields one 784-element slice per image.
//
// # Typed decoding
//
// When the element type is known at compile time, use NewDecoder. The header
// is checked against T and the expected dimension count before any item is
// read:
//
//	f, err := os.Open("train-images-idx3-ubyte")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Close()
//
//	dec, err := idx.NewDecoder[uint8](f, 3)
//	if err != nil {
//	    log.Fatal(err) // idx.ErrTypeMismatch, idx.ErrDimensionMismatch, ...
//	}
//	for image, err := range dec.Items() {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(len(image)) // 784
//	}
//
// # Runtime-typed decoding
//
// NewAnyDecoder accepts any element type and returns Items that expose the
// typed slice or a float64 view.
//
// # Sources
//
// Load and the source package open local files, s3:// objects and gzip, zstd
// or lz4 compressed files:
//
//	labels, err := idx.Load[uint8](ctx, "train-labels-idx1-ubyte.gz", 1)
//
// Supported element types: uint8 (0x08), int8 (0x09), int16 (0x0B),
// int32 (0x0C), float32 (0x0D) and float64 (0x0E).
//
// Format reference: http://yann.lecun.com/exdb/mnist/
package idx
