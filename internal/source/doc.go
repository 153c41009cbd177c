// Package source opens the byte streams IDX decoders read from.
//
// A location is a local path, a file:// URL or an s3://bucket/key URL.
// Opened streams are sniffed and transparently decompressed when they start
// with a gzip, zstd or lz4 frame magic, which covers the usual
// train-images-idx3-ubyte.gz distribution of MNIST. An uncompressed IDX file
// always starts with two zero bytes and is passed through untouched.
//
// Example:
//
//	rc, err := source.Open(ctx, "s3://datasets/mnist/train-labels-idx1-ubyte.gz",
//	    source.WithRateLimit(8<<20))
//	if err != nil {
//	    return err
//	}
//	defer rc.Close()
package source
