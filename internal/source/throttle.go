package source

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// throttledReader limits the byte rate of an underlying reader.
type throttledReader struct {
	ctx     context.Context
	r       io.Reader
	limiter *rate.Limiter
}

func newThrottledReader(ctx context.Context, r io.Reader, bytesPerSecond int) *throttledReader {
	return &throttledReader{
		ctx:     ctx,
		r:       r,
		limiter: rate.NewLimiter(rate.Limit(bytesPerSecond), bytesPerSecond),
	}
}

func (t *throttledReader) Read(p []byte) (int, error) {
	// WaitN fails for n above the burst.
	if burst := t.limiter.Burst(); len(p) > burst {
		p = p[:burst]
	}
	n, err := t.r.Read(p)
	if n > 0 {
		if werr := t.limiter.WaitN(t.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}
