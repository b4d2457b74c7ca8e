package engine

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// NewBWLimiter creates a rate.Limiter that caps throughput to bytesPerSec.
// The burst is set to 1 MB so whole chunks pass without being split into
// many small waits. A non-positive rate yields an unlimited limiter.
func NewBWLimiter(bytesPerSec int64) *rate.Limiter {
	burst := 1 << 20 // 1 MB
	if bytesPerSec <= 0 {
		return rate.NewLimiter(rate.Inf, burst)
	}
	if bytesPerSec < int64(burst) {
		burst = int(bytesPerSec)
	}
	return rate.NewLimiter(rate.Limit(bytesPerSec), burst)
}

// throttle blocks until limiter allows n more bytes. WaitN rejects requests
// larger than the burst, so n is taken in burst-sized slices.
func throttle(limiter *rate.Limiter, n int) {
	if limiter == nil {
		return
	}
	_ = waitSliced(context.Background(), limiter, n)
}

func waitSliced(ctx context.Context, limiter *rate.Limiter, n int) error {
	burst := limiter.Burst()
	if burst <= 0 {
		return nil
	}
	for n > 0 {
		k := min(n, burst)
		if err := limiter.WaitN(ctx, k); err != nil {
			return err
		}
		n -= k
	}
	return nil
}

// rateLimitedWriter wraps an io.Writer and enforces a shared rate limit.
type rateLimitedWriter struct {
	w       io.Writer
	limiter *rate.Limiter
	ctx     context.Context
}

func newRateLimitedWriter(w io.Writer, limiter *rate.Limiter) *rateLimitedWriter {
	return &rateLimitedWriter{w: w, limiter: limiter, ctx: context.Background()}
}

func (rw *rateLimitedWriter) Write(p []byte) (int, error) {
	if err := waitSliced(rw.ctx, rw.limiter, len(p)); err != nil {
		return 0, err
	}
	return rw.w.Write(p)
}
