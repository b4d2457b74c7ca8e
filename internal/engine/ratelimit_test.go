package engine

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestNewBWLimiter(t *testing.T) {
	t.Parallel()

	t.Run("burst capped to rate when rate < 1MB", func(t *testing.T) {
		t.Parallel()
		lim := NewBWLimiter(1024)
		assert.Equal(t, 1024, lim.Burst())
	})

	t.Run("burst is 1MB when rate >= 1MB", func(t *testing.T) {
		t.Parallel()
		lim := NewBWLimiter(10 * 1024 * 1024)
		assert.Equal(t, 1<<20, lim.Burst())
	})

	t.Run("non-positive rate is unlimited", func(t *testing.T) {
		t.Parallel()
		lim := NewBWLimiter(0)
		assert.Equal(t, rate.Inf, lim.Limit())
	})
}

func TestRateLimitedWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes larger than the burst are sliced", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		lim := rate.NewLimiter(rate.Limit(1<<20), 100)
		w := newRateLimitedWriter(&out, lim)

		data := bytes.Repeat([]byte("w"), 1000)
		n, err := w.Write(data)
		require.NoError(t, err)
		assert.Equal(t, 1000, n)
		assert.Equal(t, data, out.Bytes())
	})

	t.Run("enforces rate limit", func(t *testing.T) {
		t.Parallel()
		// 10 KB at 5 KB/s should take ~1s once the burst is spent.
		var out bytes.Buffer
		lim := NewBWLimiter(5 * 1024)
		w := newRateLimitedWriter(&out, lim)

		start := time.Now()
		for range 10 {
			_, err := w.Write(bytes.Repeat([]byte("a"), 1024))
			require.NoError(t, err)
		}
		elapsed := time.Since(start)

		assert.Equal(t, 10*1024, out.Len())
		assert.Greater(t, elapsed, 500*time.Millisecond,
			"rate limiter should slow writes to ~5KB/s")
	})
}

func TestThrottleNilLimiter(t *testing.T) {
	t.Parallel()
	start := time.Now()
	throttle(nil, 1<<30)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}
