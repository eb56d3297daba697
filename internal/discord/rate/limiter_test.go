package rate_test

import (
	"context"
	"testing"
	"time"

	"github.com/rolewarden/rolewarden/internal/discord/rate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterSpacesRequests(t *testing.T) {
	t.Parallel()

	limiter := rate.New(50*time.Millisecond, 0)
	ctx := context.Background()

	require.NoError(t, limiter.WaitForNextSlot(ctx))

	start := time.Now()
	require.NoError(t, limiter.WaitForNextSlot(ctx))
	elapsed := time.Since(start)

	// Allow a little scheduler slack below the configured interval.
	assert.GreaterOrEqual(t, elapsed, 40*time.Millisecond)
}

func TestLimiterFirstCallDoesNotWait(t *testing.T) {
	t.Parallel()

	limiter := rate.New(time.Second, 0)

	start := time.Now()
	require.NoError(t, limiter.WaitForNextSlot(context.Background()))
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestLimiterJitterStaysWithinBounds(t *testing.T) {
	t.Parallel()

	limiter := rate.New(20*time.Millisecond, 5*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, limiter.WaitForNextSlot(ctx))

	for i := 0; i < 5; i++ {
		start := time.Now()
		require.NoError(t, limiter.WaitForNextSlot(ctx))
		elapsed := time.Since(start)

		assert.GreaterOrEqual(t, elapsed, 10*time.Millisecond)
		assert.Less(t, elapsed, 100*time.Millisecond)
	}
}

func TestLimiterRespectsContextCancellation(t *testing.T) {
	t.Parallel()

	limiter := rate.New(time.Minute, 0)

	require.NoError(t, limiter.WaitForNextSlot(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := limiter.WaitForNextSlot(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
