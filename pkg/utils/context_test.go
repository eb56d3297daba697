package utils_test

import (
	"context"
	"testing"
	"time"

	"github.com/rolewarden/rolewarden/pkg/utils"
	"github.com/stretchr/testify/assert"
)

func TestContextSleep(t *testing.T) {
	t.Parallel()

	t.Run("completes full duration", func(t *testing.T) {
		t.Parallel()

		result := utils.ContextSleep(context.Background(), 10*time.Millisecond)
		assert.Equal(t, utils.SleepCompleted, result)
	})

	t.Run("cancelled before duration elapses", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result := utils.ContextSleep(ctx, time.Minute)
		assert.Equal(t, utils.SleepCancelled, result)
	})
}
