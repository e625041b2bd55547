package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedLimiter_Allow(t *testing.T) {
	kl := New(1, 2)

	// Burst of 2 is available immediately.
	assert.True(t, kl.Allow("alice"))
	assert.True(t, kl.Allow("alice"))
	assert.False(t, kl.Allow("alice"))
}

func TestKeyedLimiter_KeysAreIndependent(t *testing.T) {
	kl := New(1, 1)

	assert.True(t, kl.Allow("alice"))
	assert.False(t, kl.Allow("alice"))

	// A different key has its own bucket.
	assert.True(t, kl.Allow("bob"))
}

func TestKeyedLimiter_Wait(t *testing.T) {
	kl := New(100, 1)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// First passes on burst, second waits for a refill.
	require.NoError(t, kl.Wait(ctx, "alice"))
	require.NoError(t, kl.Wait(ctx, "alice"))
}

func TestKeyedLimiter_WaitCanceled(t *testing.T) {
	kl := New(0.001, 1)

	require.True(t, kl.Allow("alice"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := kl.Wait(ctx, "alice")
	require.Error(t, err)
}
