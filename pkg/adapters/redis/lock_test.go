package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/cascade/pkg/adapters/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocker_LeaseRoundTrip(t *testing.T) {
	mr, client := newClient(t)
	locker := redis.NewLocker(client, "cascade:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "menu", 5*time.Second)
	require.NoError(t, err)
	assert.True(t, mr.Exists("cascade:lock:menu"))
	assert.Equal(t, 5*time.Second, mr.TTL("cascade:lock:menu"))

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("cascade:lock:menu"))
}

func TestLocker_SecondHostWaits(t *testing.T) {
	_, client := newClient(t)
	hostA := redis.NewLocker(client, "cascade:")
	hostB := redis.NewLocker(client, "cascade:")
	ctx := context.Background()

	unlockA, err := hostA.Lock(ctx, "menu", 5*time.Second)
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err = hostB.Lock(waitCtx, "menu", 5*time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, time.Since(start), 250*time.Millisecond, "host B polls until its deadline")

	// Other scenes are not blocked.
	unlockOther, err := hostB.Lock(ctx, "panel", time.Second)
	require.NoError(t, err)
	require.NoError(t, unlockOther(ctx))

	require.NoError(t, unlockA(ctx))
	unlockB, err := hostB.Lock(ctx, "menu", 5*time.Second)
	require.NoError(t, err)
	require.NoError(t, unlockB(ctx))
}

func TestLocker_ExpiredLeaseIsNotStolenBack(t *testing.T) {
	mr, client := newClient(t)
	locker := redis.NewLocker(client, "cascade:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "menu", time.Second)
	require.NoError(t, err)

	// The lease expires and another host takes it.
	mr.FastForward(2 * time.Second)
	require.NoError(t, mr.Set("cascade:lock:menu", "host-b"))

	require.NoError(t, unlock(ctx))
	got, err := mr.Get("cascade:lock:menu")
	require.NoError(t, err)
	assert.Equal(t, "host-b", got)
}
