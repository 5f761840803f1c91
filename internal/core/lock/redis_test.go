package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocker(t *testing.T) (*Locker, *miniredis.Miniredis) {
	t.Helper()
	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)
	l := &Locker{RDB: redis.NewClient(&redis.Options{Addr: s.Addr()}), Prefix: "test:"}
	t.Cleanup(func() { _ = l.Close() })
	return l, s
}

func TestLocker_AcquireRelease(t *testing.T) {
	l, s := newLocker(t)
	ctx := context.Background()

	unlock, err := l.Acquire(ctx, "sync", time.Minute)
	require.NoError(t, err)
	assert.True(t, s.Exists("test:sync"))

	_, err = l.Acquire(ctx, "sync", time.Minute)
	assert.ErrorIs(t, err, ErrHeld)

	require.NoError(t, unlock(ctx))
	assert.False(t, s.Exists("test:sync"))

	unlock2, err := l.Acquire(ctx, "sync", time.Minute)
	require.NoError(t, err)
	require.NoError(t, unlock2(ctx))
}

func TestLocker_ExpiredLockNotReleasedByOldOwner(t *testing.T) {
	l, s := newLocker(t)
	ctx := context.Background()

	unlockOld, err := l.Acquire(ctx, "sync", time.Second)
	require.NoError(t, err)
	s.FastForward(2 * time.Second)

	_, err = l.Acquire(ctx, "sync", time.Minute)
	require.NoError(t, err)

	require.NoError(t, unlockOld(ctx))
	assert.True(t, s.Exists("test:sync"), "new owner's lock must survive")
}
