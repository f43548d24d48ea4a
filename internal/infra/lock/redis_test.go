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

func newTestRedisLocker(t *testing.T, waitTimeout time.Duration) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisLocker(client, RedisOptions{
		TTL:           5 * time.Second,
		WaitTimeout:   waitTimeout,
		RetryInterval: 5 * time.Millisecond,
	}), mr
}

func TestRedisLocker_AcquireAndRelease(t *testing.T) {
	locker, mr := newTestRedisLocker(t, 100*time.Millisecond)

	release, err := locker.Acquire(context.Background(), DoctorKey("doc-1"))
	require.NoError(t, err)
	assert.True(t, mr.Exists("lock:doctor:doc-1"))
	assert.Equal(t, 5*time.Second, mr.TTL("lock:doctor:doc-1"))

	release()
	assert.False(t, mr.Exists("lock:doctor:doc-1"))
}

func TestRedisLocker_TimeoutWhileHeld(t *testing.T) {
	locker, _ := newTestRedisLocker(t, 30*time.Millisecond)

	release, err := locker.Acquire(context.Background(), "k")
	require.NoError(t, err)
	defer release()

	_, err = locker.Acquire(context.Background(), "k")
	assert.ErrorIs(t, err, ErrLockTimeout)
}

func TestRedisLocker_WaitsForRelease(t *testing.T) {
	locker, _ := newTestRedisLocker(t, time.Second)

	release, err := locker.Acquire(context.Background(), "k")
	require.NoError(t, err)

	go func() {
		time.Sleep(20 * time.Millisecond)
		release()
	}()

	second, err := locker.Acquire(context.Background(), "k")
	require.NoError(t, err)
	second()
}

func TestRedisLocker_ReleaseDoesNotDropForeignLock(t *testing.T) {
	locker, mr := newTestRedisLocker(t, 30*time.Millisecond)

	release, err := locker.Acquire(context.Background(), "k")
	require.NoError(t, err)

	// блокировка истекла и была захвачена другим владельцем
	require.NoError(t, mr.Set("lock:k", "other-owner"))

	release()

	value, err := mr.Get("lock:k")
	require.NoError(t, err)
	assert.Equal(t, "other-owner", value)
}

func TestRedisLocker_BackendDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	locker := NewRedisLocker(client, RedisOptions{WaitTimeout: 30 * time.Millisecond})
	mr.Close()

	_, err = locker.Acquire(context.Background(), "k")
	assert.ErrorIs(t, err, ErrLockBackend)
}
