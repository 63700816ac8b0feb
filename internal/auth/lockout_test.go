package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/shiftsync/scheduler/internal/cache"
	"github.com/shiftsync/scheduler/internal/entity"
)

func TestLockoutLocksAfterMaxAttempts(t *testing.T) {
	l := NewLockout(cache.NewMemory(), 3, time.Minute)
	e := &entity.Employee{ID: uuid.New()}

	require.False(t, l.RecordFailure(context.Background(), e))
	require.False(t, l.RecordFailure(context.Background(), e))
	require.True(t, l.RecordFailure(context.Background(), e), "third failure must trip the lock")
	require.True(t, l.IsLocked(context.Background(), e))
}

func TestLockoutClearsOnSuccess(t *testing.T) {
	l := NewLockout(cache.NewMemory(), 3, time.Minute)
	e := &entity.Employee{ID: uuid.New()}

	l.RecordFailure(context.Background(), e)
	l.RecordFailure(context.Background(), e)
	l.RecordFailure(context.Background(), e)
	require.True(t, l.IsLocked(context.Background(), e))

	l.RecordSuccess(context.Background(), e)
	require.False(t, l.IsLocked(context.Background(), e))
	require.Equal(t, 0, e.FailedLoginAttempts)
}

func TestLockoutExpiresWithCacheTTL(t *testing.T) {
	l := NewLockout(cache.NewMemory(), 1, 10*time.Millisecond)
	e := &entity.Employee{ID: uuid.New()}

	require.True(t, l.RecordFailure(context.Background(), e))
	require.True(t, l.IsLocked(context.Background(), e))

	time.Sleep(20 * time.Millisecond)
	require.False(t, l.IsLocked(context.Background(), e), "lock must auto-clear once the cache TTL elapses")
	require.False(t, e.AccountLocked)
}
