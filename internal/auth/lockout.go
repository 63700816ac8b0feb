package auth

import (
	"context"
	"time"

	"github.com/shiftsync/scheduler/internal/cache"
	"github.com/shiftsync/scheduler/internal/entity"
)

// Lockout enforces the account-lockout policy against an Employee's
// counters, using the cache layer to time-bound the lock itself: the
// lockout key's TTL is the unlock window, so expiry is "unlocks reset the
// counter" without a separate sweeper.
type Lockout struct {
	cache       cache.Cache
	maxAttempts int
	duration    time.Duration
}

func NewLockout(c cache.Cache, maxAttempts int, duration time.Duration) *Lockout {
	return &Lockout{cache: c, maxAttempts: maxAttempts, duration: duration}
}

func lockKey(employeeID string) string { return "auth:lockout:" + employeeID }

// IsLocked reports whether e is currently locked, auto-clearing the flag on
// e (in memory only; caller must persist) if the lockout window has
// elapsed since the cache key expired.
func (l *Lockout) IsLocked(ctx context.Context, e *entity.Employee) bool {
	if !e.AccountLocked {
		return false
	}
	var marker bool
	found, _ := l.cache.Get(ctx, lockKey(e.ID.String()), &marker)
	if !found {
		e.AccountLocked = false
		e.FailedLoginAttempts = 0
		return false
	}
	return true
}

// RecordFailure increments the failure counter and locks the account once
// it reaches maxAttempts, returning whether the account is now locked.
func (l *Lockout) RecordFailure(ctx context.Context, e *entity.Employee) bool {
	e.FailedLoginAttempts++
	if e.FailedLoginAttempts >= l.maxAttempts {
		e.AccountLocked = true
		_ = l.cache.Set(ctx, lockKey(e.ID.String()), true, l.duration)
	}
	return e.AccountLocked
}

// RecordSuccess clears the failure counter and any lock on e.
func (l *Lockout) RecordSuccess(ctx context.Context, e *entity.Employee) {
	e.FailedLoginAttempts = 0
	e.AccountLocked = false
	_ = l.cache.Delete(ctx, lockKey(e.ID.String()))
}
