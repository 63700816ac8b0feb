package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("auth: invalid email or password")
	ErrAccountInactive    = errors.New("auth: account is not active")
	ErrAccountLocked      = errors.New("auth: account is locked")
	ErrPasswordReused     = errors.New("auth: password matches one of the last 5 used")
	ErrWeakPassword       = errors.New("auth: password does not meet complexity requirements")
	ErrTokenInvalid       = errors.New("auth: token is invalid or expired")
	ErrTokenRevoked       = errors.New("auth: token has been revoked")
	ErrSelfLockout        = errors.New("auth: admins cannot change their own role or active status")
	ErrRateLimited        = errors.New("auth: too many requests")
)
