// Package auth implements identity and authorization (C1): password
// hashing and policy, JWT issuance/validation/revocation, account lockout,
// and per-principal rate limiting.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shiftsync/scheduler/internal/cache"
	"github.com/shiftsync/scheduler/internal/entity"
	"github.com/shiftsync/scheduler/internal/repository"
)

// Service is the C1 component: it owns password/token lifecycle and reads
// and writes through the employee repository directly, since "is this
// email taken" and "persist the new hash" are identity-layer concerns, not
// generic CRUD.
type Service struct {
	employees repository.EmployeeRepository
	cache     cache.Cache
	tokens    *TokenIssuer
	lockout   *Lockout
}

func NewService(employees repository.EmployeeRepository, c cache.Cache, tokens *TokenIssuer, lockout *Lockout) *Service {
	return &Service{employees: employees, cache: c, tokens: tokens, lockout: lockout}
}

// Session is the pair of tokens returned by Register/Login/Refresh.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Register creates a new employee account with a validated, hashed
// password. Role defaults to entity.RoleEmployee; only an admin-driven
// employee-creation path should pass a different role.
func (s *Service) Register(ctx context.Context, email, password, firstName, lastName string, role entity.Role) (*entity.Employee, error) {
	if existing, _ := s.employees.GetByEmail(ctx, email); existing != nil {
		return nil, &repository.ValidationError{Field: "email", Message: "already registered"}
	}
	if err := ValidatePasswordPolicy(password); err != nil {
		return nil, err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if !entity.ValidRole(role) {
		role = entity.RoleEmployee
	}

	now := entity.Now()
	e := &entity.Employee{
		ID:              uuid.New(),
		Email:           email,
		PasswordHash:    hash,
		Role:            role,
		IsActive:        true,
		FirstName:       firstName,
		LastName:        lastName,
		MaxHoursPerWeek: 40,
		Qualifications:  map[string]struct{}{},
		Availability:    entity.Availability{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.employees.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create employee: %w", err)
	}
	return e, nil
}

// Login authenticates by email/password, enforcing activation and lockout
// state, and issues a fresh session on success.
func (s *Service) Login(ctx context.Context, email, password string) (*entity.Employee, *Session, error) {
	e, err := s.employees.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("lookup employee: %w", err)
	}
	if e == nil || e.IsDeleted() {
		return nil, nil, ErrInvalidCredentials
	}
	if !e.IsActive {
		return nil, nil, ErrAccountInactive
	}
	if s.lockout.IsLocked(ctx, e) {
		_ = s.employees.Update(ctx, e)
		return nil, nil, ErrAccountLocked
	}

	if !CheckPassword(e.PasswordHash, password) {
		locked := s.lockout.RecordFailure(ctx, e)
		_ = s.employees.Update(ctx, e)
		if locked {
			return nil, nil, ErrAccountLocked
		}
		return nil, nil, ErrInvalidCredentials
	}

	s.lockout.RecordSuccess(ctx, e)
	if err := s.employees.Update(ctx, e); err != nil {
		return nil, nil, fmt.Errorf("update employee: %w", err)
	}

	session, err := s.issueSession(e)
	if err != nil {
		return nil, nil, err
	}
	return e, session, nil
}

func (s *Service) issueSession(e *entity.Employee) (*Session, error) {
	access, _, exp, err := s.tokens.IssueAccessToken(e.ID, e.Role)
	if err != nil {
		return nil, err
	}
	refresh, _, _, err := s.tokens.IssueRefreshToken(e.ID, e.Role)
	if err != nil {
		return nil, err
	}
	return &Session{AccessToken: access, RefreshToken: refresh, ExpiresAt: exp}, nil
}

// Refresh validates a refresh token, revokes it (rotation), and issues a
// brand new access/refresh pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*entity.Employee, *Session, error) {
	claims, err := s.tokens.Parse(refreshToken, RefreshToken)
	if err != nil {
		return nil, nil, err
	}
	if revoked, _ := s.isRevoked(ctx, claims.ID); revoked {
		return nil, nil, ErrTokenRevoked
	}

	e, err := s.employees.GetByID(ctx, claims.EmployeeID)
	if err != nil || e == nil || e.IsDeleted() || !e.IsActive {
		return nil, nil, ErrInvalidCredentials
	}

	s.revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))

	session, err := s.issueSession(e)
	if err != nil {
		return nil, nil, err
	}
	return e, session, nil
}

// Logout revokes the presented access token for the remainder of its
// natural lifetime.
func (s *Service) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.tokens.Parse(accessToken, AccessToken)
	if err != nil {
		return err
	}
	s.revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
	return nil
}

func revocationKey(jti string) string { return "auth:revoked:" + jti }

func (s *Service) revoke(ctx context.Context, jti string, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	_ = s.cache.Set(ctx, revocationKey(jti), true, ttl)
}

func (s *Service) isRevoked(ctx context.Context, jti string) (bool, error) {
	var marker bool
	found, err := s.cache.Get(ctx, revocationKey(jti), &marker)
	return found, err
}

// Authenticate validates an access token end to end: signature, expiry,
// kind, and the revocation set.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*Claims, error) {
	claims, err := s.tokens.Parse(accessToken, AccessToken)
	if err != nil {
		return nil, err
	}
	if revoked, _ := s.isRevoked(ctx, claims.ID); revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// ChangePassword verifies the caller's current password (unless isAdmin,
// which allows an administrative reset without knowing the old password),
// rejects reuse against the last 5 hashes, and rotates the stored hash.
func (s *Service) ChangePassword(ctx context.Context, e *entity.Employee, oldPassword, newPassword string, isAdminReset bool) error {
	if !isAdminReset && !CheckPassword(e.PasswordHash, oldPassword) {
		return ErrInvalidCredentials
	}
	if err := ValidatePasswordPolicy(newPassword); err != nil {
		return err
	}
	if WasPreviouslyUsed(newPassword, e.PasswordHash, e.PriorPasswordHashes) {
		return ErrPasswordReused
	}
	newHash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	e.PriorPasswordHashes = PushHistory(e.PriorPasswordHashes, e.PasswordHash)
	e.PasswordHash = newHash
	e.PasswordMustChange = false
	e.UpdatedAt = entity.Now()
	return s.employees.Update(ctx, e)
}

// ResetPassword issues a random temporary password meeting policy, flags
// the account to force a change on next login, and returns the plaintext
// for administrative delivery out of band.
func (s *Service) ResetPassword(ctx context.Context, e *entity.Employee) (string, error) {
	temp, err := GenerateTemporaryPassword()
	if err != nil {
		return "", err
	}
	hash, err := HashPassword(temp)
	if err != nil {
		return "", err
	}
	e.PriorPasswordHashes = PushHistory(e.PriorPasswordHashes, e.PasswordHash)
	e.PasswordHash = hash
	e.PasswordMustChange = true
	e.UpdatedAt = entity.Now()
	if err := s.employees.Update(ctx, e); err != nil {
		return "", err
	}
	return temp, nil
}
