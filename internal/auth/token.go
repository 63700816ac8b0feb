package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/shiftsync/scheduler/internal/entity"
)

// TokenKind distinguishes access from refresh tokens so a refresh token
// cannot be replayed as an access token or vice versa.
type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

// Claims is the JWT payload this service issues and validates.
type Claims struct {
	jwt.RegisteredClaims
	EmployeeID uuid.UUID   `json:"employee_id"`
	Role       entity.Role `json:"role"`
	Kind       TokenKind   `json:"kind"`
}

// TokenIssuer signs and parses access/refresh JWTs with a single HMAC
// secret, grounded on the pack's golang-jwt/jwt HS256 usage.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

func (i *TokenIssuer) issue(employeeID uuid.UUID, role entity.Role, kind TokenKind, ttl time.Duration) (string, string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(ttl)
	jti := uuid.New().String()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Subject:   employeeID.String(),
		},
		EmployeeID: employeeID,
		Role:       role,
		Kind:       kind,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, jti, expiresAt, nil
}

// IssueAccessToken mints a short-lived access token.
func (i *TokenIssuer) IssueAccessToken(employeeID uuid.UUID, role entity.Role) (token, jti string, expiresAt time.Time, err error) {
	return i.issue(employeeID, role, AccessToken, i.accessTTL)
}

// IssueRefreshToken mints a long-lived refresh token.
func (i *TokenIssuer) IssueRefreshToken(employeeID uuid.UUID, role entity.Role) (token, jti string, expiresAt time.Time, err error) {
	return i.issue(employeeID, role, RefreshToken, i.refreshTTL)
}

// Parse validates signature and expiry and returns the claims, requiring
// the token be of the expected kind.
func (i *TokenIssuer) Parse(raw string, want TokenKind) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Kind != want {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (i *TokenIssuer) AccessTTL() time.Duration  { return i.accessTTL }
func (i *TokenIssuer) RefreshTTL() time.Duration { return i.refreshTTL }
