package auth

import (
	"crypto/rand"
	"math/big"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// HistoryDepth is how many prior password hashes are retained for reuse
// rejection, per the identity policy.
const HistoryDepth = 5

const bcryptCost = bcrypt.DefaultCost

// HashPassword derives a bcrypt hash from a plaintext password already
// known to satisfy ValidatePasswordPolicy.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plaintext matches the given bcrypt hash.
func CheckPassword(hash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// ValidatePasswordPolicy enforces the minimum complexity rule: at least 8
// characters, with at least one uppercase, lowercase, digit, and special
// character.
func ValidatePasswordPolicy(plaintext string) error {
	if len(plaintext) < 8 {
		return ErrWeakPassword
	}
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range plaintext {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSpecial {
		return ErrWeakPassword
	}
	return nil
}

// WasPreviouslyUsed reports whether plaintext matches the current hash or
// any of the retained prior hashes.
func WasPreviouslyUsed(plaintext, currentHash string, priorHashes []string) bool {
	if CheckPassword(currentHash, plaintext) {
		return true
	}
	for _, h := range priorHashes {
		if CheckPassword(h, plaintext) {
			return true
		}
	}
	return false
}

// PushHistory prepends the outgoing hash to the retained history, trimming
// it to HistoryDepth entries (most recent first).
func PushHistory(priorHashes []string, outgoingHash string) []string {
	updated := append([]string{outgoingHash}, priorHashes...)
	if len(updated) > HistoryDepth {
		updated = updated[:HistoryDepth]
	}
	return updated
}

const specialChars = "!@#$%^&*()-_=+"
const alphaDigits = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateTemporaryPassword builds a random 12-character password meeting
// the complexity policy, used for admin-issued resets.
func GenerateTemporaryPassword() (string, error) {
	buf := make([]byte, 12)
	charset := alphaDigits + specialChars
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		buf[i] = charset[n.Int64()]
	}
	// Force at least one of each required class by overwriting fixed slots;
	// this keeps the generator simple while guaranteeing policy compliance.
	buf[0] = 'A'
	buf[1] = 'a'
	buf[2] = '1'
	buf[3] = specialChars[0]
	return string(buf), nil
}
