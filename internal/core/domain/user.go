package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// OTPTTL is how long an issued code stays valid.
const OTPTTL = 10 * time.Minute

// OTPPurpose selects the notification template for an issued code.
type OTPPurpose string

const (
	PurposeVerification OTPPurpose = "verification"
	PurposeLogin        OTPPurpose = "login"
)

// OTP is the pending one-time password on a user record. The hash and the
// expiry are a unit: both exist while a code is pending and both are cleared
// when the code is consumed.
type OTP struct {
	Hash      string
	ExpiresAt time.Time
}

// Expired reports whether the code is no longer usable at the given instant.
// The boundary is strict: a code presented exactly at ExpiresAt still verifies.
func (o *OTP) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

// User is the internal user record, including the pending OTP when one
// exists. It must never be serialized into a response; use Public().
type User struct {
	ID         string
	Name       string
	Email      string
	OTP        *OTP
	IsVerified bool
	IsActive   bool
	Role       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HasPendingOTP reports whether a code has been issued and not yet consumed.
func (u *User) HasPendingOTP() bool {
	return u.OTP != nil && u.OTP.Hash != ""
}

// PublicUser is the response-safe view of a user. Fields are an explicit
// allow-list: anything not listed here never reaches a client.
type PublicUser struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"is_verified"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Public builds the response-safe view of the user.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		IsVerified: u.IsVerified,
		IsActive:   u.IsActive,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// UserUpdate describes a partial update applied by the repository. Nil
// pointers leave the corresponding field untouched. ClearOTP wins over OTP
// when both are set.
type UserUpdate struct {
	Name     *string
	Email    *string
	OTP      *OTP
	ClearOTP bool
	Verified *bool
}
