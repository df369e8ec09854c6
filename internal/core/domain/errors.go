package domain

import "errors"

// Sentinel errors for the auth flow. The message text is what clients see in
// the response envelope, so wording is part of the contract.
var (
	ErrUserAlreadyVerified = errors.New("User already exists and is verified")
	ErrInvalidEmail        = errors.New("Invalid email")
	ErrUserNotFound        = errors.New("User not found. Please register first.")
	ErrNotVerified         = errors.New("Please verify your email first")
	ErrAccountDeactivated  = errors.New("Account is deactivated")
	ErrNoOTP               = errors.New("No OTP found. Please request a new OTP")
	ErrOTPExpired          = errors.New("OTP has expired. Please request a new OTP")
	ErrOTPInvalid          = errors.New("Invalid OTP")
	ErrEmailTaken          = errors.New("Email is already in use")
	ErrDeliveryFailed      = errors.New("Failed to send OTP email")
)
