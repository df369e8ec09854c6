// Package mail implements the OTP delivery port: a live SMTP sender and a
// trace sender that logs codes locally. The variant is chosen once at
// process start from configuration; callers only ever see ports.OTPSender.
package mail

import (
	"fmt"

	"github.com/Hriday2406/NoAI-Backend/internal/core/domain"
)

// subject returns the subject line for the given purpose.
func subject(purpose domain.OTPPurpose) string {
	if purpose == domain.PurposeLogin {
		return "Login OTP - NoAI Backend"
	}
	return "Email Verification OTP - NoAI Backend"
}

// body returns the plain-text message for the given purpose.
func body(code string, purpose domain.OTPPurpose) string {
	if purpose == domain.PurposeLogin {
		return fmt.Sprintf("Your login OTP is: %s. This OTP will expire in 10 minutes.", code)
	}
	return fmt.Sprintf("Your email verification OTP is: %s. This OTP will expire in 10 minutes.", code)
}
