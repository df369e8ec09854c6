package handler

import "github.com/Hriday2406/NoAI-Backend/internal/core/domain"

// envelope is the response contract shared by every endpoint:
// {success, message, data?}.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Request types ---

type registerRequest struct {
	Name  string `json:"name"  validate:"required,max=50"`
	Email string `json:"email" validate:"required,email"`
}

type verifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp"   validate:"required,len=6,numeric"`
}

type loginRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type updateProfileRequest struct {
	Name  *string `json:"name,omitempty"  validate:"omitempty,max=50"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
}

// --- Response payloads (the data member of the envelope) ---

type otpSentData struct {
	Email   string `json:"email"`
	Message string `json:"message"`
}

type authData struct {
	User  *domain.PublicUser `json:"user"`
	Token string             `json:"token"`
}

type userData struct {
	User *domain.PublicUser `json:"user"`
}
