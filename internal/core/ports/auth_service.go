package ports

import (
	"context"

	"github.com/Hriday2406/NoAI-Backend/internal/core/domain"
)

// ProfileUpdateInput carries the optional profile fields; nil means "leave
// unchanged".
type ProfileUpdateInput struct {
	Name  *string
	Email *string
}

// AuthService orchestrates the OTP registration and login flows.
type AuthService interface {
	Register(ctx context.Context, name, email string) (string, error)
	VerifyOTP(ctx context.Context, email, code string) (*domain.PublicUser, string, error)
	Login(ctx context.Context, email string) (string, error)
	VerifyLoginOTP(ctx context.Context, email, code string) (*domain.PublicUser, string, error)
	Me(ctx context.Context, userID string) (*domain.PublicUser, error)
	UpdateProfile(ctx context.Context, userID string, in ProfileUpdateInput) (*domain.PublicUser, error)
}
