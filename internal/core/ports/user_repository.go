package ports

import (
	"context"

	"github.com/Hriday2406/NoAI-Backend/internal/core/domain"
)

// UserRepository defines the persistence contract for user records.
//
// The default finders omit the pending OTP; callers that need to check a
// presented code must opt in through FindByEmailWithOTP. Keeping the hash out
// of default reads means it cannot leak into a response by accident.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByEmailWithOTP(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, id string, upd domain.UserUpdate) (*domain.User, error)
}
