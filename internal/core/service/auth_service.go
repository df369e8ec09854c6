package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Hriday2406/NoAI-Backend/internal/api/metrics"
	"github.com/Hriday2406/NoAI-Backend/internal/core/domain"
	"github.com/Hriday2406/NoAI-Backend/internal/core/otp"
	"github.com/Hriday2406/NoAI-Backend/internal/core/ports"
)

// AuthService drives the OTP lifecycle: registration, email verification,
// login, and the protected profile operations.
type AuthService struct {
	repo   ports.UserRepository
	sender ports.OTPSender
	issuer ports.TokenIssuer
	logger zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, sender ports.OTPSender, issuer ports.TokenIssuer, logger zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, sender: sender, issuer: issuer, logger: logger}
}

// Register creates a pending-verification user (or refreshes an unverified
// one) and emails a fresh verification code. Returns the normalized email.
//
// The OTP is persisted before the send: a failed send fails the request and
// the user recovers by registering again, which mints a new code.
func (s *AuthService) Register(ctx context.Context, name, email string) (string, error) {
	email = normalizeEmail(email)

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return "", err
	}
	if existing != nil && existing.IsVerified {
		return "", domain.ErrUserAlreadyVerified
	}

	pending, code, err := newPendingOTP()
	if err != nil {
		return "", err
	}

	var user *domain.User
	if existing != nil {
		notVerified := false
		user, err = s.repo.Update(ctx, existing.ID, domain.UserUpdate{
			Name:     &name,
			OTP:      pending,
			Verified: &notVerified,
		})
	} else {
		now := time.Now().UTC()
		user, err = s.repo.Create(ctx, &domain.User{
			Name:      name,
			Email:     email,
			OTP:       pending,
			IsActive:  true,
			Role:      domain.RoleUser,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if err != nil {
		return "", err
	}

	if err := s.sender.Send(ctx, user.Email, code, domain.PurposeVerification); err != nil {
		s.logger.Error().Err(err).Str("email", user.Email).Msg("verification otp delivery failed")
		return "", domain.ErrDeliveryFailed
	}

	metrics.OTPIssuedTotal.WithLabelValues(string(domain.PurposeVerification)).Inc()
	s.logger.Info().Str("email", user.Email).Msg("verification otp issued")
	return user.Email, nil
}

// VerifyOTP checks a registration code. On success the user becomes verified,
// the OTP is consumed, and a bearer token is returned with the public view.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) (*domain.PublicUser, string, error) {
	user, err := s.findWithOTP(ctx, email)
	if err != nil {
		return nil, "", err
	}

	if err := s.checkOTP(user, code, domain.PurposeVerification); err != nil {
		return nil, "", err
	}

	verified := true
	updated, err := s.repo.Update(ctx, user.ID, domain.UserUpdate{ClearOTP: true, Verified: &verified})
	if err != nil {
		return nil, "", err
	}

	token, err := s.issuer.Issue(updated.ID, updated.Role)
	if err != nil {
		return nil, "", err
	}

	metrics.OTPVerificationsTotal.WithLabelValues(string(domain.PurposeVerification), "success").Inc()
	s.logger.Info().Str("email", updated.Email).Msg("registration verified")
	return updated.Public(), token, nil
}

// Login issues a fresh login code for a verified, active user.
func (s *AuthService) Login(ctx context.Context, email string) (string, error) {
	email = normalizeEmail(email)

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrUserNotFound
		}
		return "", err
	}
	if !user.IsVerified {
		return "", domain.ErrNotVerified
	}
	if !user.IsActive {
		return "", domain.ErrAccountDeactivated
	}

	pending, code, err := newPendingOTP()
	if err != nil {
		return "", err
	}
	if _, err := s.repo.Update(ctx, user.ID, domain.UserUpdate{OTP: pending}); err != nil {
		return "", err
	}

	if err := s.sender.Send(ctx, user.Email, code, domain.PurposeLogin); err != nil {
		s.logger.Error().Err(err).Str("email", user.Email).Msg("login otp delivery failed")
		return "", domain.ErrDeliveryFailed
	}

	metrics.OTPIssuedTotal.WithLabelValues(string(domain.PurposeLogin)).Inc()
	s.logger.Info().Str("email", user.Email).Msg("login otp issued")
	return user.Email, nil
}

// VerifyLoginOTP checks a login code for a verified, active user. On success
// the OTP is consumed and a bearer token is returned with the public view.
func (s *AuthService) VerifyLoginOTP(ctx context.Context, email, code string) (*domain.PublicUser, string, error) {
	user, err := s.findWithOTP(ctx, email)
	if err != nil {
		return nil, "", err
	}

	// Account-state gates come before any OTP inspection.
	if !user.IsVerified {
		return nil, "", domain.ErrNotVerified
	}
	if !user.IsActive {
		return nil, "", domain.ErrAccountDeactivated
	}

	if err := s.checkOTP(user, code, domain.PurposeLogin); err != nil {
		return nil, "", err
	}

	updated, err := s.repo.Update(ctx, user.ID, domain.UserUpdate{ClearOTP: true})
	if err != nil {
		return nil, "", err
	}

	token, err := s.issuer.Issue(updated.ID, updated.Role)
	if err != nil {
		return nil, "", err
	}

	metrics.OTPVerificationsTotal.WithLabelValues(string(domain.PurposeLogin), "success").Inc()
	s.logger.Info().Str("email", updated.Email).Msg("login verified")
	return updated.Public(), token, nil
}

// Me returns the public view of the authenticated user.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.PublicUser, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

// UpdateProfile applies the provided fields to the authenticated user.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in ports.ProfileUpdateInput) (*domain.PublicUser, error) {
	upd := domain.UserUpdate{Name: in.Name}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		upd.Email = &email
	}

	user, err := s.repo.Update(ctx, userID, upd)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

// findWithOTP loads a user including the pending OTP for a verify step.
// Unknown emails collapse into the generic invalid-email error so the
// endpoint does not enumerate accounts.
func (s *AuthService) findWithOTP(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.repo.FindByEmailWithOTP(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidEmail
		}
		return nil, err
	}
	return user, nil
}

// checkOTP runs the fixed verification order: presence, expiry, match.
func (s *AuthService) checkOTP(user *domain.User, code string, purpose domain.OTPPurpose) error {
	if !user.HasPendingOTP() {
		metrics.OTPVerificationsTotal.WithLabelValues(string(purpose), "missing").Inc()
		return domain.ErrNoOTP
	}
	if user.OTP.Expired(time.Now().UTC()) {
		metrics.OTPVerificationsTotal.WithLabelValues(string(purpose), "expired").Inc()
		return domain.ErrOTPExpired
	}
	if !otp.VerifyCode(code, user.OTP.Hash) {
		metrics.OTPVerificationsTotal.WithLabelValues(string(purpose), "mismatch").Inc()
		return domain.ErrOTPInvalid
	}
	return nil
}

// newPendingOTP generates a code and returns its persistable form together
// with the plaintext to be emailed.
func newPendingOTP() (*domain.OTP, string, error) {
	code := otp.GenerateCode()
	hash, err := otp.HashCode(code)
	if err != nil {
		return nil, "", err
	}
	return &domain.OTP{
		Hash:      hash,
		ExpiresAt: time.Now().UTC().Add(domain.OTPTTL),
	}, code, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
