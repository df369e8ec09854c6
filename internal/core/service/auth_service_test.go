package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Hriday2406/NoAI-Backend/internal/core/domain"
	"github.com/Hriday2406/NoAI-Backend/internal/core/otp"
	"github.com/Hriday2406/NoAI-Backend/internal/core/ports"
)

type stubUserRepo struct {
	users     map[string]*domain.User // keyed by ID
	nextID    int
	updateErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User, withOTP bool) *domain.User {
	clone := *u
	if u.OTP != nil && withOTP {
		o := *u.OTP
		clone.OTP = &o
	} else {
		clone.OTP = nil
	}
	return &clone
}

func (r *stubUserRepo) findByEmail(email string, withOTP bool) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u, withOTP), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.findByEmail(email, false)
}

func (r *stubUserRepo) FindByEmailWithOTP(_ context.Context, email string) (*domain.User, error) {
	return r.findByEmail(email, true)
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u, false), nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.nextID++
	stored := cloneUser(user, true)
	stored.ID = "u" + strconv.Itoa(r.nextID)
	r.users[stored.ID] = stored
	return cloneUser(stored, false), nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, upd domain.UserUpdate) (*domain.User, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Email != nil {
		for _, other := range r.users {
			if other.ID != id && other.Email == *upd.Email {
				return nil, domain.ErrEmailTaken
			}
		}
		u.Email = *upd.Email
	}
	if upd.Verified != nil {
		u.IsVerified = *upd.Verified
	}
	switch {
	case upd.ClearOTP:
		u.OTP = nil
	case upd.OTP != nil:
		o := *upd.OTP
		u.OTP = &o
	}
	u.UpdatedAt = time.Now().UTC()
	return cloneUser(u, false), nil
}

type stubSender struct {
	email   string
	code    string
	purpose domain.OTPPurpose
	calls   int
	err     error
}

func (s *stubSender) Send(_ context.Context, email, code string, purpose domain.OTPPurpose) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	s.email, s.code, s.purpose = email, code, purpose
	return nil
}

type stubIssuer struct {
	err error
}

func (s *stubIssuer) Issue(userID, _ string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "token-" + userID, nil
}

func newTestService(repo ports.UserRepository, sender ports.OTPSender) *AuthService {
	return NewAuthService(repo, sender, &stubIssuer{}, zerolog.Nop())
}

func seedUser(repo *stubUserRepo, email string, verified, active bool, pending *domain.OTP) *domain.User {
	repo.nextID++
	id := "u" + strconv.Itoa(repo.nextID)
	u := &domain.User{
		ID:         id,
		Name:       "Seed",
		Email:      email,
		OTP:        pending,
		IsVerified: verified,
		IsActive:   active,
		Role:       domain.RoleUser,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	repo.users[id] = u
	return u
}

func mustHash(t *testing.T, code string) string {
	t.Helper()
	hash, err := otp.HashCode(code)
	if err != nil {
		t.Fatalf("hash code: %v", err)
	}
	return hash
}

func TestRegister_NewUser(t *testing.T) {
	repo := newStubUserRepo()
	sender := &stubSender{}
	svc := newTestService(repo, sender)

	email, err := svc.Register(context.Background(), "Ann", "Ann@X.com")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if email != "ann@x.com" {
		t.Fatalf("expected normalized email, got %q", email)
	}
	if sender.purpose != domain.PurposeVerification {
		t.Fatalf("expected verification purpose, got %q", sender.purpose)
	}
	if len(sender.code) != 6 {
		t.Fatalf("expected 6-digit code, got %q", sender.code)
	}

	stored, err := repo.FindByEmailWithOTP(context.Background(), "ann@x.com")
	if err != nil {
		t.Fatalf("stored user not found: %v", err)
	}
	if stored.IsVerified {
		t.Fatalf("new user must start unverified")
	}
	if !stored.IsActive {
		t.Fatalf("new user must start active")
	}
	if stored.Role != domain.RoleUser {
		t.Fatalf("unexpected role %q", stored.Role)
	}
	if !stored.HasPendingOTP() {
		t.Fatalf("expected pending OTP")
	}
	if stored.OTP.Expired(time.Now().UTC()) {
		t.Fatalf("fresh OTP must not be expired")
	}
	if !otp.VerifyCode(sender.code, stored.OTP.Hash) {
		t.Fatalf("stored hash does not match sent code")
	}
}

func TestRegister_RefreshUnverified(t *testing.T) {
	repo := newStubUserRepo()
	sender := &stubSender{}
	svc := newTestService(repo, sender)

	if _, err := svc.Register(context.Background(), "Ann", "ann@x.com"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	firstCode := sender.code

	if _, err := svc.Register(context.Background(), "Annie", "ann@x.com"); err != nil {
		t.Fatalf("second register: %v", err)
	}

	stored, _ := repo.FindByEmailWithOTP(context.Background(), "ann@x.com")
	if stored.Name != "Annie" {
		t.Fatalf("expected refreshed name, got %q", stored.Name)
	}
	if firstCode != sender.code && otp.VerifyCode(firstCode, stored.OTP.Hash) {
		t.Fatalf("old code must not verify after refresh")
	}
	if !otp.VerifyCode(sender.code, stored.OTP.Hash) {
		t.Fatalf("fresh code must verify")
	}
}

func TestRegister_VerifiedUserRejected(t *testing.T) {
	repo := newStubUserRepo()
	sender := &stubSender{}
	svc := newTestService(repo, sender)
	seedUser(repo, "ann@x.com", true, true, nil)

	if _, err := svc.Register(context.Background(), "Ann", "ann@x.com"); !errors.Is(err, domain.ErrUserAlreadyVerified) {
		t.Fatalf("expected ErrUserAlreadyVerified, got %v", err)
	}
	if sender.calls != 0 {
		t.Fatalf("no OTP may be sent for a verified user")
	}
}

func TestRegister_DeliveryFailure(t *testing.T) {
	repo := newStubUserRepo()
	sender := &stubSender{err: fmt.Errorf("smtp: connection refused")}
	svc := newTestService(repo, sender)

	if _, err := svc.Register(context.Background(), "Ann", "ann@x.com"); !errors.Is(err, domain.ErrDeliveryFailed) {
		t.Fatalf("expected ErrDeliveryFailed, got %v", err)
	}
}

func TestVerifyOTP_Success(t *testing.T) {
	repo := newStubUserRepo()
	sender := &stubSender{}
	svc := newTestService(repo, sender)

	if _, err := svc.Register(context.Background(), "Ann", "ann@x.com"); err != nil {
		t.Fatalf("register: %v", err)
	}

	user, token, err := svc.VerifyOTP(context.Background(), "ann@x.com", sender.code)
	if err != nil {
		t.Fatalf("VerifyOTP returned error: %v", err)
	}
	if !user.IsVerified {
		t.Fatalf("user must be verified after OTP verification")
	}
	if token == "" {
		t.Fatalf("expected token")
	}

	stored, _ := repo.FindByEmailWithOTP(context.Background(), "ann@x.com")
	if stored.HasPendingOTP() {
		t.Fatalf("OTP must be consumed on success")
	}
}

func TestVerifyOTP_Replay(t *testing.T) {
	repo := newStubUserRepo()
	sender := &stubSender{}
	svc := newTestService(repo, sender)

	_, _ = svc.Register(context.Background(), "Ann", "ann@x.com")
	if _, _, err := svc.VerifyOTP(context.Background(), "ann@x.com", sender.code); err != nil {
		t.Fatalf("first verify: %v", err)
	}
	if _, _, err := svc.VerifyOTP(context.Background(), "ann@x.com", sender.code); !errors.Is(err, domain.ErrNoOTP) {
		t.Fatalf("replay must fail with ErrNoOTP, got %v", err)
	}
}

func TestVerifyOTP_Expired(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo, &stubSender{})
	seedUser(repo, "ann@x.com", false, true, &domain.OTP{
		Hash:      mustHash(t, "123456"),
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
	})

	if _, _, err := svc.VerifyOTP(context.Background(), "ann@x.com", "123456"); !errors.Is(err, domain.ErrOTPExpired) {
		t.Fatalf("expected ErrOTPExpired, got %v", err)
	}
}

func TestVerifyOTP_Mismatch(t *testing.T) {
	repo := newStubUserRepo()
	sender := &stubSender{}
	svc := newTestService(repo, sender)

	_, _ = svc.Register(context.Background(), "Ann", "ann@x.com")
	wrong := "000000"
	if wrong == sender.code {
		wrong = "000001"
	}
	if _, _, err := svc.VerifyOTP(context.Background(), "ann@x.com", wrong); !errors.Is(err, domain.ErrOTPInvalid) {
		t.Fatalf("expected ErrOTPInvalid, got %v", err)
	}
}

func TestVerifyOTP_UnknownEmail(t *testing.T) {
	svc := newTestService(newStubUserRepo(), &stubSender{})
	if _, _, err := svc.VerifyOTP(context.Background(), "ghost@x.com", "123456"); !errors.Is(err, domain.ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestLogin_Success(t *testing.T) {
	repo := newStubUserRepo()
	sender := &stubSender{}
	svc := newTestService(repo, sender)
	seedUser(repo, "ann@x.com", true, true, nil)

	email, err := svc.Login(context.Background(), "Ann@X.com")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if email != "ann@x.com" {
		t.Fatalf("expected normalized email, got %q", email)
	}
	if sender.purpose != domain.PurposeLogin {
		t.Fatalf("expected login purpose, got %q", sender.purpose)
	}

	stored, _ := repo.FindByEmailWithOTP(context.Background(), "ann@x.com")
	if !stored.HasPendingOTP() {
		t.Fatalf("expected pending login OTP")
	}
}

func TestLogin_Gates(t *testing.T) {
	tests := []struct {
		name    string
		seed    func(repo *stubUserRepo)
		wantErr error
	}{
		{"unknown", func(*stubUserRepo) {}, domain.ErrUserNotFound},
		{"unverified", func(r *stubUserRepo) { seedUser(r, "ann@x.com", false, true, nil) }, domain.ErrNotVerified},
		{"inactive", func(r *stubUserRepo) { seedUser(r, "ann@x.com", true, false, nil) }, domain.ErrAccountDeactivated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newStubUserRepo()
			sender := &stubSender{}
			svc := newTestService(repo, sender)
			tt.seed(repo)

			if _, err := svc.Login(context.Background(), "ann@x.com"); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if sender.calls != 0 {
				t.Fatalf("no OTP may be issued when login is refused")
			}
		})
	}
}

func TestVerifyLoginOTP_Success(t *testing.T) {
	repo := newStubUserRepo()
	sender := &stubSender{}
	svc := newTestService(repo, sender)
	seedUser(repo, "ann@x.com", true, true, nil)

	if _, err := svc.Login(context.Background(), "ann@x.com"); err != nil {
		t.Fatalf("login: %v", err)
	}

	user, token, err := svc.VerifyLoginOTP(context.Background(), "ann@x.com", sender.code)
	if err != nil {
		t.Fatalf("VerifyLoginOTP returned error: %v", err)
	}
	if user.Email != "ann@x.com" || token == "" {
		t.Fatalf("unexpected result: %+v token=%q", user, token)
	}

	stored, _ := repo.FindByEmailWithOTP(context.Background(), "ann@x.com")
	if stored.HasPendingOTP() {
		t.Fatalf("login OTP must be consumed on success")
	}
}

func TestVerifyLoginOTP_Gates(t *testing.T) {
	pending := func(t *testing.T) *domain.OTP {
		return &domain.OTP{Hash: mustHash(t, "123456"), ExpiresAt: time.Now().UTC().Add(time.Minute)}
	}

	tests := []struct {
		name    string
		seed    func(t *testing.T, r *stubUserRepo)
		code    string
		wantErr error
	}{
		{"unknown email", func(*testing.T, *stubUserRepo) {}, "123456", domain.ErrInvalidEmail},
		{"unverified", func(t *testing.T, r *stubUserRepo) { seedUser(r, "ann@x.com", false, true, pending(t)) }, "123456", domain.ErrNotVerified},
		{"inactive", func(t *testing.T, r *stubUserRepo) { seedUser(r, "ann@x.com", true, false, pending(t)) }, "123456", domain.ErrAccountDeactivated},
		{"no otp", func(t *testing.T, r *stubUserRepo) { seedUser(r, "ann@x.com", true, true, nil) }, "123456", domain.ErrNoOTP},
		{"expired", func(t *testing.T, r *stubUserRepo) {
			seedUser(r, "ann@x.com", true, true, &domain.OTP{Hash: mustHash(t, "123456"), ExpiresAt: time.Now().UTC().Add(-time.Second)})
		}, "123456", domain.ErrOTPExpired},
		{"mismatch", func(t *testing.T, r *stubUserRepo) { seedUser(r, "ann@x.com", true, true, pending(t)) }, "654321", domain.ErrOTPInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newStubUserRepo()
			svc := newTestService(repo, &stubSender{})
			tt.seed(t, repo)

			if _, _, err := svc.VerifyLoginOTP(context.Background(), "ann@x.com", tt.code); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestMe(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo, &stubSender{})
	u := seedUser(repo, "ann@x.com", true, true, nil)

	got, err := svc.Me(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("Me returned error: %v", err)
	}
	if got.ID != u.ID || got.Email != "ann@x.com" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestUpdateProfile(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo, &stubSender{})
	u := seedUser(repo, "ann@x.com", true, true, nil)

	name := "Ann Smith"
	email := "Ann.Smith@X.com"
	got, err := svc.UpdateProfile(context.Background(), u.ID, ports.ProfileUpdateInput{Name: &name, Email: &email})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if got.Name != "Ann Smith" || got.Email != "ann.smith@x.com" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestUpdateProfile_EmailTaken(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo, &stubSender{})
	seedUser(repo, "bob@x.com", true, true, nil)
	u := seedUser(repo, "ann@x.com", true, true, nil)

	email := "bob@x.com"
	if _, err := svc.UpdateProfile(context.Background(), u.ID, ports.ProfileUpdateInput{Email: &email}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

// Full registration-to-profile walk-through.
func TestRegistrationFlow_EndToEnd(t *testing.T) {
	repo := newStubUserRepo()
	sender := &stubSender{}
	svc := newTestService(repo, sender)

	if _, err := svc.Register(context.Background(), "Ann", "ann@x.com"); err != nil {
		t.Fatalf("register: %v", err)
	}

	pending, _ := repo.FindByEmailWithOTP(context.Background(), "ann@x.com")
	if pending.IsVerified || !pending.HasPendingOTP() {
		t.Fatalf("expected pending-verification state, got %+v", pending)
	}

	user, token, err := svc.VerifyOTP(context.Background(), "ann@x.com", sender.code)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !user.IsVerified || token == "" {
		t.Fatalf("expected verified user with token")
	}

	me, err := svc.Me(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if me.Name != "Ann" || me.Email != "ann@x.com" || !me.IsVerified {
		t.Fatalf("unexpected profile: %+v", me)
	}
}
