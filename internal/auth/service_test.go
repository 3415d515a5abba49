package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/notehive/notehive/internal/apperr"
	"github.com/notehive/notehive/internal/logging"
	"github.com/notehive/notehive/internal/notification"
	"github.com/notehive/notehive/internal/otp"
	"github.com/notehive/notehive/internal/user"
)

type authFixture struct {
	svc      *Service
	users    user.Repository
	creds    otp.Repository
	notifier *notification.Capture
	tokens   *TokenIssuer
}

func newFixture(t *testing.T) *authFixture {
	t.Helper()
	users := user.NewMemoryRepository()
	creds := otp.NewMemoryRepository()
	notifier := notification.NewCapture()
	tokens := NewTokenIssuer("test-secret", time.Hour)
	svc := NewService(users, otp.NewIssuer(creds), notifier, tokens, logging.Discard(), 10*time.Minute, 5*time.Minute)
	return &authFixture{svc: svc, users: users, creds: creds, notifier: notifier, tokens: tokens}
}

func register(t *testing.T, f *authFixture, email string) user.User {
	t.Helper()
	u, err := f.svc.Register(context.Background(), RegisterInput{
		Email:       email,
		Name:        "Jane Doe",
		DateOfBirth: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return u
}

func TestRegisterAndVerifyEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := register(t, f, "a@x.com")
	if u.IsEmailVerified {
		t.Fatalf("new account must start unverified")
	}

	code := f.notifier.LastCode("a@x.com")
	if code == "" {
		t.Fatalf("expected a verification code to be sent")
	}

	if _, err := f.svc.VerifyEmail(ctx, "a@x.com", "000000"); !apperr.Is(err, apperr.CodeUnauthorized) {
		t.Fatalf("expected Unauthorized for wrong code, got %v", err)
	}

	verified, err := f.svc.VerifyEmail(ctx, "a@x.com", code)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !verified.IsEmailVerified {
		t.Fatalf("expected isEmailVerified=true after verification")
	}
	if f.notifier.WelcomeCount() != 1 {
		t.Fatalf("expected one welcome email, got %d", f.notifier.WelcomeCount())
	}

	// Verification is one-shot.
	if _, err := f.svc.VerifyEmail(ctx, "a@x.com", code); !apperr.Is(err, apperr.CodeConflict) {
		t.Fatalf("expected Conflict on second verification, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	register(t, f, "a@x.com")

	_, err := f.svc.Register(context.Background(), RegisterInput{
		Email:       "A@X.com", // identity is case-insensitive
		Name:        "Jane Doe",
		DateOfBirth: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if !apperr.Is(err, apperr.CodeConflict) {
		t.Fatalf("expected Conflict for duplicate email, got %v", err)
	}
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dob := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		in   RegisterInput
	}{
		{"bad email", RegisterInput{Email: "not-an-email", Name: "Jane", DateOfBirth: dob}},
		{"long name", RegisterInput{Email: "b@x.com", Name: strings.Repeat("x", 51), DateOfBirth: dob}},
		{"dob too old", RegisterInput{Email: "c@x.com", Name: "Jane", DateOfBirth: time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC)}},
		{"dob in future", RegisterInput{Email: "d@x.com", Name: "Jane", DateOfBirth: time.Now().UTC().AddDate(0, 0, 1)}},
	}
	for _, tc := range cases {
		if _, err := f.svc.Register(ctx, tc.in); !apperr.Is(err, apperr.CodeBadRequest) {
			t.Fatalf("%s: expected BadRequest, got %v", tc.name, err)
		}
	}
}

func TestVerifyEmailExpiredCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := register(t, f, "a@x.com")
	code := f.notifier.LastCode("a@x.com")

	cred, err := f.creds.Find(ctx, u.ID, otp.PurposeEmailVerify)
	if err != nil {
		t.Fatalf("find credential: %v", err)
	}
	cred.ExpiresAt = time.Now().UTC().Add(-time.Minute)
	if err := f.creds.Save(ctx, cred); err != nil {
		t.Fatalf("expire credential: %v", err)
	}

	if _, err := f.svc.VerifyEmail(ctx, "a@x.com", code); !apperr.Is(err, apperr.CodeUnauthorized) {
		t.Fatalf("expected Unauthorized for expired code, got %v", err)
	}
}

func TestResendInvalidatesPreviousCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	register(t, f, "a@x.com")
	first := f.notifier.LastCode("a@x.com")

	if err := f.svc.ResendOTP(ctx, "a@x.com"); err != nil {
		t.Fatalf("resend: %v", err)
	}
	second := f.notifier.LastCode("a@x.com")

	if first != second {
		if _, err := f.svc.VerifyEmail(ctx, "a@x.com", first); !apperr.Is(err, apperr.CodeUnauthorized) {
			t.Fatalf("expected stale code to fail, got %v", err)
		}
	}
	if _, err := f.svc.VerifyEmail(ctx, "a@x.com", second); err != nil {
		t.Fatalf("newest code must verify: %v", err)
	}

	// Once verified there is nothing left to resend.
	if err := f.svc.ResendOTP(ctx, "a@x.com"); !apperr.Is(err, apperr.CodeConflict) {
		t.Fatalf("expected Conflict after verification, got %v", err)
	}
}

func TestLoginFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := register(t, f, "a@x.com")

	if err := f.svc.InitiateLogin(ctx, "a@x.com"); err != nil {
		t.Fatalf("initiate login: %v", err)
	}
	code := f.notifier.LastCode("a@x.com")

	if _, _, err := f.svc.CompleteLogin(ctx, "a@x.com", "000000"); !apperr.Is(err, apperr.CodeUnauthorized) {
		t.Fatalf("expected Unauthorized for wrong code, got %v", err)
	}

	// Login does not require a verified email.
	logged, token, err := f.svc.CompleteLogin(ctx, "a@x.com", code)
	if err != nil {
		t.Fatalf("complete login: %v", err)
	}
	if logged.ID != u.ID {
		t.Fatalf("expected user %s, got %s", u.ID, logged.ID)
	}

	userID, err := f.tokens.Verify(token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if userID != u.ID {
		t.Fatalf("token bound to %s, want %s", userID, u.ID)
	}

	// Login codes are single use.
	if _, _, err := f.svc.CompleteLogin(ctx, "a@x.com", code); !apperr.Is(err, apperr.CodeUnauthorized) {
		t.Fatalf("expected Unauthorized on code replay, got %v", err)
	}
}

func TestLoginIssuanceKeepsVerificationCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	register(t, f, "a@x.com")
	verifyCode := f.notifier.LastCode("a@x.com")

	if err := f.svc.InitiateLogin(ctx, "a@x.com"); err != nil {
		t.Fatalf("initiate login: %v", err)
	}

	if _, err := f.svc.VerifyEmail(ctx, "a@x.com", verifyCode); err != nil {
		t.Fatalf("verification code must survive login issuance: %v", err)
	}
}

func TestUnknownEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.svc.InitiateLogin(ctx, "nobody@x.com"); !apperr.Is(err, apperr.CodeNotFound) {
		t.Fatalf("initiate: expected NotFound, got %v", err)
	}
	if _, _, err := f.svc.CompleteLogin(ctx, "nobody@x.com", "123456"); !apperr.Is(err, apperr.CodeNotFound) {
		t.Fatalf("complete: expected NotFound, got %v", err)
	}
	if _, err := f.svc.VerifyEmail(ctx, "nobody@x.com", "123456"); !apperr.Is(err, apperr.CodeNotFound) {
		t.Fatalf("verify: expected NotFound, got %v", err)
	}
	if err := f.svc.ResendOTP(ctx, "nobody@x.com"); !apperr.Is(err, apperr.CodeNotFound) {
		t.Fatalf("resend: expected NotFound, got %v", err)
	}
}

func TestDeliveryFailurePolicy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.notifier.FailOTP = errors.New("relay down")

	// Registration swallows delivery failures: the account must still exist
	// with a live code.
	u, err := f.svc.Register(ctx, RegisterInput{
		Email:       "a@x.com",
		Name:        "Jane Doe",
		DateOfBirth: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("register must not fail on delivery error: %v", err)
	}
	if _, err := f.creds.Find(ctx, u.ID, otp.PurposeEmailVerify); err != nil {
		t.Fatalf("expected live verification credential: %v", err)
	}

	// Login initiation and resend propagate the failure.
	if err := f.svc.InitiateLogin(ctx, "a@x.com"); err == nil {
		t.Fatalf("expected initiate login to surface delivery failure")
	}
	if err := f.svc.ResendOTP(ctx, "a@x.com"); err == nil {
		t.Fatalf("expected resend to surface delivery failure")
	}
}

func TestWelcomeFailureSwallowed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	register(t, f, "a@x.com")
	code := f.notifier.LastCode("a@x.com")

	f.notifier.FailWelcome = errors.New("relay down")
	verified, err := f.svc.VerifyEmail(ctx, "a@x.com", code)
	if err != nil {
		t.Fatalf("welcome failure must never surface: %v", err)
	}
	if !verified.IsEmailVerified {
		t.Fatalf("expected verification to stick despite welcome failure")
	}
}
