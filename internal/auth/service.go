// Package auth orchestrates the OTP-based registration, verification, and
// login flows, and issues bearer tokens.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/notehive/notehive/internal/apperr"
	"github.com/notehive/notehive/internal/notification"
	"github.com/notehive/notehive/internal/otp"
	"github.com/notehive/notehive/internal/user"
)

// Service drives the authentication flows. Verification and login codes are
// independent credentials; issuing one never touches the other.
type Service struct {
	users     user.Repository
	creds     *otp.Issuer
	notifier  notification.Notifier
	tokens    *TokenIssuer
	logger    *slog.Logger
	verifyTTL time.Duration
	loginTTL  time.Duration
}

// NewService wires the auth flow service.
func NewService(users user.Repository, creds *otp.Issuer, notifier notification.Notifier, tokens *TokenIssuer, logger *slog.Logger, verifyTTL, loginTTL time.Duration) *Service {
	return &Service{
		users:     users,
		creds:     creds,
		notifier:  notifier,
		tokens:    tokens,
		logger:    logger,
		verifyTTL: verifyTTL,
		loginTTL:  loginTTL,
	}
}

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Email       string
	Name        string
	DateOfBirth time.Time
}

// Register creates an unverified account and sends a verification code.
// Delivery failure is logged but does not fail registration: the account
// exists and the code can be resent.
func (s *Service) Register(ctx context.Context, in RegisterInput) (user.User, error) {
	email := user.NormalizeEmail(in.Email)
	if err := user.ValidateEmail(email); err != nil {
		return user.User{}, err
	}
	if err := user.ValidateName(in.Name); err != nil {
		return user.User{}, err
	}
	if err := user.ValidateDateOfBirth(in.DateOfBirth); err != nil {
		return user.User{}, err
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return user.User{}, apperr.Conflict("User already exists with this email")
	} else if !errors.Is(err, user.ErrNotFound) {
		return user.User{}, apperr.Internal("lookup user", err)
	}

	now := time.Now().UTC()
	u := user.User{
		ID:          uuid.New().String(),
		Email:       email,
		Name:        in.Name,
		DateOfBirth: in.DateOfBirth,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return user.User{}, apperr.Conflict("User already exists with this email")
		}
		return user.User{}, apperr.Internal("create user", err)
	}

	cred, err := s.creds.Issue(ctx, u.ID, otp.PurposeEmailVerify, s.verifyTTL)
	if err != nil {
		return user.User{}, apperr.Internal("issue verification code", err)
	}

	if err := s.notifier.SendOTP(ctx, u.Email, u.Name, cred.Code, s.verifyTTL); err != nil {
		s.logger.Warn("failed to send verification otp", "email", u.Email, "error", err)
	}

	return u, nil
}

// InitiateLogin issues a short-lived login code and emails it. Unlike
// registration, delivery failure propagates: without the code the caller
// cannot proceed.
func (s *Service) InitiateLogin(ctx context.Context, email string) error {
	u, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}

	cred, err := s.creds.Issue(ctx, u.ID, otp.PurposeLogin, s.loginTTL)
	if err != nil {
		return apperr.Internal("issue login code", err)
	}

	if err := s.notifier.SendOTP(ctx, u.Email, u.Name, cred.Code, s.loginTTL); err != nil {
		return apperr.Internal("send login code", err)
	}
	return nil
}

// CompleteLogin redeems a login code and returns the user with a bearer
// token. A verified email is not required to log in.
func (s *Service) CompleteLogin(ctx context.Context, email, code string) (user.User, string, error) {
	u, err := s.findByEmail(ctx, email)
	if err != nil {
		return user.User{}, "", err
	}

	if err := s.creds.Consume(ctx, u.ID, otp.PurposeLogin, code); err != nil {
		if errors.Is(err, otp.ErrInvalidCode) {
			return user.User{}, "", apperr.Unauthorized("Invalid or expired OTP")
		}
		return user.User{}, "", apperr.Internal("consume login code", err)
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return user.User{}, "", apperr.Internal("issue token", err)
	}
	return u, token, nil
}

// VerifyEmail redeems a verification code and marks the address verified.
// The welcome email is best effort and never surfaces a failure.
func (s *Service) VerifyEmail(ctx context.Context, email, code string) (user.User, error) {
	u, err := s.findByEmail(ctx, email)
	if err != nil {
		return user.User{}, err
	}
	if u.IsEmailVerified {
		return user.User{}, apperr.Conflict("Email already verified")
	}

	if err := s.creds.Consume(ctx, u.ID, otp.PurposeEmailVerify, code); err != nil {
		if errors.Is(err, otp.ErrInvalidCode) {
			return user.User{}, apperr.Unauthorized("Invalid or expired OTP")
		}
		return user.User{}, apperr.Internal("consume verification code", err)
	}

	if err := s.users.SetEmailVerified(ctx, u.ID); err != nil {
		return user.User{}, apperr.Internal("mark email verified", err)
	}
	u.IsEmailVerified = true

	if err := s.notifier.SendWelcome(ctx, u.Email, u.Name); err != nil {
		s.logger.Warn("failed to send welcome email", "email", u.Email, "error", err)
	}

	return u, nil
}

// ResendOTP issues a fresh verification code, replacing any unexpired one.
// Delivery failure propagates so the caller knows no code arrived.
func (s *Service) ResendOTP(ctx context.Context, email string) error {
	u, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u.IsEmailVerified {
		return apperr.Conflict("Email already verified")
	}

	cred, err := s.creds.Issue(ctx, u.ID, otp.PurposeEmailVerify, s.verifyTTL)
	if err != nil {
		return apperr.Internal("issue verification code", err)
	}

	if err := s.notifier.SendOTP(ctx, u.Email, u.Name, cred.Code, s.verifyTTL); err != nil {
		return apperr.Internal("send verification code", err)
	}
	return nil
}

func (s *Service) findByEmail(ctx context.Context, email string) (user.User, error) {
	u, err := s.users.FindByEmail(ctx, user.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, apperr.NotFound("User not found")
		}
		return user.User{}, apperr.Internal("lookup user", err)
	}
	return u, nil
}
