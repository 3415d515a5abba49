// Package otp issues and verifies short-lived one-time passcodes. Each
// credential is tagged with a purpose so that verification and login codes
// never invalidate each other.
package otp

import (
	"context"
	"errors"
	"math/rand/v2"
	"strconv"
	"time"
)

// Purpose tags what a credential may be redeemed for.
type Purpose string

const (
	// PurposeEmailVerify marks codes that confirm ownership of an address.
	PurposeEmailVerify Purpose = "email_verify"
	// PurposeLogin marks codes that complete a login.
	PurposeLogin Purpose = "login"
)

// ErrInvalidCode covers every redemption failure: unknown credential, code
// mismatch, or expiry. Callers must not be able to tell these apart.
var ErrInvalidCode = errors.New("invalid or expired OTP")

// Credential is a single-use passcode bound to a user and purpose.
type Credential struct {
	UserID    string
	Purpose   Purpose
	Code      string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Matches reports whether the submitted code equals the stored code exactly
// and the instant lies strictly before the expiry.
func (c Credential) Matches(code string, now time.Time) bool {
	return c.Code != "" && c.Code == code && now.Before(c.ExpiresAt)
}

// GenerateCode returns a uniformly random 6-digit decimal code in
// [100000, 999999].
func GenerateCode() string {
	return strconv.Itoa(100000 + rand.IntN(900000))
}

// Issuer creates and redeems credentials against a repository.
type Issuer struct {
	repo Repository
}

// NewIssuer builds an issuer over the given store.
func NewIssuer(repo Repository) *Issuer {
	return &Issuer{repo: repo}
}

// Issue generates a fresh code for the user and purpose, replacing any
// previous credential of the same purpose.
func (i *Issuer) Issue(ctx context.Context, userID string, purpose Purpose, ttl time.Duration) (Credential, error) {
	now := time.Now().UTC()
	cred := Credential{
		UserID:    userID,
		Purpose:   purpose,
		Code:      GenerateCode(),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	if err := i.repo.Save(ctx, cred); err != nil {
		return Credential{}, err
	}
	return cred, nil
}

// Consume redeems a code: on success the credential is deleted so it cannot
// be replayed. Any failure is reported as ErrInvalidCode.
func (i *Issuer) Consume(ctx context.Context, userID string, purpose Purpose, code string) error {
	cred, err := i.repo.Find(ctx, userID, purpose)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidCode
		}
		return err
	}
	if !cred.Matches(code, time.Now().UTC()) {
		return ErrInvalidCode
	}
	return i.repo.Delete(ctx, userID, purpose)
}
