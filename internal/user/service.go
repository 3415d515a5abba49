package user

import (
	"context"
	"errors"
	"time"

	"github.com/notehive/notehive/internal/apperr"
)

// NotePurger removes all notes owned by a user. Satisfied by note.Repository.
type NotePurger interface {
	DeleteByOwner(ctx context.Context, ownerID string) error
}

// CredentialPurger removes all OTP credentials issued to a user. Satisfied
// by otp.Repository.
type CredentialPurger interface {
	DeleteByUser(ctx context.Context, userID string) error
}

// Service manages the profile lifecycle of existing accounts. Registration
// and verification live in the auth package.
type Service struct {
	repo  Repository
	notes NotePurger
	creds CredentialPurger
}

// NewService creates a user profile service.
func NewService(repo Repository, notes NotePurger, creds CredentialPurger) *Service {
	return &Service{repo: repo, notes: notes, creds: creds}
}

// Get fetches a user by ID.
func (s *Service) Get(ctx context.Context, id string) (User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, apperr.NotFound("User not found")
		}
		return User{}, apperr.Internal("fetch user", err)
	}
	return u, nil
}

// ProfileUpdate carries the optional profile fields of a PATCH. Nil fields
// are left unchanged; email, verification state, and OTP state are never
// updatable through this path.
type ProfileUpdate struct {
	Name        *string
	DateOfBirth *time.Time
}

// UpdateProfile validates and applies a partial profile update.
func (s *Service) UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (User, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return User{}, err
	}

	name := current.Name
	if update.Name != nil {
		name = *update.Name
		if err := ValidateName(name); err != nil {
			return User{}, err
		}
	}

	dob := current.DateOfBirth
	if update.DateOfBirth != nil {
		dob = *update.DateOfBirth
		if err := ValidateDateOfBirth(dob); err != nil {
			return User{}, err
		}
	}

	updated, err := s.repo.UpdateProfile(ctx, id, name, dob)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, apperr.NotFound("User not found")
		}
		return User{}, apperr.Internal("update profile", err)
	}
	return updated, nil
}

// Delete removes the account and everything it owns: notes first, then OTP
// credentials, then the user record. Postgres enforces the same cascade via
// foreign keys; doing it here keeps the in-memory stores consistent.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	if err := s.notes.DeleteByOwner(ctx, id); err != nil {
		return apperr.Internal("delete notes", err)
	}
	if err := s.creds.DeleteByUser(ctx, id); err != nil {
		return apperr.Internal("delete credentials", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound("User not found")
		}
		return apperr.Internal("delete user", err)
	}
	return nil
}
