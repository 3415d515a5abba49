package note

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/notehive/notehive/internal/apperr"
)

const (
	// DefaultLimit applies when the caller omits the page size.
	DefaultLimit = 10
	maxLimit     = 100
)

// Service exposes owner-scoped note operations.
type Service struct {
	repo Repository
}

// NewService builds a note service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ValidateContent requires non-blank content.
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return apperr.BadRequest("Content is required")
	}
	return nil
}

// Create stores a new note for the owner.
func (s *Service) Create(ctx context.Context, ownerID, content string) (Note, error) {
	if err := ValidateContent(content); err != nil {
		return Note{}, err
	}

	now := time.Now().UTC()
	n := Note{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return Note{}, apperr.Internal("create note", err)
	}
	return n, nil
}

// Page is one window of an owner's notes, newest first.
type Page struct {
	Notes      []Note
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

// List returns the requested page. Page must be >= 1 and limit within
// [1, 100]; anything else is rejected.
func (s *Service) List(ctx context.Context, ownerID string, page, limit int) (Page, error) {
	if page < 1 || limit < 1 || limit > maxLimit {
		return Page{}, apperr.BadRequest("Invalid pagination parameters. Page must be >= 1 and limit must be between 1 and 100")
	}

	notes, total, err := s.repo.List(ctx, ownerID, (page-1)*limit, limit)
	if err != nil {
		return Page{}, apperr.Internal("list notes", err)
	}

	return Page{
		Notes:      notes,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	}, nil
}

// Get fetches one owned note.
func (s *Service) Get(ctx context.Context, id, ownerID string) (Note, error) {
	n, err := s.repo.Find(ctx, id, ownerID)
	if err != nil {
		return Note{}, translate(err)
	}
	return n, nil
}

// Update replaces the content of an owned note.
func (s *Service) Update(ctx context.Context, id, ownerID, content string) (Note, error) {
	if err := ValidateContent(content); err != nil {
		return Note{}, err
	}
	n, err := s.repo.Update(ctx, id, ownerID, content)
	if err != nil {
		return Note{}, translate(err)
	}
	return n, nil
}

// Delete permanently removes an owned note.
func (s *Service) Delete(ctx context.Context, id, ownerID string) error {
	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		return translate(err)
	}
	return nil
}

func translate(err error) error {
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("Note not found")
	}
	return apperr.Internal("note storage", err)
}
