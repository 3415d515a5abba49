package note

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/notehive/notehive/internal/apperr"
)

func seedNotes(t *testing.T, svc *Service, ownerID string, count int) []Note {
	t.Helper()
	ctx := context.Background()
	notes := make([]Note, 0, count)
	base := time.Now().UTC().Add(-time.Duration(count) * time.Second)
	for i := 0; i < count; i++ {
		n, err := svc.Create(ctx, ownerID, fmt.Sprintf("note %d", i))
		if err != nil {
			t.Fatalf("create note %d: %v", i, err)
		}
		// Spread creation times so ordering is deterministic.
		n.CreatedAt = base.Add(time.Duration(i) * time.Second)
		n.UpdatedAt = n.CreatedAt
		if err := svc.repo.Create(ctx, n); err != nil {
			t.Fatalf("backdate note %d: %v", i, err)
		}
		notes = append(notes, n)
	}
	return notes
}

func TestListPagination(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	owner := uuid.New().String()
	seedNotes(t, svc, owner, 25)
	ctx := context.Background()

	page1, err := svc.List(ctx, owner, 1, 10)
	if err != nil {
		t.Fatalf("list page 1: %v", err)
	}
	if page1.Total != 25 || page1.TotalPages != 3 {
		t.Fatalf("expected total=25 totalPages=3, got total=%d totalPages=%d", page1.Total, page1.TotalPages)
	}
	if len(page1.Notes) != 10 {
		t.Fatalf("expected 10 notes on page 1, got %d", len(page1.Notes))
	}

	page3, err := svc.List(ctx, owner, 3, 10)
	if err != nil {
		t.Fatalf("list page 3: %v", err)
	}
	if len(page3.Notes) != 5 {
		t.Fatalf("expected 5 notes on page 3, got %d", len(page3.Notes))
	}

	// Newest first across the whole listing.
	all, err := svc.List(ctx, owner, 1, 25)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	for i := 1; i < len(all.Notes); i++ {
		if all.Notes[i-1].CreatedAt.Before(all.Notes[i].CreatedAt) {
			t.Fatalf("notes out of order at index %d", i)
		}
	}

	// Beyond the last page: empty but consistent totals.
	page4, err := svc.List(ctx, owner, 4, 10)
	if err != nil {
		t.Fatalf("list page 4: %v", err)
	}
	if len(page4.Notes) != 0 || page4.Total != 25 {
		t.Fatalf("expected empty page with total=25, got %d notes total=%d", len(page4.Notes), page4.Total)
	}
}

func TestListRejectsBadPagination(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	owner := uuid.New().String()
	ctx := context.Background()

	for _, tc := range []struct{ page, limit int }{
		{0, 10},
		{-1, 10},
		{1, 0},
		{1, 101},
	} {
		if _, err := svc.List(ctx, owner, tc.page, tc.limit); !apperr.Is(err, apperr.CodeBadRequest) {
			t.Fatalf("page=%d limit=%d: expected BadRequest, got %v", tc.page, tc.limit, err)
		}
	}

	if _, err := svc.List(ctx, owner, 1, 100); err != nil {
		t.Fatalf("limit=100 must be accepted: %v", err)
	}
}

func TestOwnerScoping(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()
	alice := uuid.New().String()
	bob := uuid.New().String()

	n, err := svc.Create(ctx, alice, "alice's secret")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Another user's valid note id behaves exactly like a missing note.
	if _, err := svc.Get(ctx, n.ID, bob); !apperr.Is(err, apperr.CodeNotFound) {
		t.Fatalf("get: expected NotFound for foreign note, got %v", err)
	}
	if _, err := svc.Update(ctx, n.ID, bob, "overwritten"); !apperr.Is(err, apperr.CodeNotFound) {
		t.Fatalf("update: expected NotFound for foreign note, got %v", err)
	}
	if err := svc.Delete(ctx, n.ID, bob); !apperr.Is(err, apperr.CodeNotFound) {
		t.Fatalf("delete: expected NotFound for foreign note, got %v", err)
	}

	// The owner still sees the untouched note.
	got, err := svc.Get(ctx, n.ID, alice)
	if err != nil {
		t.Fatalf("owner get: %v", err)
	}
	if got.Content != "alice's secret" {
		t.Fatalf("content changed: %q", got.Content)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()
	owner := uuid.New().String()

	for _, content := range []string{"", "   ", "\n\t"} {
		if _, err := svc.Create(ctx, owner, content); !apperr.Is(err, apperr.CodeBadRequest) {
			t.Fatalf("content %q: expected BadRequest, got %v", content, err)
		}
	}
}

func TestUpdateAndDelete(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()
	owner := uuid.New().String()

	n, err := svc.Create(ctx, owner, "first draft")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(ctx, n.ID, owner, "second draft")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Content != "second draft" {
		t.Fatalf("expected updated content, got %q", updated.Content)
	}
	if updated.OwnerID != owner {
		t.Fatalf("owner must be immutable")
	}

	if err := svc.Delete(ctx, n.ID, owner); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, n.ID, owner); !apperr.Is(err, apperr.CodeNotFound) {
		t.Fatalf("expected NotFound after delete, got %v", err)
	}
}
