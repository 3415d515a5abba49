package note

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryRepository struct {
	mu    sync.RWMutex
	notes map[string]Note // keyed by note ID
}

// NewMemoryRepository builds an in-memory note store for development and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{notes: make(map[string]Note)}
}

func (r *memoryRepository) Create(_ context.Context, note Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes[note.ID] = note
	return nil
}

func (r *memoryRepository) Find(_ context.Context, id, ownerID string) (Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.notes[id]
	if !ok || n.OwnerID != ownerID {
		return Note{}, ErrNotFound
	}
	return n, nil
}

func (r *memoryRepository) List(_ context.Context, ownerID string, offset, limit int) ([]Note, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var owned []Note
	for _, n := range r.notes {
		if n.OwnerID == ownerID {
			owned = append(owned, n)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		if owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
			return owned[i].ID < owned[j].ID
		}
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})

	total := len(owned)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	page := make([]Note, end-offset)
	copy(page, owned[offset:end])
	return page, total, nil
}

func (r *memoryRepository) Update(_ context.Context, id, ownerID, content string) (Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notes[id]
	if !ok || n.OwnerID != ownerID {
		return Note{}, ErrNotFound
	}
	n.Content = content
	n.UpdatedAt = time.Now().UTC()
	r.notes[id] = n
	return n, nil
}

func (r *memoryRepository) Delete(_ context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notes[id]
	if !ok || n.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(r.notes, n.ID)
	return nil
}

func (r *memoryRepository) DeleteByOwner(_ context.Context, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, n := range r.notes {
		if n.OwnerID == ownerID {
			delete(r.notes, id)
		}
	}
	return nil
}
