package otp

import (
	"context"
	"sync"
)

type credKey struct {
	userID  string
	purpose Purpose
}

type memoryRepository struct {
	mu    sync.RWMutex
	creds map[credKey]Credential
}

// NewMemoryRepository builds an in-memory credential store for development
// and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{creds: make(map[credKey]Credential)}
}

func (r *memoryRepository) Save(_ context.Context, cred Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creds[credKey{cred.UserID, cred.Purpose}] = cred
	return nil
}

func (r *memoryRepository) Find(_ context.Context, userID string, purpose Purpose) (Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cred, ok := r.creds[credKey{userID, purpose}]
	if !ok {
		return Credential{}, ErrNotFound
	}
	return cred, nil
}

func (r *memoryRepository) Delete(_ context.Context, userID string, purpose Purpose) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.creds, credKey{userID, purpose})
	return nil
}

func (r *memoryRepository) DeleteByUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.creds {
		if key.userID == userID {
			delete(r.creds, key)
		}
	}
	return nil
}
