package note

import "time"

// Note is a free-text note owned by exactly one user. The owner reference
// is immutable after creation.
type Note struct {
	ID        string
	OwnerID   string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
