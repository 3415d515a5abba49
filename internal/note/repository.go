package note

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the (note, owner) pair matched nothing. A note owned
// by someone else is indistinguishable from a missing note.
var ErrNotFound = errors.New("note not found")

// Repository persists notes. Every per-note operation is scoped by the
// composite (id, ownerID) key.
type Repository interface {
	Create(ctx context.Context, note Note) error
	Find(ctx context.Context, id, ownerID string) (Note, error)
	// List returns a page of the owner's notes, newest-first by creation
	// time, along with the total count.
	List(ctx context.Context, ownerID string, offset, limit int) ([]Note, int, error)
	Update(ctx context.Context, id, ownerID, content string) (Note, error)
	Delete(ctx context.Context, id, ownerID string) error
	DeleteByOwner(ctx context.Context, ownerID string) error
}

// PostgresRepository stores notes in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed note repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a note record.
func (r *PostgresRepository) Create(ctx context.Context, note Note) error {
	noteID, err := uuid.Parse(note.ID)
	if err != nil {
		return err
	}
	ownerID, err := uuid.Parse(note.OwnerID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO notes (id, owner_id, content, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5)`,
		noteID, ownerID, note.Content, note.CreatedAt.UTC(), note.UpdatedAt.UTC())
	return err
}

// Find fetches a note by the composite (id, owner) key.
func (r *PostgresRepository) Find(ctx context.Context, id, ownerID string) (Note, error) {
	noteID, ownerUUID, err := parseKeys(id, ownerID)
	if err != nil {
		return Note{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, owner_id, content, created_at, updated_at
        FROM notes WHERE id = $1 AND owner_id = $2`, noteID, ownerUUID)
	return scanNote(row)
}

// List returns a page of the owner's notes, newest first, plus the total count.
func (r *PostgresRepository) List(ctx context.Context, ownerID string, offset, limit int) ([]Note, int, error) {
	ownerUUID, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, 0, ErrNotFound
	}

	rows, err := r.db.Query(ctx, `SELECT id, owner_id, content, created_at, updated_at
        FROM notes WHERE owner_id = $1
        ORDER BY created_at DESC, id
        LIMIT $2 OFFSET $3`, ownerUUID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var notes []Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, 0, err
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM notes WHERE owner_id = $1`, ownerUUID).Scan(&total); err != nil {
		return nil, 0, err
	}

	return notes, total, nil
}

// Update replaces the content of an owned note and returns the new record.
func (r *PostgresRepository) Update(ctx context.Context, id, ownerID, content string) (Note, error) {
	noteID, ownerUUID, err := parseKeys(id, ownerID)
	if err != nil {
		return Note{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `UPDATE notes SET content = $1, updated_at = now()
        WHERE id = $2 AND owner_id = $3
        RETURNING id, owner_id, content, created_at, updated_at`,
		content, noteID, ownerUUID)
	return scanNote(row)
}

// Delete permanently removes an owned note.
func (r *PostgresRepository) Delete(ctx context.Context, id, ownerID string) error {
	noteID, ownerUUID, err := parseKeys(id, ownerID)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM notes WHERE id = $1 AND owner_id = $2`, noteID, ownerUUID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByOwner removes every note the user owns.
func (r *PostgresRepository) DeleteByOwner(ctx context.Context, ownerID string) error {
	ownerUUID, err := uuid.Parse(ownerID)
	if err != nil {
		return ErrNotFound
	}
	_, err = r.db.Exec(ctx, `DELETE FROM notes WHERE owner_id = $1`, ownerUUID)
	return err
}

func parseKeys(id, ownerID string) (uuid.UUID, uuid.UUID, error) {
	noteID, err := uuid.Parse(id)
	if err != nil {
		return uuid.UUID{}, uuid.UUID{}, err
	}
	ownerUUID, err := uuid.Parse(ownerID)
	if err != nil {
		return uuid.UUID{}, uuid.UUID{}, err
	}
	return noteID, ownerUUID, nil
}

func scanNote(row pgx.Row) (Note, error) {
	var (
		id        uuid.UUID
		ownerID   uuid.UUID
		n         Note
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&id, &ownerID, &n.Content, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Note{}, ErrNotFound
		}
		return Note{}, err
	}
	n.ID = id.String()
	n.OwnerID = ownerID.String()
	n.CreatedAt = createdAt.UTC()
	n.UpdatedAt = updatedAt.UTC()
	return n, nil
}
