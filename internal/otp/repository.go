package otp

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates no credential exists for the (user, purpose) pair.
var ErrNotFound = errors.New("credential not found")

// Repository persists OTP credentials keyed by (user, purpose).
type Repository interface {
	// Save upserts the credential, replacing any existing one of the same purpose.
	Save(ctx context.Context, cred Credential) error
	Find(ctx context.Context, userID string, purpose Purpose) (Credential, error)
	Delete(ctx context.Context, userID string, purpose Purpose) error
	// DeleteByUser removes every credential issued to the user.
	DeleteByUser(ctx context.Context, userID string) error
}

// PostgresRepository stores credentials in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed credential repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Save upserts the credential for its (user, purpose) key.
func (r *PostgresRepository) Save(ctx context.Context, cred Credential) error {
	userID, err := uuid.Parse(cred.UserID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO otp_credentials (user_id, purpose, code, expires_at, created_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (user_id, purpose)
        DO UPDATE SET code = EXCLUDED.code, expires_at = EXCLUDED.expires_at, created_at = EXCLUDED.created_at`,
		userID, string(cred.Purpose), cred.Code, cred.ExpiresAt.UTC(), cred.CreatedAt.UTC())
	return err
}

// Find fetches the credential for the (user, purpose) pair.
func (r *PostgresRepository) Find(ctx context.Context, userID string, purpose Purpose) (Credential, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return Credential{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT user_id, purpose, code, expires_at, created_at
        FROM otp_credentials WHERE user_id = $1 AND purpose = $2`, id, string(purpose))

	var (
		uid       uuid.UUID
		purp      string
		cred      Credential
		expiresAt time.Time
		createdAt time.Time
	)
	if err := row.Scan(&uid, &purp, &cred.Code, &expiresAt, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Credential{}, ErrNotFound
		}
		return Credential{}, err
	}
	cred.UserID = uid.String()
	cred.Purpose = Purpose(purp)
	cred.ExpiresAt = expiresAt.UTC()
	cred.CreatedAt = createdAt.UTC()
	return cred, nil
}

// Delete removes the credential for the (user, purpose) pair.
func (r *PostgresRepository) Delete(ctx context.Context, userID string, purpose Purpose) error {
	id, err := uuid.Parse(userID)
	if err != nil {
		return ErrNotFound
	}
	_, err = r.db.Exec(ctx, `DELETE FROM otp_credentials WHERE user_id = $1 AND purpose = $2`, id, string(purpose))
	return err
}

// DeleteByUser removes every credential issued to the user.
func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string) error {
	id, err := uuid.Parse(userID)
	if err != nil {
		return ErrNotFound
	}
	_, err = r.db.Exec(ctx, `DELETE FROM otp_credentials WHERE user_id = $1`, id)
	return err
}
