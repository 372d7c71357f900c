// internal/repository/postgres/profile_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"labportal-service/internal/domain/auth"
	xerrors "labportal-service/internal/pkg/errors"
)

type ClientProfileRepository struct {
	pool *pgxpool.Pool
}

func NewClientProfileRepository(pool *pgxpool.Pool) *ClientProfileRepository {
	return &ClientProfileRepository{pool: pool}
}

// GetBySubject loads a profile by the provider's subject id.
func (r *ClientProfileRepository) GetBySubject(ctx context.Context, subject string) (*auth.ClientProfile, error) {
	query := `
		SELECT id, subject, email, full_name, phone, created_at, updated_at
		FROM client_profiles
		WHERE subject = $1`

	var p auth.ClientProfile
	err := r.pool.QueryRow(ctx, query, subject).Scan(
		&p.ID, &p.Subject, &p.Email, &p.FullName, &p.Phone, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile by subject: %w", err)
	}
	return &p, nil
}

// GetByEmail loads a profile by email (used by the password path, where
// the provider identity is keyed to the login email).
func (r *ClientProfileRepository) GetByEmail(ctx context.Context, email string) (*auth.ClientProfile, error) {
	query := `
		SELECT id, subject, email, full_name, phone, created_at, updated_at
		FROM client_profiles
		WHERE lower(email) = lower($1)`

	var p auth.ClientProfile
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&p.ID, &p.Subject, &p.Email, &p.FullName, &p.Phone, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile by email: %w", err)
	}
	return &p, nil
}

// Create inserts a profile. The unique constraint on subject is the
// backstop against concurrent first-time authorizations creating two rows:
// ON CONFLICT DO NOTHING makes the second insert a no-op.
func (r *ClientProfileRepository) Create(ctx context.Context, p *auth.ClientProfile) error {
	query := `
		INSERT INTO client_profiles (subject, email, full_name, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (subject) DO NOTHING
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, p.Subject, p.Email, p.FullName, p.Phone).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// Conflict: another request created the row first. Load it.
		existing, getErr := r.GetBySubject(ctx, p.Subject)
		if getErr != nil {
			return fmt.Errorf("load profile after conflict: %w", getErr)
		}
		*p = *existing
		return nil
	}
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}
