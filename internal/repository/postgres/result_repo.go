// internal/repository/postgres/result_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"labportal-service/internal/domain/results"
	xerrors "labportal-service/internal/pkg/errors"
)

type ResultRepository struct {
	pool *pgxpool.Pool
}

func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// ListBySubject returns a client's released results, newest first.
func (r *ResultRepository) ListBySubject(ctx context.Context, subject string) ([]*results.ResultRecord, error) {
	query := `
		SELECT id, subject, title, panels, object_key, released_at, created_at
		FROM lab_results
		WHERE subject = $1
		ORDER BY released_at DESC`

	rows, err := r.pool.Query(ctx, query, subject)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var records []*results.ResultRecord
	for rows.Next() {
		var rec results.ResultRecord
		if err := rows.Scan(&rec.ID, &rec.Subject, &rec.Title, &rec.Panels, &rec.ObjectKey, &rec.ReleasedAt, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// Get loads one result record by id.
func (r *ResultRepository) Get(ctx context.Context, id string) (*results.ResultRecord, error) {
	query := `
		SELECT id, subject, title, panels, object_key, released_at, created_at
		FROM lab_results
		WHERE id = $1`

	var rec results.ResultRecord
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.Subject, &rec.Title, &rec.Panels, &rec.ObjectKey, &rec.ReleasedAt, &rec.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get result: %w", err)
	}
	return &rec, nil
}

// Create inserts a released result record.
func (r *ResultRepository) Create(ctx context.Context, rec *results.ResultRecord) error {
	query := `
		INSERT INTO lab_results (id, subject, title, panels, object_key, released_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING created_at`

	err := r.pool.QueryRow(ctx, query, rec.ID, rec.Subject, rec.Title, rec.Panels, rec.ObjectKey, rec.ReleasedAt).
		Scan(&rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("create result: %w", err)
	}
	return nil
}
