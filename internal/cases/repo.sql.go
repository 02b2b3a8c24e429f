package cases

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/casewatch/casewatch/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListCases returns one page of cases, newest filing first.
func (r *Repository) ListCases(ctx context.Context, limit, offset int) ([]Case, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM cases`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, slug, title, summary, status, filed_at, COALESCE(created_by::text, ''), created_at, updated_at
		FROM cases ORDER BY filed_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var list []Case
	for rows.Next() {
		var c Case
		if err := rows.Scan(&c.ID, &c.Slug, &c.Title, &c.Summary, &c.Status, &c.FiledAt, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// GetBySlug fetches one case by its slug.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (Case, error) {
	var c Case
	err := r.pool.QueryRow(ctx, `
		SELECT id, slug, title, summary, status, filed_at, COALESCE(created_by::text, ''), created_at, updated_at
		FROM cases WHERE slug = $1`, slug).
		Scan(&c.ID, &c.Slug, &c.Title, &c.Summary, &c.Status, &c.FiledAt, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Case{}, shared.ErrNotFound
		}
		return Case{}, err
	}
	return c, nil
}
