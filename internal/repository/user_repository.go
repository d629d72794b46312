package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/triage"
)

// UserRepository is the directory the assignment resolver queries. It
// satisfies triage.UserDirectory.
type UserRepository interface {
	FindOne(ctx context.Context, filter triage.UserFilter) (*domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

// FindOne returns the oldest user matching the filter, or (nil, nil) when
// nobody matches. Ordering by creation time keeps the resolver's first-match
// policy deterministic for a fixed roster.
func (r *userRepository) FindOne(ctx context.Context, filter triage.UserFilter) (*domain.User, error) {
	query := `
        SELECT id, email, role, skills, created_at
        FROM users WHERE role=$1`
	args := []any{filter.Role}

	if len(filter.SkillsAny) > 0 {
		args = append(args, filter.SkillsAny)
		query += " AND skills && $2"
	}
	query += " ORDER BY created_at ASC LIMIT 1"

	var user domain.User
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&user.ID,
		&user.Email,
		&user.Role,
		&user.Skills,
		&user.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
