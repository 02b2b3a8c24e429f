package authz

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store reads the externally owned role/permission relations. The
// authorization core never writes through this interface.
type Store interface {
	// RolesForUser returns the role ids assigned to a user.
	RolesForUser(ctx context.Context, userID string) ([]string, error)
	// PermissionsForRoles returns permission ids granted to any of the
	// given roles. Rows with granted = false do not contribute.
	PermissionsForRoles(ctx context.Context, roleIDs []string) ([]string, error)
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PGStore implements Store using PostgreSQL.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewStore constructs a PostgreSQL store.
func NewStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// RolesForUser fetches role assignments for a user.
func (s *PGStore) RolesForUser(ctx context.Context, userID string) ([]string, error) {
	return rolesForUser(ctx, s.pool, userID)
}

// PermissionsForRoles fetches granted permissions for a set of roles.
func (s *PGStore) PermissionsForRoles(ctx context.Context, roleIDs []string) ([]string, error) {
	return permissionsForRoles(ctx, s.pool, roleIDs)
}

func rolesForUser(ctx context.Context, q querier, userID string) ([]string, error) {
	rows, err := q.Query(ctx,
		`SELECT role_id FROM user_roles WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	return collectIDs(rows)
}

func permissionsForRoles(ctx context.Context, q querier, roleIDs []string) ([]string, error) {
	rows, err := q.Query(ctx,
		`SELECT permission_id FROM role_permissions WHERE role_id = ANY($1) AND granted = TRUE`, roleIDs)
	if err != nil {
		return nil, err
	}
	return collectIDs(rows)
}

func collectIDs(rows pgx.Rows) ([]string, error) {
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

var _ Store = (*PGStore)(nil)
