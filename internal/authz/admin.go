package authz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/casewatch/casewatch/internal/platform/db"
	"github.com/casewatch/casewatch/internal/shared"
)

// ErrNotFound indicates that the requested record does not exist.
var ErrNotFound = errors.New("authz: not found")

// Role is a named grouping assignable to users.
type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Permission is a named capability grantable to roles.
type Permission struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// GrantMatrix maps role id to permission id to the granted flag.
type GrantMatrix map[string]map[string]bool

// AdminStore provides the management operations behind the admin API.
type AdminStore interface {
	ListRoles(ctx context.Context) ([]Role, error)
	ListPermissions(ctx context.Context) ([]Permission, error)
	ListGrants(ctx context.Context) (GrantMatrix, error)
	ReplaceGrants(ctx context.Context, grants GrantMatrix) error
	AssignRole(ctx context.Context, userID, roleID string) error
	RemoveRole(ctx context.Context, userID, roleID string) error
}

// ListRoles returns all roles ordered by id.
func (s *PGStore) ListRoles(ctx context.Context) ([]Role, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, description FROM roles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roles []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// ListPermissions returns all permissions ordered by category then id.
func (s *PGStore) ListPermissions(ctx context.Context) ([]Permission, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, description, category FROM permissions ORDER BY category, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var perms []Permission
	for rows.Next() {
		var perm Permission
		if err := rows.Scan(&perm.ID, &perm.Name, &perm.Description, &perm.Category); err != nil {
			return nil, err
		}
		perms = append(perms, perm)
	}
	return perms, rows.Err()
}

// ListGrants returns every role_permissions row, including granted =
// false rows, so the admin matrix shows explicit denials distinctly
// from absent rows.
func (s *PGStore) ListGrants(ctx context.Context) (GrantMatrix, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT role_id, permission_id, granted FROM role_permissions`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	grants := make(GrantMatrix)
	for rows.Next() {
		var roleID, permID string
		var granted bool
		if err := rows.Scan(&roleID, &permID, &granted); err != nil {
			return nil, err
		}
		if grants[roleID] == nil {
			grants[roleID] = make(map[string]bool)
		}
		grants[roleID][permID] = granted
	}
	return grants, rows.Err()
}

// ReplaceGrants swaps the entire grant matrix in one transaction.
func (s *PGStore) ReplaceGrants(ctx context.Context, grants GrantMatrix) error {
	return db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM role_permissions`); err != nil {
			return err
		}
		for roleID, perms := range grants {
			for permID, granted := range perms {
				if _, err := tx.Exec(ctx,
					`INSERT INTO role_permissions (role_id, permission_id, granted) VALUES ($1, $2, $3)`,
					roleID, permID, granted); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// AssignRole assigns a role to a user, idempotently.
func (s *PGStore) AssignRole(ctx context.Context, userID, roleID string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		userID, roleID)
	return err
}

// RemoveRole removes a role from a user.
func (s *PGStore) RemoveRole(ctx context.Context, userID, roleID string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM user_roles WHERE user_id = $1 AND role_id = $2`, userID, roleID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

var _ AdminStore = (*PGStore)(nil)

// AdminService orchestrates role/permission management with audit
// logging.
type AdminService struct {
	store  AdminStore
	audit  *shared.AuditLogger
	logger *slog.Logger
}

// NewAdminService constructs an AdminService.
func NewAdminService(store AdminStore, audit *shared.AuditLogger, logger *slog.Logger) *AdminService {
	return &AdminService{store: store, audit: audit, logger: logger}
}

// Overview bundles roles, permissions and the grant matrix for the
// admin permissions screen.
type Overview struct {
	Roles       []Role       `json:"roles"`
	Permissions []Permission `json:"permissions"`
	Grants      GrantMatrix  `json:"grants"`
}

// Overview loads the complete RBAC state.
func (s *AdminService) Overview(ctx context.Context) (Overview, error) {
	roles, err := s.store.ListRoles(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("authz: list roles: %w", err)
	}
	perms, err := s.store.ListPermissions(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("authz: list permissions: %w", err)
	}
	grants, err := s.store.ListGrants(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("authz: list grants: %w", err)
	}
	// Roles without any row still get an entry so the matrix is complete.
	for _, role := range roles {
		if grants[role.ID] == nil {
			grants[role.ID] = make(map[string]bool)
		}
	}
	return Overview{Roles: roles, Permissions: perms, Grants: grants}, nil
}

// SaveGrants replaces the grant matrix and records who changed it.
func (s *AdminService) SaveGrants(ctx context.Context, actorID string, grants GrantMatrix) error {
	if err := s.store.ReplaceGrants(ctx, grants); err != nil {
		return fmt.Errorf("authz: replace grants: %w", err)
	}
	s.recordAudit(ctx, actorID, "rbac.grants.replace", "role_permissions", "")
	return nil
}

// AssignRole attaches a role to a user.
func (s *AdminService) AssignRole(ctx context.Context, actorID, userID, roleID string) error {
	if err := s.store.AssignRole(ctx, userID, roleID); err != nil {
		return fmt.Errorf("authz: assign role: %w", err)
	}
	s.recordAudit(ctx, actorID, "rbac.role.assign", "user_roles", userID+":"+roleID)
	return nil
}

// RemoveRole detaches a role from a user.
func (s *AdminService) RemoveRole(ctx context.Context, actorID, userID, roleID string) error {
	if err := s.store.RemoveRole(ctx, userID, roleID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("authz: remove role: %w", err)
	}
	s.recordAudit(ctx, actorID, "rbac.role.remove", "user_roles", userID+":"+roleID)
	return nil
}

func (s *AdminService) recordAudit(ctx context.Context, actorID, action, entity, entityID string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
	}); err != nil && s.logger != nil {
		s.logger.Warn("record rbac audit", slog.Any("error", err))
	}
}
