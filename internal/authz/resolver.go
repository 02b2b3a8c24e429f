package authz

import (
	"context"
	"fmt"
)

// Service resolves principals into their effective authorization. It
// holds no cache: every call re-reads the store so role changes,
// including demotions, take effect on the next resolution.
type Service struct {
	store Store
}

// NewService constructs a Service backed by the provided store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Resolve computes the full role/permission/isAdmin triple for a
// principal. An empty userID is the anonymous principal and yields the
// empty resolution without error; a store failure is propagated, never
// conflated with "has no roles".
func (s *Service) Resolve(ctx context.Context, userID string) (Resolution, error) {
	if userID == "" {
		return EmptyResolution(), nil
	}

	roles, err := s.store.RolesForUser(ctx, userID)
	if err != nil {
		return Resolution{}, fmt.Errorf("authz: resolve roles: %w", err)
	}
	roles = dedupe(roles)
	if len(roles) == 0 {
		return EmptyResolution(), nil
	}

	perms, err := s.store.PermissionsForRoles(ctx, roles)
	if err != nil {
		return Resolution{}, fmt.Errorf("authz: resolve permissions: %w", err)
	}

	return Resolution{
		Roles:       roles,
		Permissions: dedupe(perms),
		IsAdmin:     ContainsAdminRole(roles),
	}, nil
}

// ResolveRoles returns only the role set for a principal. The coarse
// admin gates use this to skip the permission union they don't need.
func (s *Service) ResolveRoles(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, nil
	}
	roles, err := s.store.RolesForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("authz: resolve roles: %w", err)
	}
	return dedupe(roles), nil
}

// IsAdminUser reports whether the principal holds any admin role. Both
// enforcement checkpoints call this one function so they cannot
// diverge.
func (s *Service) IsAdminUser(ctx context.Context, userID string) (bool, error) {
	roles, err := s.ResolveRoles(ctx, userID)
	if err != nil {
		return false, err
	}
	return ContainsAdminRole(roles), nil
}
