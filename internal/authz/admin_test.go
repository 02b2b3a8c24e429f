package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAdminStore struct {
	roles  []Role
	perms  []Permission
	grants GrantMatrix
	users  map[string][]string

	listGrantsErr error
	replaceErr    error
}

func newMockAdminStore() *mockAdminStore {
	return &mockAdminStore{
		grants: make(GrantMatrix),
		users:  make(map[string][]string),
	}
}

func (m *mockAdminStore) ListRoles(ctx context.Context) ([]Role, error) {
	return m.roles, nil
}

func (m *mockAdminStore) ListPermissions(ctx context.Context) ([]Permission, error) {
	return m.perms, nil
}

func (m *mockAdminStore) ListGrants(ctx context.Context) (GrantMatrix, error) {
	if m.listGrantsErr != nil {
		return nil, m.listGrantsErr
	}
	out := make(GrantMatrix, len(m.grants))
	for role, perms := range m.grants {
		out[role] = make(map[string]bool, len(perms))
		for p, granted := range perms {
			out[role][p] = granted
		}
	}
	return out, nil
}

func (m *mockAdminStore) ReplaceGrants(ctx context.Context, grants GrantMatrix) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.grants = grants
	return nil
}

func (m *mockAdminStore) AssignRole(ctx context.Context, userID, roleID string) error {
	for _, existing := range m.users[userID] {
		if existing == roleID {
			return nil
		}
	}
	m.users[userID] = append(m.users[userID], roleID)
	return nil
}

func (m *mockAdminStore) RemoveRole(ctx context.Context, userID, roleID string) error {
	roles := m.users[userID]
	for i, existing := range roles {
		if existing == roleID {
			m.users[userID] = append(roles[:i], roles[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func TestOverviewFillsEmptyRoles(t *testing.T) {
	store := newMockAdminStore()
	store.roles = []Role{{ID: RoleAdmin, Name: "Administrator"}, {ID: "lawyer", Name: "Lawyer"}}
	store.perms = []Permission{{ID: "view_cases", Name: "View cases"}}
	store.grants["lawyer"] = map[string]bool{"view_cases": true}
	service := NewAdminService(store, nil, testLogger())

	overview, err := service.Overview(context.Background())

	require.NoError(t, err)
	assert.Len(t, overview.Roles, 2)
	require.Contains(t, overview.Grants, RoleAdmin, "roles without grant rows still appear in the matrix")
	assert.Empty(t, overview.Grants[RoleAdmin])
	assert.True(t, overview.Grants["lawyer"]["view_cases"])
}

func TestOverviewFault(t *testing.T) {
	store := newMockAdminStore()
	store.listGrantsErr = errors.New("timeout")
	service := NewAdminService(store, nil, testLogger())

	_, err := service.Overview(context.Background())

	require.Error(t, err)
	assert.ErrorContains(t, err, "list grants")
}

func TestSaveGrantsReplacesMatrix(t *testing.T) {
	store := newMockAdminStore()
	store.grants["lawyer"] = map[string]bool{"view_cases": true, "edit_cases": true}
	service := NewAdminService(store, nil, testLogger())

	next := GrantMatrix{"lawyer": {"view_cases": true}}
	require.NoError(t, service.SaveGrants(context.Background(), "admin-1", next))

	assert.Equal(t, next, store.grants, "replacement drops grants absent from the new matrix")
}

func TestAssignAndRemoveRole(t *testing.T) {
	store := newMockAdminStore()
	service := NewAdminService(store, nil, testLogger())
	ctx := context.Background()

	require.NoError(t, service.AssignRole(ctx, "admin-1", "user-1", "lawyer"))
	require.NoError(t, service.AssignRole(ctx, "admin-1", "user-1", "lawyer"), "re-assign is idempotent")
	assert.Equal(t, []string{"lawyer"}, store.users["user-1"])

	require.NoError(t, service.RemoveRole(ctx, "admin-1", "user-1", "lawyer"))
	assert.Empty(t, store.users["user-1"])

	err := service.RemoveRole(ctx, "admin-1", "user-1", "lawyer")
	assert.ErrorIs(t, err, ErrNotFound)
}
