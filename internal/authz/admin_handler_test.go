package authz

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminAPIRouter(store AdminStore) http.Handler {
	r := chi.NewRouter()
	r.Use(sessionAs("admin-1"))
	r.Route("/admin/api", func(r chi.Router) {
		NewAdminHandler(testLogger(), NewAdminService(store, nil, testLogger())).MountRoutes(r)
	})
	return r
}

func TestPermissionsOverviewEndpoint(t *testing.T) {
	store := newMockAdminStore()
	store.roles = []Role{{ID: "lawyer", Name: "Lawyer"}}
	store.perms = []Permission{{ID: "view_cases", Name: "View cases", Category: "cases"}}
	store.grants["lawyer"] = map[string]bool{"view_cases": true}
	router := adminAPIRouter(store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/api/permissions", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var overview Overview
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &overview))
	assert.Len(t, overview.Roles, 1)
	assert.Len(t, overview.Permissions, 1)
	assert.True(t, overview.Grants["lawyer"]["view_cases"])
}

func TestSavePermissionsEndpoint(t *testing.T) {
	store := newMockAdminStore()
	router := adminAPIRouter(store)

	body := `{"grants":{"lawyer":{"view_cases":true,"edit_cases":false}}}`
	req := httptest.NewRequest(http.MethodPost, "/admin/api/permissions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, store.grants["lawyer"]["view_cases"])
	assert.False(t, store.grants["lawyer"]["edit_cases"])
}

func TestSavePermissionsRejectsMissingGrants(t *testing.T) {
	router := adminAPIRouter(newMockAdminStore())

	req := httptest.NewRequest(http.MethodPost, "/admin/api/permissions", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssignRoleEndpoint(t *testing.T) {
	store := newMockAdminStore()
	router := adminAPIRouter(store)

	req := httptest.NewRequest(http.MethodPost, "/admin/api/users/user-1/roles", strings.NewReader(`{"roleId":"lawyer"}`))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"lawyer"}, store.users["user-1"])
}

func TestAssignRoleRequiresRoleID(t *testing.T) {
	router := adminAPIRouter(newMockAdminStore())

	req := httptest.NewRequest(http.MethodPost, "/admin/api/users/user-1/roles", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRemoveRoleEndpoint(t *testing.T) {
	store := newMockAdminStore()
	store.users["user-1"] = []string{"lawyer"}
	router := adminAPIRouter(store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/admin/api/users/user-1/roles/lawyer", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, store.users["user-1"])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/admin/api/users/user-1/roles/lawyer", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
