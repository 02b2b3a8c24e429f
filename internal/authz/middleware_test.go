package authz

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casewatch/casewatch/internal/shared"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func requestAs(t *testing.T, target, userID string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if userID == "" {
		return req
	}
	sess := &shared.Session{}
	sess.SetUser(userID)
	return req.WithContext(shared.ContextWithSession(req.Context(), sess))
}

func protectedChain(store Store) (http.Handler, *bool) {
	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})
	mw := Middleware{Service: NewService(store), Logger: testLogger()}
	return mw.Protect(next), &reached
}

func TestProtectIgnoresPublicPaths(t *testing.T) {
	store := newStubStore()
	handler, reached := protectedChain(store)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs(t, "/cases", ""))

	assert.True(t, *reached)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, store.rolesCalls, "public paths skip resolution entirely")
}

func TestProtectRedirectsAnonymous(t *testing.T) {
	handler, reached := protectedChain(newStubStore())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs(t, "/admin/users", ""))

	assert.False(t, *reached)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, LoginPath, rec.Header().Get("Location"))
}

func TestProtectRedirectsNonAdmin(t *testing.T) {
	store := newStubStore()
	store.roles["user-1"] = []string{"lawyer"}
	handler, reached := protectedChain(store)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs(t, "/admin", "user-1"))

	assert.False(t, *reached)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, UnauthorizedRedirect, rec.Header().Get("Location"))
}

func TestProtectAllowsAdmin(t *testing.T) {
	store := newStubStore()
	store.roles["admin-1"] = []string{RoleSuperAdmin}
	handler, reached := protectedChain(store)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs(t, "/admin/roles", "admin-1"))

	assert.True(t, *reached)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProtectFaultIsServerError(t *testing.T) {
	store := newStubStore()
	store.rolesErr = errors.New("connection reset")
	handler, reached := protectedChain(store)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs(t, "/admin", "user-1"))

	assert.False(t, *reached, "a resolution fault must not fall through to the page")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestProtectReResolvesPerNavigation(t *testing.T) {
	store := newStubStore()
	store.roles["admin-1"] = []string{RoleAdmin}
	handler, _ := protectedChain(store)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs(t, "/admin", "admin-1"))
	require.Equal(t, http.StatusOK, rec.Code)

	// Revoke between navigations. The next request must be denied.
	store.roles["admin-1"] = []string{"lawyer"}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs(t, "/admin", "admin-1"))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, UnauthorizedRedirect, rec.Header().Get("Location"))
}

func TestIsAdminPath(t *testing.T) {
	assert.True(t, isAdminPath("/admin"))
	assert.True(t, isAdminPath("/admin/users"))
	assert.False(t, isAdminPath("/administrator"), "prefix match is segment-aware")
	assert.False(t, isAdminPath("/"))
	assert.False(t, isAdminPath("/cases"))
}
