package authz

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientStartsLoading(t *testing.T) {
	client := NewClient("http://127.0.0.1:0/auth/user-permissions", nil, testLogger())

	st := client.State()
	assert.True(t, st.Loading)
	assert.False(t, client.HasPermission("view_cases"), "helpers answer false while loading")
	assert.False(t, client.IsAdmin())
}

func TestClientLoadOnce(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_ = json.NewEncoder(w).Encode(Resolution{
			Roles:       []string{"lawyer"},
			Permissions: []string{"view_cases"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client(), testLogger())
	client.Load(context.Background())
	client.Load(context.Background())
	client.Load(context.Background())

	require.Equal(t, int32(1), hits.Load(), "one fetch per page session")

	st := client.State()
	assert.False(t, st.Loading)
	assert.True(t, client.HasPermission("view_cases"))
	assert.True(t, client.HasRole("lawyer"))
	assert.False(t, client.IsAdmin())
}

func TestClientRefetch(t *testing.T) {
	isAdmin := atomic.Bool{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(Resolution{
			Roles:   []string{RoleAdmin},
			IsAdmin: isAdmin.Load(),
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client(), testLogger())
	client.Load(context.Background())
	require.False(t, client.IsAdmin())

	// Role change lands server-side; a sign-in triggers a refetch.
	isAdmin.Store(true)
	client.Refetch(context.Background())
	assert.True(t, client.IsAdmin())
}

func TestClientFailsClosedOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client(), testLogger())
	client.Load(context.Background())

	st := client.State()
	assert.False(t, st.Loading, "a failed fetch resolves, it does not hang in loading")
	assert.Empty(t, st.Roles)
	assert.Empty(t, st.Permissions)
	assert.False(t, st.IsAdmin)
	assert.False(t, client.HasPermission("view_cases"))
}

func TestClientFailsClosedOnNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient(srv.URL, nil, testLogger())
	client.Load(context.Background())

	st := client.State()
	assert.False(t, st.Loading)
	assert.False(t, st.IsAdmin)
	assert.Empty(t, st.Permissions)
}

func TestClientFailsClosedOnMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"roles": "not-an-array"`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client(), testLogger())
	client.Load(context.Background())

	st := client.State()
	assert.False(t, st.Loading)
	assert.Empty(t, st.Roles)
	assert.False(t, st.IsAdmin)
}

func TestClientNormalisesNullArrays(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"roles":null,"permissions":null,"isAdmin":false}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client(), testLogger())
	client.Load(context.Background())

	st := client.State()
	assert.NotNil(t, st.Roles)
	assert.NotNil(t, st.Permissions)
}
