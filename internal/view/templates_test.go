package view

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/casewatch/casewatch/internal/authz"
)

func TestNewEngine(t *testing.T) {
	engine, err := NewEngine()
	assert.NoError(t, err, "Templates should parse without error")
	assert.NotNil(t, engine)
}

func TestRenderHomeWithPermissions(t *testing.T) {
	engine, err := NewEngine()
	assert.NoError(t, err)

	rr := httptest.NewRecorder()
	err = engine.Render(rr, "pages/home.html", TemplateData{
		Title: "Dashboard",
		Perms: authz.State{
			Resolution: authz.Resolution{
				Roles:       []string{"editor"},
				Permissions: []string{"view_cases", "edit_cases"},
			},
		},
	})
	assert.NoError(t, err)
	assert.Contains(t, rr.Body.String(), "Browse cases")
	assert.NotContains(t, rr.Body.String(), "Administration")
}

func TestRenderHomeAdminWithoutExplicitGrants(t *testing.T) {
	engine, err := NewEngine()
	assert.NoError(t, err)

	rr := httptest.NewRecorder()
	err = engine.Render(rr, "pages/home.html", TemplateData{
		Title: "Dashboard",
		Perms: authz.State{
			Resolution: authz.Resolution{
				Roles:       []string{"admin"},
				Permissions: []string{},
				IsAdmin:     true,
			},
		},
	})
	assert.NoError(t, err)
	assert.Contains(t, rr.Body.String(), "Browse cases", "admins pass permission checks without explicit grants")
	assert.Contains(t, rr.Body.String(), "Administration")
}

func TestRenderHomeWhileLoading(t *testing.T) {
	engine, err := NewEngine()
	assert.NoError(t, err)

	rr := httptest.NewRecorder()
	err = engine.Render(rr, "pages/home.html", TemplateData{
		Title: "Dashboard",
		Perms: authz.State{
			Loading:    true,
			Resolution: authz.EmptyResolution(),
		},
	})
	assert.NoError(t, err)
	assert.NotContains(t, rr.Body.String(), "Browse cases")
	assert.NotContains(t, rr.Body.String(), "Administration")
}
