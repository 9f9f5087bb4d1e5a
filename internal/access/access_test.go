package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name         string
		identity     string
		roles        []string
		path         string
		wantDecision Decision
		wantRedirect string
	}{
		{
			name:         "unauthenticated redirects to login",
			identity:     "",
			roles:        nil,
			path:         "/admin",
			wantDecision: DenyUnauthenticated,
			wantRedirect: LoginPath,
		},
		{
			name:         "authenticated without backoffice roles",
			identity:     "uid-1",
			roles:        []string{"user"},
			path:         "/admin/conteudos",
			wantDecision: DenyNoAccess,
			wantRedirect: "",
		},
		{
			name:         "empty role set",
			identity:     "uid-1",
			roles:        nil,
			path:         "/admin",
			wantDecision: DenyNoAccess,
		},
		{
			name:         "editor denied on usuarios with redirect to admin root",
			identity:     "uid-1",
			roles:        []string{"editor"},
			path:         "/admin/usuarios",
			wantDecision: DenyPath,
			wantRedirect: AdminRootPath,
		},
		{
			name:         "content manager allowed on conteudos",
			identity:     "uid-1",
			roles:        []string{"content_manager"},
			path:         "/admin/conteudos",
			wantDecision: Allow,
		},
		{
			name:         "admin allowed on usuarios",
			identity:     "uid-1",
			roles:        []string{"admin"},
			path:         "/admin/usuarios",
			wantDecision: Allow,
		},
		{
			name:         "strict sub-path matches the rule",
			identity:     "uid-1",
			roles:        []string{"editor"},
			path:         "/admin/usuarios/42",
			wantDecision: DenyPath,
			wantRedirect: AdminRootPath,
		},
		{
			name:         "prefix without separator does not match",
			identity:     "uid-1",
			roles:        []string{"editor"},
			path:         "/admin/usuariosx",
			wantDecision: Allow,
		},
		{
			name:         "moderator alone has no backoffice access",
			identity:     "uid-1",
			roles:        []string{"moderator"},
			path:         "/admin/leads",
			wantDecision: DenyNoAccess,
		},
		{
			name:         "moderator with editor reads leads",
			identity:     "uid-1",
			roles:        []string{"moderator", "editor"},
			path:         "/admin/leads",
			wantDecision: Allow,
		},
		{
			name:         "unlisted admin path stays open via catch-all",
			identity:     "uid-1",
			roles:        []string{"editor"},
			path:         "/admin/relatorios",
			wantDecision: Allow,
		},
		{
			name:         "additive roles take the widest entry",
			identity:     "uid-1",
			roles:        []string{"editor", "cliente_admin"},
			path:         "/admin/usuarios",
			wantDecision: Allow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.identity, tt.roles, tt.path)
			assert.Equal(t, tt.wantDecision, got.Decision)
			assert.Equal(t, tt.wantRedirect, got.RedirectTo)
		})
	}
}

// Решение детерминировано: повторный вызов с теми же входами даёт тот же итог.
func TestResolve_Deterministic(t *testing.T) {
	roles := []string{"editor"}
	first := Resolve("uid-1", roles, "/admin/usuarios")
	second := Resolve("uid-1", roles, "/admin/usuarios")
	assert.Equal(t, first, second)
}

// Без пересечения с ролями бэк-офиса доступ всегда запрещён, каким бы ни был путь.
func TestResolve_NoBackofficeRolesAlwaysDenied(t *testing.T) {
	paths := []string{"/admin", "/admin/conteudos", "/admin/blog/novo", "/admin/qualquer"}
	for _, p := range paths {
		got := Resolve("uid-1", []string{"user", "moderator"}, p)
		assert.Equal(t, DenyNoAccess, got.Decision, "path %s", p)
	}
}
