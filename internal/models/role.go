// Package models содержит перечень ролей админ-панели.
// Роли аддитивны: пользователь может иметь несколько ролей одновременно,
// иерархия между ними не задаётся структурно.
package models

// Возможные роли пользователя.
const (
	RoleAdmin          = "admin"
	RoleModerator      = "moderator"
	RoleUser           = "user"
	RoleClienteAdmin   = "cliente_admin"
	RoleEditor         = "editor"
	RoleContentManager = "content_manager"
)

// KnownRoles содержит все допустимые роли системы.
var KnownRoles = []string{
	RoleAdmin,
	RoleModerator,
	RoleUser,
	RoleClienteAdmin,
	RoleEditor,
	RoleContentManager,
}

// IsKnownRole проверяет, входит ли роль в перечень допустимых.
func IsKnownRole(role string) bool {
	for _, r := range KnownRoles {
		if r == role {
			return true
		}
	}
	return false
}
