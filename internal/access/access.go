// Package access реализует предикат доступа к защищённым путям админ-панели.
//
// Решение принимается по личности пользователя, набору его ролей и
// запрошенному пути. Пути сопоставляются со статической упорядоченной
// таблицей префиксов: выигрывает первое совпадение, порядок записей важен
// для пересекающихся префиксов. Решение вычисляется заново на каждом
// запросе и нигде не кешируется.
package access

import "strings"

// Decision - итог проверки доступа.
type Decision int

const (
	// Allow - доступ разрешён.
	Allow Decision = iota
	// DenyUnauthenticated - личность отсутствует, требуется вход.
	DenyUnauthenticated
	// DenyNoAccess - нет ни одной роли бэк-офиса, сообщение на месте без редиректа.
	DenyNoAccess
	// DenyPath - роли не подходят для конкретного пути, редирект на корень админки.
	DenyPath
)

// Result содержит решение и целевой путь редиректа, если он предусмотрен.
type Result struct {
	Decision   Decision
	RedirectTo string
}

// Rule связывает префикс пути со списком ролей, которым он разрешён.
type Rule struct {
	Prefix string
	Roles  []string
}

// Пути редиректов при отказе.
const (
	LoginPath     = "/login"
	AdminRootPath = "/admin"
)

// backofficeRoles - роли, дающие вход в админ-панель как таковую.
var backofficeRoles = []string{"admin", "cliente_admin", "editor", "content_manager"}

// Table - статическая таблица доступа. Последняя запись /admin делает
// поведение по умолчанию для неперечисленных путей явным: любой роли
// бэк-офиса достаточно. Чтобы перейти к запрету по умолчанию, достаточно
// убрать эту запись.
var Table = []Rule{
	{Prefix: "/admin/usuarios", Roles: []string{"admin", "cliente_admin"}},
	{Prefix: "/admin/configuracoes", Roles: []string{"admin", "cliente_admin"}},
	{Prefix: "/admin/leads", Roles: []string{"admin", "cliente_admin", "moderator"}},
	{Prefix: "/admin/conteudos", Roles: []string{"admin", "cliente_admin", "editor", "content_manager"}},
	{Prefix: "/admin/blog", Roles: []string{"admin", "cliente_admin", "editor", "content_manager"}},
	{Prefix: "/admin/assinatura", Roles: []string{"admin", "cliente_admin", "editor", "content_manager"}},
	{Prefix: "/admin", Roles: backofficeRoles},
}

// Resolve принимает личность пользователя, его роли и запрошенный путь
// и возвращает решение о доступе вместе с целью редиректа.
func Resolve(identity string, roles []string, path string) Result {
	if identity == "" {
		return Result{Decision: DenyUnauthenticated, RedirectTo: LoginPath}
	}
	if !intersects(roles, backofficeRoles) {
		return Result{Decision: DenyNoAccess}
	}
	for _, rule := range Table {
		if !matches(path, rule.Prefix) {
			continue
		}
		if !intersects(roles, rule.Roles) {
			return Result{Decision: DenyPath, RedirectTo: AdminRootPath}
		}
		return Result{Decision: Allow}
	}
	return Result{Decision: Allow}
}

// matches - точное совпадение либо строгий под-путь префикса.
func matches(path, prefix string) bool {
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}

func intersects(roles, allowed []string) bool {
	for _, r := range roles {
		for _, a := range allowed {
			if r == a {
				return true
			}
		}
	}
	return false
}
