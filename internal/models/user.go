// Package models содержит доменную модель пользователя админ-панели,
// включающую данные учётной записи, хэш пароля и набор ролей.
// Структура используется в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Email        string    // Электронная почта
	Username     string    // Имя пользователя (уникальное)
	PasswordHash string    // Хэш пароля пользователя
	Roles        []string  // Набор ролей пользователя, может быть пустым
	CreatedAt    time.Time // Дата создания учётной записи
}

// RegisterRequest используется для приёма данных регистрации из JSON-запроса.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,alphanum"` // Имя пользователя
	Email    string `json:"email" validate:"required,email"`       // Электронная почта
	Password string `json:"password" validate:"required,min=8"`    // Пароль в открытом виде
}

// LoginRequest используется для приёма данных входа из JSON-запроса.
type LoginRequest struct {
	Username string `json:"username" validate:"required"` // Имя пользователя
	Password string `json:"password" validate:"required"` // Пароль в открытом виде
}

// GrantRoleRequest используется для приёма назначаемой роли из JSON-запроса.
type GrantRoleRequest struct {
	Role string `json:"role" validate:"required"` // Назначаемая роль
}
