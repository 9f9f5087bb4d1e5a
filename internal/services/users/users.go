// Package services содержит бизнес-логику управления пользователями
// админ-панели и назначением ролей.
package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/lawfirm-backoffice/internal/models"
)

// ErrUnknownRole возвращается при попытке назначить роль вне перечня допустимых.
var ErrUnknownRole = errors.New("unknown role")

// ErrRoleNotGranted возвращается при отзыве роли, которой у пользователя нет.
var ErrRoleNotGranted = errors.New("role not granted")

// UserAdminRepository определяет методы хранилища для управления пользователями.
type UserAdminRepository interface {
	// ListUsers возвращает пользователей с их ролями.
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
	// GrantRole назначает роль, повторное назначение не ошибка.
	GrantRole(ctx context.Context, userUID, role string) error
	// RevokeRole отзывает роль и возвращает количество удалённых записей.
	RevokeRole(ctx context.Context, userUID, role string) (int, error)
}

// UserAdminService реализует операции раздела пользователей админ-панели.
type UserAdminService struct {
	repo UserAdminRepository
	log  *slog.Logger
}

// NewUserAdminService создает новый экземпляр UserAdminService.
func NewUserAdminService(repo UserAdminRepository, log *slog.Logger) *UserAdminService {
	return &UserAdminService{
		repo: repo,
		log:  log,
	}
}

// List возвращает пользователей с ролями и пагинацией.
func (s *UserAdminService) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	return s.repo.ListUsers(ctx, limit, offset)
}

// GrantRole назначает пользователю роль. Роли аддитивны:
// назначение не снимает уже выданных ролей.
func (s *UserAdminService) GrantRole(ctx context.Context, userUID, role string) error {
	if !models.IsKnownRole(role) {
		return ErrUnknownRole
	}
	if err := s.repo.GrantRole(ctx, userUID, role); err != nil {
		return err
	}
	s.log.Info("role granted", slog.String("user_uid", userUID), slog.String("role", role))
	return nil
}

// RevokeRole отзывает у пользователя роль.
func (s *UserAdminService) RevokeRole(ctx context.Context, userUID, role string) error {
	if !models.IsKnownRole(role) {
		return ErrUnknownRole
	}
	count, err := s.repo.RevokeRole(ctx, userUID, role)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrRoleNotGranted
	}
	s.log.Info("role revoked", slog.String("user_uid", userUID), slog.String("role", role))
	return nil
}
