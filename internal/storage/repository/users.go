package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/lawfirm-backoffice/internal/models"
)

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его UID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (email, username, password_hash)
			  VALUES ($1, $2, $3)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.Username, user.PasswordHash).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByUsername возвращает пользователя по его username вместе с ролями.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, created_at
			  FROM users
			  WHERE username = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, username)
	if err := row.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	roles, err := s.ListRoles(ctx, u.UID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	u.Roles = roles
	return u, nil
}

// ListRoles возвращает роли пользователя по его UID.
func (s *Storage) ListRoles(ctx context.Context, userUID string) ([]string, error) {
	const op = "storage.ListRoles"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT role FROM user_roles WHERE user_uid = $1 ORDER BY role`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var roles []string
	for rows.Next() {
		var role string
		if err = rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		roles = append(roles, role)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return roles, nil
}

// GrantRole назначает пользователю роль. Повторное назначение той же роли
// не создаёт дубликата.
func (s *Storage) GrantRole(ctx context.Context, userUID, role string) error {
	const op = "storage.GrantRole"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO user_roles (user_uid, role)
			  VALUES ($1, $2)
			  ON CONFLICT (user_uid, role) DO NOTHING`
	if _, err := s.DB.ExecContext(ctx, query, userUID, role); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RevokeRole снимает роль с пользователя и возвращает количество удалённых строк.
func (s *Storage) RevokeRole(ctx context.Context, userUID, role string) (int, error) {
	const op = "storage.RevokeRole"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM user_roles WHERE user_uid = $1 AND role = $2`
	result, err := s.DB.ExecContext(ctx, query, userUID, role)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListUsers возвращает пользователей с их ролями с пагинацией.
func (s *Storage) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT u.uid, u.email, u.username, u.created_at,
			      COALESCE(array_agg(r.role ORDER BY r.role) FILTER (WHERE r.role IS NOT NULL), '{}')
			  FROM users u
			  LEFT JOIN user_roles r ON r.user_uid = u.uid
			  GROUP BY u.uid, u.email, u.username, u.created_at
			  ORDER BY u.created_at
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		var u models.User
		var roles []byte
		if err = rows.Scan(&u.UID, &u.Email, &u.Username, &u.CreatedAt, &roles); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		u.Roles = parseTextArray(roles)
		result = append(result, &u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// parseTextArray разбирает массив postgres вида {admin,editor} в срез строк.
func parseTextArray(raw []byte) []string {
	s := string(raw)
	if len(s) < 2 || s == "{}" {
		return nil
	}
	s = s[1 : len(s)-1]
	var roles []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				roles = append(roles, s[start:i])
			}
			start = i + 1
		}
	}
	return roles
}
