package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/lawfirm-backoffice/internal/models"
)

// CreateLead сохраняет принятое обращение с контактной формы и возвращает его ID.
func (s *Storage) CreateLead(ctx context.Context, lead models.Lead) (string, error) {
	const op = "storage.CreateLead"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO leads (name, email, phone, subject, message, source_ip)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query,
		lead.Name, lead.Email, lead.Phone, lead.Subject, lead.Message,
		lead.SourceIP).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListLeads возвращает обращения с пагинацией, новые первыми.
func (s *Storage) ListLeads(ctx context.Context, limit, offset int) ([]*models.Lead, error) {
	const op = "storage.ListLeads"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, email, phone, subject, message, source_ip, created_at
			  FROM leads
			  ORDER BY created_at DESC
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Lead
	for rows.Next() {
		var l models.Lead
		if err = rows.Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.Subject,
			&l.Message, &l.SourceIP, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
