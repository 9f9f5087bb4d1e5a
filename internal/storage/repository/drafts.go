package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/lawfirm-backoffice/internal/models"
)

// CreateDraft сохраняет новый черновик генерации и возвращает его ID.
func (s *Storage) CreateDraft(ctx context.Context, draft models.Draft) (string, error) {
	const op = "storage.CreateDraft"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	params, err := json.Marshal(draft.Params)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	result, err := json.Marshal(draft.Result)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var newID string
	query := `INSERT INTO ai_drafts (user_uid, topic, params, result, regeneration_count, published)
			  VALUES ($1, $2, $3, $4, 0, false)
			  RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query,
		draft.UserUID, draft.Topic, params, result).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetDraft возвращает черновик по ID. Если черновика нет, возвращает nil без ошибки.
func (s *Storage) GetDraft(ctx context.Context, id string) (*models.Draft, error) {
	const op = "storage.GetDraft"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, topic, params, result, regeneration_count, published, created_at
			  FROM ai_drafts
			  WHERE id = $1`
	d := &models.Draft{}
	var params, result []byte
	row := s.DB.QueryRowContext(ctx, query, id)
	err := row.Scan(&d.ID, &d.UserUID, &d.Topic, &params, &result,
		&d.RegenerationCount, &d.Published, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = json.Unmarshal(params, &d.Params); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(result) > 0 && string(result) != "null" {
		d.Result = &models.GenerationResult{}
		if err = json.Unmarshal(result, d.Result); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return d, nil
}

// IncrementRegeneration атомарно увеличивает счётчик перегенераций на
// единицу, но только пока он меньше предела. Возвращает количество
// обновлённых строк: ноль означает, что предел достигнут.
func (s *Storage) IncrementRegeneration(ctx context.Context, id string, limit int) (int, error) {
	const op = "storage.IncrementRegeneration"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE ai_drafts
			  SET regeneration_count = regeneration_count + 1
			  WHERE id = $1 AND regeneration_count < $2`
	result, err := s.DB.ExecContext(ctx, query, id, limit)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// UpdateDraftResult сохраняет новый результат генерации для черновика.
func (s *Storage) UpdateDraftResult(ctx context.Context, id string,
	params models.GenerationParams, result models.GenerationResult) error {
	const op = "storage.UpdateDraftResult"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE ai_drafts SET params = $2, result = $3 WHERE id = $1`
	if _, err = s.DB.ExecContext(ctx, query, id, paramsJSON, resultJSON); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// MarkDraftPublished помечает черновик опубликованным.
func (s *Storage) MarkDraftPublished(ctx context.Context, id string) error {
	const op = "storage.MarkDraftPublished"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE ai_drafts SET published = true WHERE id = $1`
	if _, err := s.DB.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// LogGenerationAttempt записывает попытку генерации для дневного лимита.
func (s *Storage) LogGenerationAttempt(ctx context.Context, userUID, draftID string) error {
	const op = "storage.LogGenerationAttempt"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO generation_attempts (user_uid, draft_id) VALUES ($1, NULLIF($2, ''))`
	if _, err := s.DB.ExecContext(ctx, query, userUID, draftID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CountGenerationAttemptsToday подсчитывает попытки генерации пользователя
// за текущий календарный день.
func (s *Storage) CountGenerationAttemptsToday(ctx context.Context, userUID string) (int, error) {
	const op = "storage.CountGenerationAttemptsToday"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*)
			  FROM generation_attempts
			  WHERE user_uid = $1 AND created_at::DATE = CURRENT_DATE`
	var count int
	if err := s.DB.QueryRowContext(ctx, query, userUID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
