package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/lawfirm-backoffice/internal/models"
)

// GetUsage возвращает учётную запись расхода кредитов пользователя.
// Если записи нет, возвращает nil без ошибки.
func (s *Storage) GetUsage(ctx context.Context, userUID string) (*models.UsageRecord, error) {
	const op = "storage.GetUsage"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT user_uid, used_credits, period_start, period_end, last_reset_at
			  FROM usage_records
			  WHERE user_uid = $1`
	u := &models.UsageRecord{}
	row := s.DB.QueryRowContext(ctx, query, userUID)
	err := row.Scan(&u.UserUID, &u.UsedCredits, &u.PeriodStart, &u.PeriodEnd, &u.LastResetAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ConsumeCredit атомарно списывает один кредит при условии, что расход
// ещё не достиг квоты. Возвращает количество обновлённых строк: ноль
// означает, что кредитов не осталось либо учётной записи нет.
func (s *Storage) ConsumeCredit(ctx context.Context, userUID string, monthlyCredits int) (int, error) {
	const op = "storage.ConsumeCredit"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE usage_records
			  SET used_credits = used_credits + 1
			  WHERE user_uid = $1 AND used_credits < $2`
	result, err := s.DB.ExecContext(ctx, query, userUID, monthlyCredits)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ResetUsageIfExpired сбрасывает счётчик расхода на новый период подписки,
// если сохранённый период уже закончился. Условие period_end < now()
// делает операцию идемпотентной: повторный вызов не находит строк.
// Возвращает количество обновлённых строк.
func (s *Storage) ResetUsageIfExpired(ctx context.Context, userUID string,
	periodStart, periodEnd time.Time) (int, error) {
	const op = "storage.ResetUsageIfExpired"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE usage_records
			  SET used_credits = 0,
			      period_start = $2,
			      period_end = $3,
			      last_reset_at = now()
			  WHERE user_uid = $1 AND period_end < now()`
	result, err := s.DB.ExecContext(ctx, query, userUID, periodStart, periodEnd)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
