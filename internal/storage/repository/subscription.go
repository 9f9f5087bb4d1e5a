package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/lawfirm-backoffice/internal/models"
)

// GetPlan возвращает тарифный план по ID.
func (s *Storage) GetPlan(ctx context.Context, planID int) (*models.Plan, error) {
	const op = "storage.GetPlan"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, price_cents, monthly_credits FROM plans WHERE id = $1`
	p := &models.Plan{}
	row := s.DB.QueryRowContext(ctx, query, planID)
	if err := row.Scan(&p.ID, &p.Name, &p.PriceCents, &p.MonthlyCredits); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// ListPlans возвращает все тарифные планы.
func (s *Storage) ListPlans(ctx context.Context) ([]*models.Plan, error) {
	const op = "storage.ListPlans"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, price_cents, monthly_credits FROM plans ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Plan
	for rows.Next() {
		var p models.Plan
		if err = rows.Scan(&p.ID, &p.Name, &p.PriceCents, &p.MonthlyCredits); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetActiveSubscription возвращает активную подписку пользователя:
// status = active и текущий период ещё не закончился. Если такой
// подписки нет, возвращает nil без ошибки.
func (s *Storage) GetActiveSubscription(ctx context.Context, userUID string) (*models.Subscription, error) {
	const op = "storage.GetActiveSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, plan_id, status, current_period_start, current_period_end
			  FROM subscriptions
			  WHERE user_uid = $1
			    AND status = 'active'
			    AND current_period_end >= now()
			  ORDER BY current_period_end DESC
			  LIMIT 1`
	sub := &models.Subscription{}
	row := s.DB.QueryRowContext(ctx, query, userUID)
	err := row.Scan(&sub.ID, &sub.UserUID, &sub.PlanID, &sub.Status,
		&sub.CurrentPeriodStart, &sub.CurrentPeriodEnd)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// CreateSubscription оформляет подписку пользователя: деактивирует прежние
// записи, вставляет новую активную подписку и заводит или переносит
// учётную запись расхода на новый период. Выполняется одной транзакцией.
func (s *Storage) CreateSubscription(ctx context.Context, userUID string, planID int,
	periodStart, periodEnd time.Time) (int, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err = tx.ExecContext(ctx,
		`UPDATE subscriptions SET status = 'inactive' WHERE user_uid = $1 AND status = 'active'`,
		userUID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var newID int
	if err = tx.QueryRowContext(ctx,
		`INSERT INTO subscriptions (user_uid, plan_id, status, current_period_start, current_period_end)
		 VALUES ($1, $2, 'active', $3, $4)
		 RETURNING id`,
		userUID, planID, periodStart, periodEnd).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO usage_records (user_uid, used_credits, period_start, period_end, last_reset_at)
		 VALUES ($1, 0, $2, $3, now())
		 ON CONFLICT (user_uid) DO UPDATE
		 SET used_credits = 0, period_start = $2, period_end = $3, last_reset_at = now()`,
		userUID, periodStart, periodEnd); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}
