// Package services содержит бизнес-логику учёта кредитов генерации:
// проверку активной подписки, остаток кредитов за период, списание
// кредита при публикации и перенос счётчика на новый период.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/lawfirm-backoffice/internal/models"
)

// ErrNoSubscription возвращается при отсутствии активной подписки.
// Пользователю предлагается выбрать тарифный план.
var ErrNoSubscription = errors.New("no active subscription")

// ErrNoCredits возвращается, когда кредиты периода исчерпаны.
var ErrNoCredits = errors.New("no credits remaining")

// LedgerRepository определяет методы хранилища для учёта кредитов.
type LedgerRepository interface {
	// GetPlan возвращает тарифный план по ID.
	GetPlan(ctx context.Context, planID int) (*models.Plan, error)
	// ListPlans возвращает все тарифные планы.
	ListPlans(ctx context.Context) ([]*models.Plan, error)
	// GetActiveSubscription возвращает активную подписку либо nil.
	GetActiveSubscription(ctx context.Context, userUID string) (*models.Subscription, error)
	// CreateSubscription оформляет подписку и заводит учётную запись расхода.
	CreateSubscription(ctx context.Context, userUID string, planID int, periodStart, periodEnd time.Time) (int, error)
	// GetUsage возвращает учётную запись расхода либо nil.
	GetUsage(ctx context.Context, userUID string) (*models.UsageRecord, error)
	// ConsumeCredit списывает кредит, пока расход меньше квоты.
	ConsumeCredit(ctx context.Context, userUID string, monthlyCredits int) (int, error)
	// ResetUsageIfExpired сбрасывает расход, если период закончился.
	ResetUsageIfExpired(ctx context.Context, userUID string, periodStart, periodEnd time.Time) (int, error)
}

// LedgerService реализует учёт кредитов генерации.
type LedgerService struct {
	repo LedgerRepository
	log  *slog.Logger
}

// NewLedgerService создает новый экземпляр LedgerService.
func NewLedgerService(repo LedgerRepository, log *slog.Logger) *LedgerService {
	return &LedgerService{repo: repo, log: log}
}

// HasActiveSubscription сообщает, есть ли у пользователя активная подписка
// с незакончившимся периодом.
func (s *LedgerService) HasActiveSubscription(ctx context.Context, userUID string) (bool, error) {
	sub, err := s.repo.GetActiveSubscription(ctx, userUID)
	if err != nil {
		return false, err
	}
	return sub != nil, nil
}

// CreditsRemaining возвращает остаток кредитов периода. Без подписки или
// учётной записи расхода остаток равен нулю. Значение не бывает отрицательным.
func (s *LedgerService) CreditsRemaining(ctx context.Context, userUID string) (int, error) {
	sub, err := s.repo.GetActiveSubscription(ctx, userUID)
	if err != nil {
		return 0, err
	}
	if sub == nil {
		return 0, nil
	}
	if err := s.rollover(ctx, userUID, sub); err != nil {
		return 0, err
	}
	usage, err := s.repo.GetUsage(ctx, userUID)
	if err != nil {
		return 0, err
	}
	if usage == nil {
		return 0, nil
	}
	plan, err := s.repo.GetPlan(ctx, sub.PlanID)
	if err != nil {
		return 0, err
	}
	return remaining(plan.MonthlyCredits, usage.UsedCredits), nil
}

// CanPublish сообщает, доступна ли публикация: активная подписка и остаток больше нуля.
func (s *LedgerService) CanPublish(ctx context.Context, userUID string) (bool, error) {
	active, err := s.HasActiveSubscription(ctx, userUID)
	if err != nil {
		return false, err
	}
	if !active {
		return false, nil
	}
	left, err := s.CreditsRemaining(ctx, userUID)
	if err != nil {
		return false, err
	}
	return left > 0, nil
}

// ConsumeCredit списывает один кредит в момент публикации. Кредиты
// учитывают публикации, а не попытки генерации. Списание выполняется
// условным обновлением на стороне базы, поэтому параллельные публикации
// не уводят счётчик за квоту.
func (s *LedgerService) ConsumeCredit(ctx context.Context, userUID string) error {
	sub, err := s.repo.GetActiveSubscription(ctx, userUID)
	if err != nil {
		return err
	}
	if sub == nil {
		return ErrNoSubscription
	}
	if err := s.rollover(ctx, userUID, sub); err != nil {
		return err
	}
	plan, err := s.repo.GetPlan(ctx, sub.PlanID)
	if err != nil {
		return err
	}
	updated, err := s.repo.ConsumeCredit(ctx, userUID, plan.MonthlyCredits)
	if err != nil {
		return err
	}
	if updated == 0 {
		return ErrNoCredits
	}
	s.log.Info("credit consumed", slog.String("user_uid", userUID))
	return nil
}

// rollover переносит учётную запись расхода на текущий период подписки,
// если сохранённый период уже закончился. Повторный вызов ничего не меняет.
func (s *LedgerService) rollover(ctx context.Context, userUID string, sub *models.Subscription) error {
	reset, err := s.repo.ResetUsageIfExpired(ctx, userUID, sub.CurrentPeriodStart, sub.CurrentPeriodEnd)
	if err != nil {
		return err
	}
	if reset > 0 {
		s.log.Info("usage rolled over to new period",
			slog.String("user_uid", userUID),
			slog.Time("period_end", sub.CurrentPeriodEnd))
	}
	return nil
}

// Subscribe оформляет подписку пользователя на план с периодом в один месяц.
func (s *LedgerService) Subscribe(ctx context.Context, userUID string, planID int) (*models.Subscription, error) {
	plan, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("unknown plan: %w", err)
	}
	periodStart := time.Now().UTC()
	periodEnd := periodStart.AddDate(0, 1, 0)
	id, err := s.repo.CreateSubscription(ctx, userUID, plan.ID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	s.log.Info("subscription created",
		slog.String("user_uid", userUID),
		slog.Int("plan_id", plan.ID),
		slog.Int("id", id))
	return &models.Subscription{
		ID:                 id,
		UserUID:            userUID,
		PlanID:             plan.ID,
		Status:             models.SubscriptionActive,
		CurrentPeriodStart: periodStart,
		CurrentPeriodEnd:   periodEnd,
	}, nil
}

// Status собирает модель чтения для экрана мастера: план, период, расход
// и признак доступности публикации с причиной отказа.
func (s *LedgerService) Status(ctx context.Context, userUID string) (*models.CreditStatus, error) {
	sub, err := s.repo.GetActiveSubscription(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return &models.CreditStatus{Reason: models.ReasonNoSubscription}, nil
	}
	if err := s.rollover(ctx, userUID, sub); err != nil {
		return nil, err
	}
	plan, err := s.repo.GetPlan(ctx, sub.PlanID)
	if err != nil {
		return nil, err
	}
	usage, err := s.repo.GetUsage(ctx, userUID)
	if err != nil {
		return nil, err
	}
	used := 0
	if usage != nil {
		used = usage.UsedCredits
	}
	left := remaining(plan.MonthlyCredits, used)
	status := &models.CreditStatus{
		PlanName:         plan.Name,
		MonthlyCredits:   plan.MonthlyCredits,
		UsedCredits:      used,
		CreditsRemaining: left,
		PeriodEnd:        &sub.CurrentPeriodEnd,
		CanPublish:       left > 0,
	}
	if left == 0 {
		status.Reason = models.ReasonNoCredits
	}
	return status, nil
}

// ListPlans возвращает тарифные планы для экрана выбора.
func (s *LedgerService) ListPlans(ctx context.Context) ([]*models.Plan, error) {
	return s.repo.ListPlans(ctx)
}

// remaining - остаток кредитов с нижней границей в ноль.
func remaining(quota, used int) int {
	if used >= quota {
		return 0
	}
	return quota - used
}
