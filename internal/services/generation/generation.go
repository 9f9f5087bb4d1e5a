// Package services содержит бизнес-логику мастера генерации статей:
// создание черновика, перегенерацию с ограничением попыток и публикацию
// черновика в блог со списанием кредита.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/lawfirm-backoffice/internal/aiprovider"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/lib/sl"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/metrics"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/models"
	creditsservice "github.com/magabrotheeeer/lawfirm-backoffice/internal/services/credits"
)

// ErrRegenLimit возвращается, когда черновик уже перегенерирован
// максимально допустимое число раз.
var ErrRegenLimit = errors.New("regeneration limit reached")

// ErrDailyLimit возвращается при превышении дневной квоты попыток генерации.
var ErrDailyLimit = errors.New("daily generation limit reached")

// ErrDraftNotFound возвращается, когда черновик не существует.
var ErrDraftNotFound = errors.New("draft not found")

// ErrDraftPublished возвращается при попытке изменить или повторно
// опубликовать уже опубликованный черновик.
var ErrDraftPublished = errors.New("draft already published")

// ErrDraftEmpty возвращается при публикации черновика без результата генерации.
var ErrDraftEmpty = errors.New("draft has no generation result")

// DraftRepository определяет методы хранилища для черновиков и статей.
type DraftRepository interface {
	// CreateDraft сохраняет новый черновик и возвращает его ID.
	CreateDraft(ctx context.Context, draft models.Draft) (string, error)
	// GetDraft возвращает черновик либо nil, если его нет.
	GetDraft(ctx context.Context, id string) (*models.Draft, error)
	// IncrementRegeneration увеличивает счётчик, пока он меньше предела.
	IncrementRegeneration(ctx context.Context, id string, limit int) (int, error)
	// UpdateDraftResult сохраняет новый результат генерации.
	UpdateDraftResult(ctx context.Context, id string, params models.GenerationParams, result models.GenerationResult) error
	// MarkDraftPublished помечает черновик опубликованным.
	MarkDraftPublished(ctx context.Context, id string) error
	// LogGenerationAttempt фиксирует попытку генерации для дневной квоты.
	LogGenerationAttempt(ctx context.Context, userUID, draftID string) error
	// CountGenerationAttemptsToday возвращает число попыток за календарный день.
	CountGenerationAttemptsToday(ctx context.Context, userUID string) (int, error)
	// CreateArticle создаёт статью блога из результата генерации.
	CreateArticle(ctx context.Context, article models.Article) (string, error)
}

// Ledger определяет методы учёта кредитов, нужные мастеру генерации.
type Ledger interface {
	// HasActiveSubscription сообщает, есть ли активная подписка.
	HasActiveSubscription(ctx context.Context, userUID string) (bool, error)
	// ConsumeCredit списывает один кредит текущего периода.
	ConsumeCredit(ctx context.Context, userUID string) error
}

// Generator определяет клиент генерационного бэкенда.
type Generator interface {
	Generate(ctx context.Context, req aiprovider.GenerateRequest) (*aiprovider.GenerateResponse, error)
}

// GenerationService реализует мастер генерации статей.
type GenerationService struct {
	repo      DraftRepository
	ledger    Ledger
	generator Generator
	log       *slog.Logger
}

// NewGenerationService создаёт новый сервис мастера генерации.
func NewGenerationService(repo DraftRepository, ledger Ledger, generator Generator,
	log *slog.Logger) *GenerationService {
	return &GenerationService{
		repo:      repo,
		ledger:    ledger,
		generator: generator,
		log:       log,
	}
}

// Generate создаёт новый черновик: проверяет подписку и дневную квоту,
// фиксирует попытку, вызывает генерационный бэкенд и сохраняет результат.
// Попытка учитывается в дневной квоте даже при ошибке бэкенда.
func (s *GenerationService) Generate(ctx context.Context, userUID string,
	params models.GenerationParams) (*models.Draft, error) {
	const op = "services.generation.Generate"

	if err := s.checkGates(ctx, userUID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.LogGenerationAttempt(ctx, userUID, ""); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := s.callBackend(ctx, params, "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	draft := models.Draft{
		UserUID:           userUID,
		Topic:             params.Topic,
		Params:            params,
		Result:            resp.ToResult(),
		RegenerationCount: 0,
		CreatedAt:         time.Now(),
	}
	id, err := s.repo.CreateDraft(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	draft.ID = id

	s.log.Info("draft generated", slog.String("draft_id", id), slog.String("user_uid", userUID))
	return &draft, nil
}

// Regenerate повторно генерирует черновик с обновлёнными параметрами.
// Счётчик перегенераций увеличивается условным обновлением до обращения
// к бэкенду, поэтому параллельные запросы не превышают предел. Попытка,
// завершившаяся ошибкой бэкенда, всё равно расходует и перегенерацию,
// и дневную квоту.
func (s *GenerationService) Regenerate(ctx context.Context, userUID, draftID string,
	params models.GenerationParams) (*models.Draft, error) {
	const op = "services.generation.Regenerate"

	draft, err := s.repo.GetDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if draft == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrDraftNotFound)
	}
	if draft.Published {
		return nil, fmt.Errorf("%s: %w", op, ErrDraftPublished)
	}

	if err = s.checkGates(ctx, userUID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	updated, err := s.repo.IncrementRegeneration(ctx, draftID, models.MaxRegenerations)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if updated == 0 {
		metrics.GenerationRejections.WithLabelValues("regen_limit").Inc()
		return nil, fmt.Errorf("%s: %w", op, ErrRegenLimit)
	}

	if err = s.repo.LogGenerationAttempt(ctx, userUID, draftID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := s.callBackend(ctx, params, draftID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := resp.ToResult()
	if err = s.repo.UpdateDraftResult(ctx, draftID, params, *result); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	draft.Params = params
	draft.Result = result
	draft.RegenerationCount++
	s.log.Info("draft regenerated", slog.String("draft_id", draftID),
		slog.Int("regeneration_count", draft.RegenerationCount))
	return draft, nil
}

// Publish списывает один кредит и переносит результат черновика в блог.
// Кредит списывается условным обновлением до создания статьи, поэтому
// публикация при исчерпанной квоте невозможна даже при гонке запросов.
func (s *GenerationService) Publish(ctx context.Context, userUID, draftID string) (*models.Article, error) {
	const op = "services.generation.Publish"

	draft, err := s.repo.GetDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if draft == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrDraftNotFound)
	}
	if draft.Published {
		return nil, fmt.Errorf("%s: %w", op, ErrDraftPublished)
	}
	if draft.Result == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrDraftEmpty)
	}

	if err = s.ledger.ConsumeCredit(ctx, userUID); err != nil {
		s.countLedgerRejection(err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now()
	article := models.Article{
		AuthorUID:       userUID,
		Title:           draft.Result.Title,
		Slug:            draft.Result.Slug,
		MetaTitle:       draft.Result.MetaTitle,
		MetaDescription: draft.Result.MetaDescription,
		HTML:            draft.Result.HTML,
		FAQ:             draft.Result.FAQ,
		Published:       true,
		PublishedAt:     &now,
	}
	articleID, err := s.repo.CreateArticle(ctx, article)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	article.ID = articleID

	if err = s.repo.MarkDraftPublished(ctx, draftID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("draft published", slog.String("draft_id", draftID),
		slog.String("article_id", articleID))
	return &article, nil
}

// GetDraft возвращает черновик по ID.
func (s *GenerationService) GetDraft(ctx context.Context, draftID string) (*models.Draft, error) {
	const op = "services.generation.GetDraft"

	draft, err := s.repo.GetDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if draft == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrDraftNotFound)
	}
	return draft, nil
}

// checkGates проверяет подписку и дневную квоту попыток генерации.
func (s *GenerationService) checkGates(ctx context.Context, userUID string) error {
	active, err := s.ledger.HasActiveSubscription(ctx, userUID)
	if err != nil {
		return err
	}
	if !active {
		metrics.GenerationRejections.WithLabelValues("no_subscription").Inc()
		return creditsservice.ErrNoSubscription
	}

	attempts, err := s.repo.CountGenerationAttemptsToday(ctx, userUID)
	if err != nil {
		return err
	}
	if attempts >= models.MaxDailyGenerations {
		metrics.GenerationRejections.WithLabelValues("daily_limit").Inc()
		return ErrDailyLimit
	}
	return nil
}

// callBackend обращается к генерационному бэкенду с параметрами промпта.
func (s *GenerationService) callBackend(ctx context.Context,
	params models.GenerationParams, priorDraftID string) (*aiprovider.GenerateResponse, error) {
	resp, err := s.generator.Generate(ctx, aiprovider.GenerateRequest{
		Topic:        params.Topic,
		Audience:     params.Audience,
		Region:       params.Region,
		Keywords:     params.Keywords,
		Tone:         params.Tone,
		Length:       params.Length,
		CallToAction: params.CallToAction,
		PriorDraftID: priorDraftID,
	})
	if err != nil {
		if errors.Is(err, aiprovider.ErrUpstream) {
			metrics.GenerationRejections.WithLabelValues("upstream").Inc()
		}
		s.log.Error("generation backend call failed", sl.Err(err))
		return nil, err
	}
	return resp, nil
}

func (s *GenerationService) countLedgerRejection(err error) {
	switch {
	case errors.Is(err, creditsservice.ErrNoSubscription):
		metrics.GenerationRejections.WithLabelValues("no_subscription").Inc()
	case errors.Is(err, creditsservice.ErrNoCredits):
		metrics.GenerationRejections.WithLabelValues("no_credits").Inc()
	}
}
