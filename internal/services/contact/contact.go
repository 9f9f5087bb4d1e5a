// Package services содержит бизнес-логику приёма обращений с контактной
// формы сайта: фильтрацию автоматических отправок, ограничение частоты,
// сохранение обращения и передачу его в очередь на почтовую рассылку.
package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/lawfirm-backoffice/internal/lib/sl"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/metrics"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/models"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/rabbitmq"
)

// ErrTooFast возвращается, когда форма отправлена быстрее минимального
// времени заполнения после отрисовки.
var ErrTooFast = errors.New("form submitted too fast")

// ErrSpamContent возвращается, когда тема или текст обращения содержат
// запрещённые маркеры.
var ErrSpamContent = errors.New("message content rejected")

// ErrRateLimited возвращается при превышении лимита отправок с одного адреса.
var ErrRateLimited = errors.New("too many submissions from this address")

// ErrRelayFailed возвращается, когда обращение сохранено, но передать его
// в очередь на рассылку не удалось.
var ErrRelayFailed = errors.New("lead relay failed")

// denylist содержит маркеры спама, проверяемые по теме и тексту обращения.
var denylist = []string{
	"viagra",
	"cialis",
	"casino",
	"crypto signal",
	"forex signal",
	"seo service",
	"backlink",
	"link farm",
	"make money fast",
	"loan approval",
}

// LeadRepository определяет методы хранилища для обращений.
type LeadRepository interface {
	// CreateLead сохраняет обращение и возвращает его ID.
	CreateLead(ctx context.Context, lead models.Lead) (string, error)
	// ListLeads возвращает обращения с пагинацией, новые первыми.
	ListLeads(ctx context.Context, limit, offset int) ([]*models.Lead, error)
}

// RateCounter определяет счётчик скользящего окна для ограничения частоты.
type RateCounter interface {
	// IncrementWindow увеличивает счётчик ключа и возвращает его значение
	// в пределах окна.
	IncrementWindow(key string, window time.Duration) (int64, error)
}

// ContactService реализует приём обращений с контактной формы.
type ContactService struct {
	repo      LeadRepository
	counter   RateCounter
	channel   rabbitmq.Publisher
	rateLimit int
	window    time.Duration
	minFillin time.Duration
	log       *slog.Logger
}

// NewContactService создает новый экземпляр ContactService.
// Канал очереди может быть nil: тогда обращения сохраняются без рассылки.
func NewContactService(repo LeadRepository, counter RateCounter, channel rabbitmq.Publisher,
	rateLimit int, window, minFillin time.Duration, log *slog.Logger) *ContactService {
	return &ContactService{
		repo:      repo,
		counter:   counter,
		channel:   channel,
		rateLimit: rateLimit,
		window:    window,
		minFillin: minFillin,
		log:       log,
	}
}

// Submit проводит обращение через фильтры и сохраняет его.
// Срабатывание ловушки возвращает nil без сохранения: автоматическому
// отправителю отвечают так же, как живому. Ошибка публикации в очередь
// обращение не теряет - запись остаётся в хранилище, а вызывающему
// возвращается ErrRelayFailed.
func (s *ContactService) Submit(ctx context.Context, req models.ContactRequest, sourceIP string) error {
	const op = "services.contact.Submit"

	if req.Website != "" {
		metrics.ContactDrops.WithLabelValues("honeypot").Inc()
		s.log.Info("honeypot triggered, submission dropped", slog.String("source_ip", sourceIP))
		return nil
	}

	elapsed := time.Since(time.UnixMilli(req.RenderedAt))
	if elapsed < s.minFillin {
		metrics.ContactDrops.WithLabelValues("too_fast").Inc()
		return ErrTooFast
	}

	if matchesDenylist(req.Subject) || matchesDenylist(req.Message) {
		metrics.ContactDrops.WithLabelValues("denylist").Inc()
		return ErrSpamContent
	}

	count, err := s.counter.IncrementWindow("contact:"+sourceIP, s.window)
	if err != nil {
		return err
	}
	if count > int64(s.rateLimit) {
		metrics.ContactDrops.WithLabelValues("rate_limit").Inc()
		return ErrRateLimited
	}

	lead := models.Lead{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Subject:   req.Subject,
		Message:   req.Message,
		SourceIP:  sourceIP,
		CreatedAt: time.Now(),
	}
	id, err := s.repo.CreateLead(ctx, lead)
	if err != nil {
		return err
	}
	lead.ID = id
	s.log.Info("lead accepted", slog.String("lead_id", id), slog.String("source_ip", sourceIP))

	if s.channel == nil {
		s.log.Warn("queue channel is not configured, lead stored without relay",
			slog.String("lead_id", id))
		return nil
	}
	if err := rabbitmq.PublishMessage(s.channel, rabbitmq.Exchange,
		rabbitmq.LeadCreatedRoutingKey, lead); err != nil {
		s.log.Error("failed to publish lead message", sl.Err(err),
			slog.String("lead_id", id))
		return errors.Join(ErrRelayFailed, err)
	}
	return nil
}

// ListLeads возвращает принятые обращения для админ-панели.
func (s *ContactService) ListLeads(ctx context.Context, limit, offset int) ([]*models.Lead, error) {
	return s.repo.ListLeads(ctx, limit, offset)
}

func matchesDenylist(text string) bool {
	lowered := strings.ToLower(text)
	for _, marker := range denylist {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}
