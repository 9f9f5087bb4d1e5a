// Package services содержит бизнес-логику управления статьями блога
// в админ-панели и их кеширования для публичного сайта.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/lawfirm-backoffice/internal/models"
)

// ErrArticleNotFound возвращается, когда статья не существует
// либо не опубликована для публичного запроса.
var ErrArticleNotFound = errors.New("article not found")

// ArticleRepository определяет методы для работы со статьями в хранилище.
type ArticleRepository interface {
	// CreateArticle добавляет новую статью и возвращает её ID.
	CreateArticle(ctx context.Context, article models.Article) (string, error)
	// GetArticle возвращает статью по ID либо nil.
	GetArticle(ctx context.Context, id string) (*models.Article, error)
	// GetPublishedArticleBySlug возвращает опубликованную статью по слагу либо nil.
	GetPublishedArticleBySlug(ctx context.Context, slug string) (*models.Article, error)
	// UpdateArticle обновляет данные статьи по ID.
	UpdateArticle(ctx context.Context, article models.Article, id string) (int, error)
	// RemoveArticle удаляет статью по ID и возвращает количество удалённых записей.
	RemoveArticle(ctx context.Context, id string) (int, error)
	// SetArticlePublished переключает флаг публикации.
	SetArticlePublished(ctx context.Context, id string, published bool) (int, error)
	// ListArticles возвращает статьи автора с пагинацией.
	ListArticles(ctx context.Context, authorUID string, limit, offset int) ([]*models.Article, error)
	// ListAllArticles возвращает все статьи с пагинацией.
	ListAllArticles(ctx context.Context, limit, offset int) ([]*models.Article, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// ContentService реализует бизнес-логику работы со статьями, включая кеширование.
type ContentService struct {
	repo  ArticleRepository
	cache Cache
	log   *slog.Logger
}

// NewContentService создает новый экземпляр ContentService.
func NewContentService(repo ArticleRepository, cache Cache, log *slog.Logger) *ContentService {
	return &ContentService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Create создает новую статью в статусе черновика и возвращает её ID.
func (s *ContentService) Create(ctx context.Context, authorUID string, req models.ArticleRequest) (string, error) {
	article := models.Article{
		AuthorUID:       authorUID,
		Title:           req.Title,
		Slug:            req.Slug,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		HTML:            req.HTML,
		FAQ:             req.FAQ,
		Published:       false,
	}

	id, err := s.repo.CreateArticle(ctx, article)
	if err != nil {
		return "", err
	}
	s.log.Info("created new article", slog.String("id", id))
	return id, nil
}

// Read возвращает статью по ID, используя кеш или репозиторий.
func (s *ContentService) Read(ctx context.Context, id string) (*models.Article, error) {
	var result *models.Article
	cacheKey := fmt.Sprintf("article:%s", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}

	result, err = s.repo.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, ErrArticleNotFound
	}

	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// ReadBySlug возвращает опубликованную статью для публичного сайта.
// Неопубликованные статьи для публичного запроса не существуют.
func (s *ContentService) ReadBySlug(ctx context.Context, slug string) (*models.Article, error) {
	var result *models.Article
	cacheKey := fmt.Sprintf("article:slug:%s", slug)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}

	result, err = s.repo.GetPublishedArticleBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, ErrArticleNotFound
	}

	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// Update обновляет статью и инвалидирует кеш.
func (s *ContentService) Update(ctx context.Context, req models.ArticleRequest, id string) (int, error) {
	article := models.Article{
		Title:           req.Title,
		Slug:            req.Slug,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		HTML:            req.HTML,
		FAQ:             req.FAQ,
	}
	count, err := s.repo.UpdateArticle(ctx, article, id)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, ErrArticleNotFound
	}
	s.log.Info("updated article in storage", slog.String("id", id))

	s.invalidate(id, req.Slug)
	return count, nil
}

// Remove удаляет статью по ID и инвалидирует кеш.
func (s *ContentService) Remove(ctx context.Context, id string) (int, error) {
	article, err := s.repo.GetArticle(ctx, id)
	if err != nil {
		return 0, err
	}
	if article == nil {
		return 0, ErrArticleNotFound
	}

	count, err := s.repo.RemoveArticle(ctx, id)
	if err != nil {
		return 0, err
	}

	s.invalidate(id, article.Slug)
	return count, nil
}

// SetPublished публикует или снимает с публикации статью.
// Ручная публикация статьи кредиты не расходует.
func (s *ContentService) SetPublished(ctx context.Context, id string, published bool) error {
	article, err := s.repo.GetArticle(ctx, id)
	if err != nil {
		return err
	}
	if article == nil {
		return ErrArticleNotFound
	}

	count, err := s.repo.SetArticlePublished(ctx, id, published)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrArticleNotFound
	}
	s.log.Info("article publication toggled",
		slog.String("id", id), slog.Bool("published", published))

	s.invalidate(id, article.Slug)
	return nil
}

// List возвращает список статей в зависимости от ролей пользователя:
// администраторы видят все статьи, остальные - только свои.
func (s *ContentService) List(ctx context.Context, authorUID string, roles []string,
	limit, offset int) ([]*models.Article, error) {
	for _, role := range roles {
		if role == models.RoleAdmin || role == models.RoleClienteAdmin {
			return s.repo.ListAllArticles(ctx, limit, offset)
		}
	}
	return s.repo.ListArticles(ctx, authorUID, limit, offset)
}

func (s *ContentService) invalidate(id, slug string) {
	for _, key := range []string{
		fmt.Sprintf("article:%s", id),
		fmt.Sprintf("article:slug:%s", slug),
	} {
		if err := s.cache.Invalidate(key); err != nil {
			s.log.Warn("failed to remove from cache", slog.String("key", key), slog.Any("err", err))
		}
	}
}
