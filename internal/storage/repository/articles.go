package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/lawfirm-backoffice/internal/models"
)

// CreateArticle вставляет новую статью и возвращает её ID.
func (s *Storage) CreateArticle(ctx context.Context, article models.Article) (string, error) {
	const op = "storage.CreateArticle"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	faq, err := json.Marshal(article.FAQ)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var newID string
	query := `INSERT INTO articles (author_uid, title, slug, meta_title, meta_description,
			      html, faq, published, published_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query,
		article.AuthorUID, article.Title, article.Slug, article.MetaTitle,
		article.MetaDescription, article.HTML, faq, article.Published,
		article.PublishedAt).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetArticle возвращает статью по ID. Если статьи нет, возвращает nil без ошибки.
func (s *Storage) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	const op = "storage.GetArticle"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, author_uid, title, slug, meta_title, meta_description,
			      html, faq, published, published_at, created_at, updated_at
			  FROM articles
			  WHERE id = $1`
	return s.scanArticle(s.DB.QueryRowContext(ctx, query, id))
}

// GetPublishedArticleBySlug возвращает опубликованную статью по слагу
// для публичного сайта. Если статьи нет, возвращает nil без ошибки.
func (s *Storage) GetPublishedArticleBySlug(ctx context.Context, slug string) (*models.Article, error) {
	const op = "storage.GetPublishedArticleBySlug"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, author_uid, title, slug, meta_title, meta_description,
			      html, faq, published, published_at, created_at, updated_at
			  FROM articles
			  WHERE slug = $1 AND published = true`
	return s.scanArticle(s.DB.QueryRowContext(ctx, query, slug))
}

func (s *Storage) scanArticle(row *sql.Row) (*models.Article, error) {
	const op = "storage.scanArticle"
	a := &models.Article{}
	var faq []byte
	var publishedAt sql.NullTime
	err := row.Scan(&a.ID, &a.AuthorUID, &a.Title, &a.Slug, &a.MetaTitle,
		&a.MetaDescription, &a.HTML, &faq, &a.Published, &publishedAt,
		&a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if publishedAt.Valid {
		a.PublishedAt = &publishedAt.Time
	}
	if len(faq) > 0 && string(faq) != "null" {
		if err = json.Unmarshal(faq, &a.FAQ); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return a, nil
}

// UpdateArticle обновляет данные статьи по ID и возвращает количество
// обновлённых строк.
func (s *Storage) UpdateArticle(ctx context.Context, article models.Article, id string) (int, error) {
	const op = "storage.UpdateArticle"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	faq, err := json.Marshal(article.FAQ)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE articles
			  SET title = $2, slug = $3, meta_title = $4, meta_description = $5,
			      html = $6, faq = $7, updated_at = now()
			  WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id,
		article.Title, article.Slug, article.MetaTitle, article.MetaDescription,
		article.HTML, faq)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveArticle удаляет статью по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveArticle(ctx context.Context, id string) (int, error) {
	const op = "storage.RemoveArticle"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM articles WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// SetArticlePublished переключает признак публикации статьи и проставляет
// момент публикации. Возвращает количество обновлённых строк.
func (s *Storage) SetArticlePublished(ctx context.Context, id string, published bool) (int, error) {
	const op = "storage.SetArticlePublished"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE articles
			  SET published = $2,
			      published_at = CASE WHEN $2 THEN now() ELSE NULL END,
			      updated_at = now()
			  WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id, published)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListArticles возвращает статьи автора с пагинацией.
func (s *Storage) ListArticles(ctx context.Context, authorUID string, limit, offset int) ([]*models.Article, error) {
	const op = "storage.ListArticles"
	query := `SELECT id, author_uid, title, slug, meta_title, meta_description,
			      html, faq, published, published_at, created_at, updated_at
			  FROM articles
			  WHERE author_uid = $1
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, authorUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.collectArticles(rows)
}

// ListAllArticles возвращает список всех статей с пагинацией.
func (s *Storage) ListAllArticles(ctx context.Context, limit, offset int) ([]*models.Article, error) {
	const op = "storage.ListAllArticles"
	query := `SELECT id, author_uid, title, slug, meta_title, meta_description,
			      html, faq, published, published_at, created_at, updated_at
			  FROM articles
			  ORDER BY created_at DESC
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.collectArticles(rows)
}

func (s *Storage) collectArticles(rows *sql.Rows) ([]*models.Article, error) {
	const op = "storage.collectArticles"
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Article
	for rows.Next() {
		a := &models.Article{}
		var faq []byte
		var publishedAt sql.NullTime
		if err := rows.Scan(&a.ID, &a.AuthorUID, &a.Title, &a.Slug, &a.MetaTitle,
			&a.MetaDescription, &a.HTML, &faq, &a.Published, &publishedAt,
			&a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if publishedAt.Valid {
			a.PublishedAt = &publishedAt.Time
		}
		if len(faq) > 0 && string(faq) != "null" {
			if err := json.Unmarshal(faq, &a.FAQ); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
