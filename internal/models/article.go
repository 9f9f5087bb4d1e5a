// Package models содержит доменную модель статьи блога,
// создаваемой вручную в админ-панели или публикацией черновика мастера.
package models

import "time"

// Article представляет статью блога.
type Article struct {
	ID              string     // Уникальный идентификатор статьи
	AuthorUID       string     // Автор статьи
	Title           string     // Заголовок
	Slug            string     // Уникальный слаг для публичного URL
	MetaTitle       string     // SEO-заголовок
	MetaDescription string     // SEO-описание
	HTML            string     // Тело статьи в HTML
	FAQ             []FAQItem  // Блок FAQ, может быть пустым
	Published       bool       // Статья доступна на публичном сайте
	PublishedAt     *time.Time // Момент публикации
	CreatedAt       time.Time  // Дата создания
	UpdatedAt       time.Time  // Дата последнего изменения
}

// ArticleRequest используется для приёма данных статьи из JSON-запроса
// при создании и обновлении через админ-панель.
type ArticleRequest struct {
	Title           string    `json:"title" validate:"required"` // Заголовок
	Slug            string    `json:"slug" validate:"required"`  // Слаг
	MetaTitle       string    `json:"meta_title,omitempty"`
	MetaDescription string    `json:"meta_description,omitempty"`
	HTML            string    `json:"html" validate:"required"` // Тело статьи
	FAQ             []FAQItem `json:"faq,omitempty"`
}
