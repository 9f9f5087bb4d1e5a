// Package aiprovider содержит типы запросов и ответов генерационного бэкенда.
package aiprovider

import "github.com/magabrotheeeer/lawfirm-backoffice/internal/models"

// GenerateRequest - структурированная конфигурация промпта, отправляемая
// генерационному бэкенду. PriorDraftID заполняется при перегенерации,
// чтобы бэкенд учёл предыдущий вариант.
type GenerateRequest struct {
	Topic        string   `json:"topic"`
	Audience     string   `json:"audience,omitempty"`
	Region       string   `json:"region,omitempty"`
	Keywords     []string `json:"keywords,omitempty"`
	Tone         string   `json:"tone,omitempty"`
	Length       string   `json:"length,omitempty"`
	CallToAction string   `json:"call_to_action,omitempty"`
	PriorDraftID string   `json:"prior_draft_id,omitempty"`
}

// GenerateResponse - структурированный результат генерации.
type GenerateResponse struct {
	Title           string           `json:"title"`
	MetaTitle       string           `json:"meta_title"`
	MetaDescription string           `json:"meta_description"`
	Slug            string           `json:"slug"`
	HTML            string           `json:"html"`
	FAQ             []models.FAQItem `json:"faq"`
}

// ToResult переводит ответ бэкенда в доменную модель результата.
func (r *GenerateResponse) ToResult() *models.GenerationResult {
	return &models.GenerationResult{
		Title:           r.Title,
		MetaTitle:       r.MetaTitle,
		MetaDescription: r.MetaDescription,
		Slug:            r.Slug,
		HTML:            r.HTML,
		FAQ:             r.FAQ,
	}
}
