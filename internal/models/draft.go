// Package models содержит структуры черновиков ИИ-генерации:
// параметры запроса к генерационному бэкенду, результат генерации
// и сам черновик со счётчиком перегенераций.
package models

import "time"

// MaxRegenerations ограничивает число перегенераций одного черновика.
const MaxRegenerations = 5

// MaxDailyGenerations ограничивает число попыток генерации
// (новых и перегенераций суммарно) на пользователя за календарный день.
const MaxDailyGenerations = 10

// GenerationParams описывает структурированную конфигурацию промпта,
// отправляемую генерационному бэкенду.
type GenerationParams struct {
	Topic        string   `json:"topic"`                    // Тема статьи
	Audience     string   `json:"audience,omitempty"`       // Целевая аудитория
	Region       string   `json:"region,omitempty"`         // Регион
	Keywords     []string `json:"keywords,omitempty"`       // Ключевые слова
	Tone         string   `json:"tone,omitempty"`           // Тон текста
	Length       string   `json:"length,omitempty"`         // Желаемая длина
	CallToAction string   `json:"call_to_action,omitempty"` // Призыв к действию (опционально)
}

// FAQItem — пара вопрос/ответ в блоке FAQ сгенерированной статьи.
type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// GenerationResult — структурированный ответ генерационного бэкенда.
type GenerationResult struct {
	Title           string    `json:"title"`
	MetaTitle       string    `json:"meta_title"`
	MetaDescription string    `json:"meta_description"`
	Slug            string    `json:"slug"`
	HTML            string    `json:"html"`
	FAQ             []FAQItem `json:"faq"`
}

// Draft представляет черновик сгенерированной статьи.
// После установки Published черновик считается финализированным.
type Draft struct {
	ID                string            // Уникальный идентификатор черновика
	UserUID           string            // Пользователь-владелец
	Topic             string            // Тема в свободной форме
	Params            GenerationParams  // Параметры последнего запроса
	Result            *GenerationResult // Последний результат генерации
	RegenerationCount int               // Число перегенераций, не более MaxRegenerations
	Published         bool              // Черновик опубликован
	CreatedAt         time.Time         // Дата создания
}

// GenerateRequest используется для приёма параметров генерации из JSON-запроса.
type GenerateRequest struct {
	Topic        string   `json:"topic" validate:"required"` // Тема статьи
	Audience     string   `json:"audience,omitempty"`
	Region       string   `json:"region,omitempty"`
	Keywords     []string `json:"keywords,omitempty"`
	Tone         string   `json:"tone,omitempty"`
	Length       string   `json:"length,omitempty"`
	CallToAction string   `json:"call_to_action,omitempty"`
}
