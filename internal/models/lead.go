// Package models содержит модель обращения с контактной формы сайта.
// Принятое обращение сохраняется для дальнейшей работы сотрудников
// и пересылается по электронной почте через очередь.
package models

import "time"

// Lead представляет принятое обращение с контактной формы.
type Lead struct {
	ID        string    `json:"id"`         // Уникальный идентификатор обращения
	Name      string    `json:"name"`       // Имя отправителя
	Email     string    `json:"email"`      // Электронная почта отправителя
	Phone     string    `json:"phone"`      // Телефон отправителя
	Subject   string    `json:"subject"`    // Тема обращения
	Message   string    `json:"message"`    // Текст обращения
	SourceIP  string    `json:"source_ip"`  // Адрес источника
	CreatedAt time.Time `json:"created_at"` // Момент приёма
}

// ContactRequest используется для приёма данных контактной формы.
// Website — скрытое поле-ловушка: у живого отправителя оно всегда пустое.
// RenderedAt — момент отрисовки формы в миллисекундах Unix; отправка
// быстрее чем через 3 секунды после отрисовки отклоняется.
type ContactRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone,omitempty"`
	Subject    string `json:"subject" validate:"required"`
	Message    string `json:"message" validate:"required"`
	Website    string `json:"website,omitempty"`
	RenderedAt int64  `json:"rendered_at" validate:"required"`
}
