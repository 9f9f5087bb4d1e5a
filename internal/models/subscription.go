// Package models содержит доменные структуры подписки и учёта кредитов,
// а также вспомогательные типы для работы с данными из JSON-запросов.
package models

import "time"

// Статусы подписки.
const (
	SubscriptionActive   = "active"
	SubscriptionInactive = "inactive"
)

// Plan представляет тарифный план с месячной квотой кредитов генерации.
type Plan struct {
	ID             int    // Идентификатор плана
	Name           string // Название плана
	PriceCents     int    // Цена в центах за месяц
	MonthlyCredits int    // Месячная квота кредитов
}

// Subscription представляет подписку пользователя на тарифный план.
// Одновременно активной считается не более одной записи:
// status = active и текущий период ещё не закончился.
type Subscription struct {
	ID                 int       // Идентификатор записи
	UserUID            string    // Пользователь-владелец
	PlanID             int       // Тарифный план
	Status             string    // active или inactive
	CurrentPeriodStart time.Time // Начало оплаченного периода
	CurrentPeriodEnd   time.Time // Конец оплаченного периода
}

// UsageRecord хранит счётчик израсходованных кредитов пользователя
// и границы периода, для которого счётчик был в последний раз сброшен.
type UsageRecord struct {
	UserUID     string    // Пользователь-владелец
	UsedCredits int       // Израсходовано кредитов за период
	PeriodStart time.Time // Начало учётного периода
	PeriodEnd   time.Time // Конец учётного периода
	LastResetAt time.Time // Момент последнего сброса счётчика
}

// Причины, по которым публикация недоступна.
const (
	ReasonNoSubscription = "no_subscription"
	ReasonNoCredits      = "no_credits"
)

// CreditStatus — модель чтения для экрана мастера: план, период,
// расход кредитов и признак доступности публикации.
type CreditStatus struct {
	PlanName         string     `json:"plan_name,omitempty"`
	MonthlyCredits   int        `json:"monthly_credits"`
	UsedCredits      int        `json:"used_credits"`
	CreditsRemaining int        `json:"credits_remaining"`
	PeriodEnd        *time.Time `json:"period_end,omitempty"`
	CanPublish       bool       `json:"can_publish"`
	Reason           string     `json:"reason,omitempty"` // no_subscription или no_credits
}

// SubscribeRequest используется для приёма выбранного плана из JSON-запроса.
type SubscribeRequest struct {
	PlanID int `json:"plan_id" validate:"required,gt=0"` // Идентификатор плана
}
