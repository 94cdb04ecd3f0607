package models

import "time"

// Статусы подписки, приходящие от платёжного провайдера.
// Статус может отставать от реального состояния из-за асинхронной
// доставки вебхуков, поэтому границы оплаченного периода имеют приоритет.
const (
	StatusFreeTrial = "free_trial"
	StatusActive    = "active"
	StatusCancelled = "cancelled"
	StatusPastDue   = "past_due"
)

// Типы тарифных планов.
const (
	PlanFreeTrial = "free_trial"
	PlanStandard  = "standard"
	PlanPremium   = "premium"
)

// Snapshot представляет снимок состояния подписки пользователя
// на момент запроса. Снимок собирается из таблиц users и subscriptions
// и используется движком entitlement для вычисления прав доступа.
// PeriodStart и PeriodEnd равны nil, если оплаченной подписки нет.
type Snapshot struct {
	Status         string     // Статус подписки (free_trial, active, cancelled, past_due)
	PlanType       string     // Тарифный план (free_trial, standard, premium)
	TrialStartedAt time.Time  // Дата начала пробного периода
	PeriodStart    *time.Time // Начало оплаченного периода
	PeriodEnd      *time.Time // Конец оплаченного периода
}

// Subscription описывает запись оплаченной подписки для сохранения
// в хранилище. Записи создаёт внешний платёжный коллаборатор.
type Subscription struct {
	UserUID     string    // Идентификатор пользователя
	Status      string    // Статус подписки
	PlanType    string    // Тарифный план
	PeriodStart time.Time // Начало оплаченного периода
	PeriodEnd   time.Time // Конец оплаченного периода
}
