// Package entitlement вычисляет права доступа пользователя по снимку
// состояния подписки. Функции пакета чистые и детерминированные:
// они не обращаются к сети и хранилищу, текущее время передаётся
// параметром, поэтому пакет тестируется без моков.
package entitlement

import (
	"time"

	"github.com/magabrotheeeer/lingua-voice/internal/models"
)

// TrialLengthDays длительность пробного периода в днях.
const TrialLengthDays = 7

// Decision содержит вычисленные права доступа пользователя.
// Структура не хранится: она вычисляется заново при каждом обращении.
type Decision struct {
	IsTrialActive        bool // Пробный период ещё действует и оплаченной подписки нет
	TrialDaysLeft        int  // Остаток пробного периода в днях, округлённый вверх, не меньше 0
	IsSubscriptionActive bool // Подписка оплачена и текущий момент внутри оплаченного периода
	IsPremium            bool // Активная подписка тарифа premium
}

// Evaluate вычисляет права доступа по снимку подписки на момент now.
//
// Отсутствующий или некорректный снимок (nil либо нулевая дата начала
// пробного периода) не считается ошибкой: возвращается самое слабое
// решение — истёкший пробный период без подписки. Проверки прав
// выполняются при отрисовке страниц и не должны ронять вызывающего.
//
// Границы оплаченного периода имеют приоритет над полем Status:
// подписка с истёкшим периодом считается неактивной, даже если статус
// ещё не обновлён вебхуком.
func Evaluate(s *models.Snapshot, now time.Time) Decision {
	if s == nil || s.TrialStartedAt.IsZero() {
		return Decision{}
	}

	subActive := s.Status == models.StatusActive &&
		s.PeriodStart != nil && s.PeriodEnd != nil &&
		!now.Before(*s.PeriodStart) && !now.After(*s.PeriodEnd)

	daysLeft := trialDaysLeft(s.TrialStartedAt, now)

	return Decision{
		IsTrialActive:        daysLeft > 0 && !subActive,
		TrialDaysLeft:        daysLeft,
		IsSubscriptionActive: subActive,
		IsPremium:            subActive && s.PlanType == models.PlanPremium,
	}
}

// trialDaysLeft возвращает остаток пробного периода в полных днях,
// округляя неполный день вверх.
func trialDaysLeft(startedAt, now time.Time) int {
	remaining := startedAt.AddDate(0, 0, TrialLengthDays).Sub(now)
	if remaining <= 0 {
		return 0
	}
	days := int(remaining / (24 * time.Hour))
	if remaining%(24*time.Hour) != 0 {
		days++
	}
	return days
}
