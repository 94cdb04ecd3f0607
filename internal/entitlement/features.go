package entitlement

// Tier уровень тарифа, необходимый для доступа к функции.
// Уровни упорядочены: free < trial < standard < premium.
type Tier int

// Уровни доступа в порядке возрастания.
const (
	TierFree Tier = iota
	TierTrial
	TierStandard
	TierPremium
)

// featureTiers статическая таблица минимальных уровней доступа по функциям.
// Таблица — единственный источник известных имён функций: имя, которого
// здесь нет, не даёт доступа никому.
var featureTiers = map[string]Tier{
	"dashboard":             TierFree,
	"lesson_library":        TierFree,
	"voice_generation":      TierTrial,
	"conversation_practice": TierTrial,
	"progress_tracking":     TierStandard,
	"offline_audio":         TierPremium,
	"personal_tutor":        TierPremium,
}

// EffectiveTier возвращает максимальный уровень тарифа,
// которому удовлетворяет решение.
func (d Decision) EffectiveTier() Tier {
	switch {
	case d.IsPremium:
		return TierPremium
	case d.IsSubscriptionActive:
		return TierStandard
	case d.IsTrialActive:
		return TierTrial
	default:
		return TierFree
	}
}

// HasFeatureAccess сообщает, доступна ли функция с данным именем.
// Неизвестные имена закрыты для всех, включая premium.
func (d Decision) HasFeatureAccess(feature string) bool {
	tier, ok := featureTiers[feature]
	if !ok {
		return false
	}
	return tier <= d.EffectiveTier()
}

// FeatureFlags возвращает карту доступности всех известных функций
// для данного решения. Используется в ответе /entitlements.
func (d Decision) FeatureFlags() map[string]bool {
	flags := make(map[string]bool, len(featureTiers))
	for name, tier := range featureTiers {
		flags[name] = tier <= d.EffectiveTier()
	}
	return flags
}
