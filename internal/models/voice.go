package models

// VoiceUsageEvent описывает событие успешной генерации озвучки.
// Публикуется в очередь usage для последующей аналитики.
type VoiceUsageEvent struct {
	UserUID string `json:"user_uid"` // Идентификатор пользователя
	Chars   int    `json:"chars"`    // Длина нормализованного текста в символах
	Chunks  int    `json:"chunks"`   // Количество фрагментов текста
	Skipped int    `json:"skipped"`  // Количество фрагментов, пропущенных из-за ошибок синтеза
}
