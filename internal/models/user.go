// Package models содержит доменные структуры сервиса lingua-voice:
// пользователей, снимки состояния подписки и вспомогательные типы
// для приёма данных из внешних источников (например, JSON-запросов).
package models

import "time"

// User представляет зарегистрированного пользователя сервиса.
type User struct {
	UID            string    // Уникальный идентификатор пользователя
	Email          string    // Электронная почта
	Username       string    // Имя пользователя (уникальное)
	PasswordHash   string    // Хэш пароля пользователя
	Role           string    // Роль пользователя, admin или user
	TrialStartedAt time.Time // Дата начала пробного периода, выставляется один раз при регистрации
}
