// Package entitlement содержит логику бизнес-уровня для вычисления
// прав доступа пользователя к функциям продукта.
package entitlement

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/lingua-voice/internal/entitlement"
	"github.com/magabrotheeeer/lingua-voice/internal/lib/sl"
	"github.com/magabrotheeeer/lingua-voice/internal/models"
)

// snapshotCacheTTL ограничивает время жизни снимка подписки в кэше,
// чтобы изменение статуса подписки применялось без перезапуска.
const snapshotCacheTTL = time.Minute

// SnapshotRepository описывает контракт чтения снимка подписки из базы данных.
type SnapshotRepository interface {
	GetSnapshot(ctx context.Context, userUID string) (*models.Snapshot, error)
}

// Cache описывает контракт кэширования снимков подписки.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service вычисляет права доступа пользователя на основе снимка подписки.
type Service struct {
	repo  SnapshotRepository
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo SnapshotRepository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// GetDecision возвращает решение о правах доступа пользователя.
// Ошибки чтения снимка не прерывают запрос: пользователь получает
// решение без активных прав.
func (s *Service) GetDecision(ctx context.Context, userUID string) entitlement.Decision {
	snapshot := s.getSnapshot(ctx, userUID)
	return entitlement.Evaluate(snapshot, time.Now().UTC())
}

// HasFeatureAccess сообщает, доступна ли пользователю указанная функция.
func (s *Service) HasFeatureAccess(ctx context.Context, userUID, feature string) bool {
	return s.GetDecision(ctx, userUID).HasFeatureAccess(feature)
}

// InvalidateSnapshot удаляет кэшированный снимок пользователя.
// Вызывается после изменения записи подписки.
func (s *Service) InvalidateSnapshot(userUID string) {
	cacheKey := snapshotCacheKey(userUID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate snapshot cache",
			slog.String("key", cacheKey), sl.Err(err))
	}
}

func (s *Service) getSnapshot(ctx context.Context, userUID string) *models.Snapshot {
	cacheKey := snapshotCacheKey(userUID)

	var cached models.Snapshot
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read snapshot from cache",
			slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return &cached
	}

	snapshot, err := s.repo.GetSnapshot(ctx, userUID)
	if err != nil {
		s.log.Warn("failed to read snapshot from storage",
			slog.String("user_uid", userUID), sl.Err(err))
		return nil
	}

	if err := s.cache.Set(cacheKey, snapshot, snapshotCacheTTL); err != nil {
		s.log.Warn("failed to cache snapshot",
			slog.String("key", cacheKey), sl.Err(err))
	}
	return snapshot
}

func snapshotCacheKey(userUID string) string {
	return fmt.Sprintf("snapshot:%s", userUID)
}
