package entitlement

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/lingua-voice/internal/models"
)

type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) GetSnapshot(ctx context.Context, userUID string) (*models.Snapshot, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Snapshot), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	if snapshot, ok := args.Get(2).(*models.Snapshot); ok {
		*result.(*models.Snapshot) = *snapshot
	}
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestGetDecision_ActiveTrial(t *testing.T) {
	repo := new(MockSnapshotRepository)
	cache := new(MockCache)
	service := New(repo, cache, newNoopLogger())

	snapshot := &models.Snapshot{
		Status:         models.StatusFreeTrial,
		PlanType:       models.PlanFreeTrial,
		TrialStartedAt: time.Now().UTC().AddDate(0, 0, -2),
	}

	cache.On("Get", "snapshot:user-1", mock.Anything).Return(false, nil, nil)
	repo.On("GetSnapshot", mock.Anything, "user-1").Return(snapshot, nil)
	cache.On("Set", "snapshot:user-1", snapshot, time.Minute).Return(nil)

	decision := service.GetDecision(context.Background(), "user-1")

	assert.True(t, decision.IsTrialActive)
	assert.Equal(t, 5, decision.TrialDaysLeft)
	assert.False(t, decision.IsSubscriptionActive)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestGetDecision_CacheHit(t *testing.T) {
	repo := new(MockSnapshotRepository)
	cache := new(MockCache)
	service := New(repo, cache, newNoopLogger())

	now := time.Now().UTC()
	periodStart := now.AddDate(0, 0, -10)
	periodEnd := now.AddDate(0, 0, 20)
	cached := &models.Snapshot{
		Status:         models.StatusActive,
		PlanType:       models.PlanPremium,
		TrialStartedAt: now.AddDate(0, 0, -30),
		PeriodStart:    &periodStart,
		PeriodEnd:      &periodEnd,
	}

	cache.On("Get", "snapshot:user-1", mock.Anything).Return(true, nil, cached)

	decision := service.GetDecision(context.Background(), "user-1")

	assert.True(t, decision.IsSubscriptionActive)
	assert.True(t, decision.IsPremium)
	repo.AssertNotCalled(t, "GetSnapshot", mock.Anything, mock.Anything)
}

func TestGetDecision_StorageErrorDegrades(t *testing.T) {
	repo := new(MockSnapshotRepository)
	cache := new(MockCache)
	service := New(repo, cache, newNoopLogger())

	cache.On("Get", "snapshot:user-1", mock.Anything).Return(false, nil, nil)
	repo.On("GetSnapshot", mock.Anything, "user-1").Return(nil, errors.New("connection refused"))

	decision := service.GetDecision(context.Background(), "user-1")

	// при недоступном хранилище пользователь остается без активных прав
	assert.False(t, decision.IsTrialActive)
	assert.False(t, decision.IsSubscriptionActive)
	assert.False(t, decision.IsPremium)
	assert.Zero(t, decision.TrialDaysLeft)
}

func TestGetDecision_CacheErrorFallsBackToStorage(t *testing.T) {
	repo := new(MockSnapshotRepository)
	cache := new(MockCache)
	service := New(repo, cache, newNoopLogger())

	snapshot := &models.Snapshot{
		Status:         models.StatusFreeTrial,
		PlanType:       models.PlanFreeTrial,
		TrialStartedAt: time.Now().UTC(),
	}

	cache.On("Get", "snapshot:user-1", mock.Anything).Return(false, errors.New("redis down"), nil)
	repo.On("GetSnapshot", mock.Anything, "user-1").Return(snapshot, nil)
	cache.On("Set", "snapshot:user-1", snapshot, time.Minute).Return(nil)

	decision := service.GetDecision(context.Background(), "user-1")

	assert.True(t, decision.IsTrialActive)
	repo.AssertExpectations(t)
}

func TestHasFeatureAccess(t *testing.T) {
	tests := []struct {
		name     string
		snapshot *models.Snapshot
		feature  string
		want     bool
	}{
		{
			name: "пробный период открывает генерацию речи",
			snapshot: &models.Snapshot{
				Status:         models.StatusFreeTrial,
				PlanType:       models.PlanFreeTrial,
				TrialStartedAt: time.Now().UTC(),
			},
			feature: "voice_generation",
			want:    true,
		},
		{
			name: "истекший пробный период закрывает генерацию речи",
			snapshot: &models.Snapshot{
				Status:         models.StatusFreeTrial,
				PlanType:       models.PlanFreeTrial,
				TrialStartedAt: time.Now().UTC().AddDate(0, 0, -30),
			},
			feature: "voice_generation",
			want:    false,
		},
		{
			name: "неизвестная функция недоступна",
			snapshot: &models.Snapshot{
				Status:         models.StatusFreeTrial,
				PlanType:       models.PlanFreeTrial,
				TrialStartedAt: time.Now().UTC(),
			},
			feature: "teleportation",
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockSnapshotRepository)
			cache := new(MockCache)
			service := New(repo, cache, newNoopLogger())

			cache.On("Get", mock.Anything, mock.Anything).Return(false, nil, nil)
			repo.On("GetSnapshot", mock.Anything, "user-1").Return(tt.snapshot, nil)
			cache.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil)

			got := service.HasFeatureAccess(context.Background(), "user-1", tt.feature)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInvalidateSnapshot(t *testing.T) {
	repo := new(MockSnapshotRepository)
	cache := new(MockCache)
	service := New(repo, cache, newNoopLogger())

	cache.On("Invalidate", "snapshot:user-1").Return(nil)

	service.InvalidateSnapshot("user-1")
	cache.AssertExpectations(t)
}
