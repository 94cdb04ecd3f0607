package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/lingua-voice/internal/models"
)

// GetSnapshot собирает снимок состояния подписки пользователя.
// Для пользователя без оплаченной подписки возвращается снимок
// с дефолтным статусом free_trial и пустыми границами периода.
func (s *Storage) GetSnapshot(ctx context.Context, userUID string) (*models.Snapshot, error) {
	const op = "storage.GetSnapshot"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT u.trial_started_at, s.status, s.plan_type, s.period_start, s.period_end
			  FROM users u
			  LEFT JOIN subscriptions s ON s.user_uid = u.uid
			  WHERE u.uid = $1`
	row := s.DB.QueryRowContext(ctx, query, userUID)

	var snapshot models.Snapshot
	var status, planType sql.NullString
	var periodStart, periodEnd sql.NullTime
	if err := row.Scan(&snapshot.TrialStartedAt, &status, &planType,
		&periodStart, &periodEnd); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	snapshot.Status = models.StatusFreeTrial
	snapshot.PlanType = models.PlanFreeTrial
	if status.Valid {
		snapshot.Status = status.String
	}
	if planType.Valid {
		snapshot.PlanType = planType.String
	}
	if periodStart.Valid {
		snapshot.PeriodStart = &periodStart.Time
	}
	if periodEnd.Valid {
		snapshot.PeriodEnd = &periodEnd.Time
	}
	return &snapshot, nil
}

// UpsertSubscription создаёт или обновляет запись оплаченной подписки пользователя.
// Вызывается обработчиком вебхуков платёжного провайдера.
func (s *Storage) UpsertSubscription(ctx context.Context, sub models.Subscription) error {
	const op = "storage.UpsertSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (user_uid, status, plan_type, period_start, period_end)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (user_uid) DO UPDATE
			  SET status = EXCLUDED.status,
			      plan_type = EXCLUDED.plan_type,
			      period_start = EXCLUDED.period_start,
			      period_end = EXCLUDED.period_end`
	if _, err := s.DB.ExecContext(ctx, query,
		sub.UserUID, sub.Status, sub.PlanType, sub.PeriodStart, sub.PeriodEnd); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateSubscriptionStatus обновляет статус подписки пользователя.
func (s *Storage) UpdateSubscriptionStatus(ctx context.Context, userUID, status string) error {
	const op = "storage.UpdateSubscriptionStatus"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET status = $1
			  WHERE user_uid = $2`
	if _, err := s.DB.ExecContext(ctx, query, status, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
