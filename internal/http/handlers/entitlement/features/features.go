// Package features реализует HTTP-обработчик для получения прав доступа
// пользователя к функциям продукта.
package features

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lingua-voice/internal/entitlement"
	"github.com/magabrotheeeer/lingua-voice/internal/http/middlewarectx"
	"github.com/magabrotheeeer/lingua-voice/internal/http/response"
)

// Service определяет методы бизнес-логики для вычисления прав доступа.
type Service interface {
	GetDecision(ctx context.Context, userUID string) entitlement.Decision
}

// Handler обрабатывает HTTP-запросы получения прав доступа пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Права доступа пользователя
// @Description Возвращает состояние пробного периода, подписки и флаги доступных функций
// @Tags Entitlements
// @Produce  json
// @Success 200 {object} map[string]any "Права доступа"
// @Failure 401 {object} response.ErrorResponse "Отсутствует авторизация"
// @Security BearerAuth
// @Router /entitlements [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.entitlement.features"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("missing user uid in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	decision := h.service.GetDecision(r.Context(), userUID)

	log.Info("entitlements evaluated",
		slog.String("user_uid", userUID),
		slog.Bool("is_trial_active", decision.IsTrialActive),
		slog.Bool("is_subscription_active", decision.IsSubscriptionActive))

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"is_trial_active":        decision.IsTrialActive,
		"trial_days_left":        decision.TrialDaysLeft,
		"is_subscription_active": decision.IsSubscriptionActive,
		"is_premium":             decision.IsPremium,
		"features":               decision.FeatureFlags(),
	}))
}
