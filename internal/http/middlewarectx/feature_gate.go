package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lingua-voice/internal/http/response"
)

// FeatureChecker описывает интерфейс сервиса проверки прав доступа к функциям.
type FeatureChecker interface {
	HasFeatureAccess(ctx context.Context, userUID, feature string) bool
}

// FeatureGateMiddleware возвращает HTTP middleware, который пропускает запрос
// только если пользователю доступна указанная функция. Иначе возвращает
// HTTP 403 Forbidden.
func FeatureGateMiddleware(checker FeatureChecker, feature string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.FeatureGateMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			userUID, ok := r.Context().Value(UserUID).(string)
			if !ok || userUID == "" {
				log.Error("missing user uid in context")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}

			if !checker.HasFeatureAccess(r.Context(), userUID, feature) {
				log.Warn("feature not available",
					slog.String("user_uid", userUID),
					slog.String("feature", feature))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("subscription required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
