// Package linguavoice предоставляет маршруты для основного приложения.
package linguavoice

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/lingua-voice/internal/cache"
	"github.com/magabrotheeeer/lingua-voice/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/lingua-voice/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/lingua-voice/internal/http/handlers/entitlement/features"
	"github.com/magabrotheeeer/lingua-voice/internal/http/handlers/voice/generate"
	"github.com/magabrotheeeer/lingua-voice/internal/http/handlers/voice/generatejson"
	"github.com/magabrotheeeer/lingua-voice/internal/http/handlers/voice/health"
	"github.com/magabrotheeeer/lingua-voice/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/lingua-voice/internal/services/auth"
	entitlementservice "github.com/magabrotheeeer/lingua-voice/internal/services/entitlement"
	voiceservice "github.com/magabrotheeeer/lingua-voice/internal/services/voice"
	"github.com/magabrotheeeer/lingua-voice/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, db *repository.Storage, cacheRedis *cache.Cache,
	authService *authservice.Service, entitlementService *entitlementservice.Service,
	voiceService *voiceservice.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Get("/health", health.New(logger, db, cacheRedis).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/entitlements", features.New(logger, entitlementService).ServeHTTP)

			// Озвучивание доступно только при активном пробном периоде или подписке
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.FeatureGateMiddleware(entitlementService, "voice_generation", logger))
				r.Post("/voice", generate.New(logger, voiceService).ServeHTTP)
				r.Post("/voice/base64", generatejson.New(logger, voiceService).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
