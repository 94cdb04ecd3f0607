package linguavoice

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/lingua-voice/internal/cache"
	"github.com/magabrotheeeer/lingua-voice/internal/config"
	"github.com/magabrotheeeer/lingua-voice/internal/lib/jwt"
	"github.com/magabrotheeeer/lingua-voice/internal/lib/sl"
	"github.com/magabrotheeeer/lingua-voice/internal/migrations"
	"github.com/magabrotheeeer/lingua-voice/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/lingua-voice/internal/services/auth"
	entitlementservice "github.com/magabrotheeeer/lingua-voice/internal/services/entitlement"
	voiceservice "github.com/magabrotheeeer/lingua-voice/internal/services/voice"
	"github.com/magabrotheeeer/lingua-voice/internal/storage/repository"
	"github.com/magabrotheeeer/lingua-voice/internal/tts"
)

// App инкапсулирует HTTP-сервер и зависимости приложения.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

// New собирает приложение: хранилище, миграции, кэш, сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.New(db, jwtMaker)
	entitlementService := entitlementservice.New(db, cacheRedis, logger)

	// Публикация событий об использовании синтеза опциональна:
	// без настроенного брокера сервис работает, события не отправляются.
	var usagePublisher voiceservice.UsagePublisher
	if cfg.AmqpConnection != "" {
		conn, err := rabbitmq.Connect(cfg.AmqpConnection, 5, 2*time.Second)
		if err != nil {
			logger.Warn("rabbitmq is unavailable, usage events disabled", sl.Err(err))
		} else {
			ch, err := rabbitmq.SetupChannel(conn)
			if err != nil {
				logger.Warn("failed to setup rabbitmq channel, usage events disabled", sl.Err(err))
			} else {
				usagePublisher = rabbitmq.NewPublisher(ch)
			}
		}
	}

	ttsClient := tts.NewClient(cfg.TTSClient)
	voiceService := voiceservice.New(ttsClient, cacheRedis, usagePublisher,
		logger, cfg.MaxChunkLen, cfg.ChunkDelay)

	router := chi.NewRouter()

	RegisterRoutes(router, logger, db, cacheRedis, authService, entitlementService, voiceService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

// Run запускает HTTP-сервер и корректно останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		return err
	}
}
