// Package health реализует HTTP-обработчик проверки работоспособности сервиса.
package health

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lingua-voice/internal/cache"
	"github.com/magabrotheeeer/lingua-voice/internal/http/response"
	"github.com/magabrotheeeer/lingua-voice/internal/storage/repository"
)

// Handler возвращает статус сервиса и его зависимостей.
type Handler struct {
	log     *slog.Logger
	storage *repository.Storage
	cache   *cache.Cache
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, storage *repository.Storage, cache *cache.Cache) *Handler {
	return &Handler{
		log:     log,
		storage: storage,
		cache:   cache,
	}
}

// ServeHTTP godoc
// @Summary Проверка работоспособности
// @Description Возвращает статус сервиса и его зависимостей
// @Tags Health
// @Produce  json
// @Success 200 {object} map[string]any "Статус сервиса"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status": "ok",
	}

	if err := h.storage.DB.PingContext(r.Context()); err != nil {
		status["database"] = "unavailable"
	} else {
		status["database"] = "ok"
	}
	if err := h.cache.Db.Ping(r.Context()).Err(); err != nil {
		status["cache"] = "unavailable"
	} else {
		status["cache"] = "ok"
	}

	w.WriteHeader(http.StatusOK)
	render.JSON(w, r, response.StatusOKWithData(status))
}
