// Package generate реализует HTTP-обработчик озвучивания текста.
// Обработчик возвращает готовый MP3-поток в теле ответа.
package generate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/lingua-voice/internal/http/middlewarectx"
	"github.com/magabrotheeeer/lingua-voice/internal/http/response"
	"github.com/magabrotheeeer/lingua-voice/internal/lib/sl"
	"github.com/magabrotheeeer/lingua-voice/internal/services/voice"
)

// Request — входные данные для озвучивания
type Request struct {
	Text string `json:"text" validate:"required"`
}

// Service определяет методы бизнес-логики для озвучивания текста.
type Service interface {
	GenerateAudio(ctx context.Context, userUID, text string) ([]byte, int, error)
}

// Handler обрабатывает HTTP-запросы озвучивания текста.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Озвучивание текста
// @Description Нормализует текст, озвучивает его и возвращает MP3-файл
// @Tags Voice
// @Accept  json
// @Produce  audio/mpeg
// @Param request body Request true "Текст для озвучивания"
// @Success 200 {file} byte "MP3-файл"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON, отсутствующий или пустой текст"
// @Failure 401 {object} response.ErrorResponse "Отсутствует авторизация"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при генерации аудио"
// @Security BearerAuth
// @Router /voice [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.voice.generate"

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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	// Отсутствующий текст — ошибка запроса, а не валидации полей.
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	audio, chars, err := h.service.GenerateAudio(r.Context(), userUID, req.Text)
	if err != nil {
		if errors.Is(err, voice.ErrEmptyText) {
			log.Warn("empty text after normalization")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("text is empty after normalization"))
			return
		}
		log.Error("failed to generate audio", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not generate audio"))
		return
	}

	log.Info("audio generated",
		slog.String("user_uid", userUID),
		slog.Int("chars", chars),
		slog.Int("bytes", len(audio)))

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Disposition", "inline; filename=voice.mp3")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(audio)
}
