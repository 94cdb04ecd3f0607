// Package generatejson реализует HTTP-обработчик озвучивания текста
// с ответом в формате JSON: аудио кодируется в base64. Формат удобен
// для мобильных клиентов, которые не умеют работать с потоковым телом.
package generatejson

import (
	"context"
	"encoding/base64"
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

// previewLimit ограничивает длину превью нормализованного текста в ответе.
const previewLimit = 120

// fallbackMessage возвращается клиенту при недоступности синтеза,
// чтобы приложение могло показать текст вместо аудио.
const fallbackMessage = "Lo siento, no puedo generar el audio en este momento."

// Request — входные данные для озвучивания. Поле voice принимается
// для совместимости с клиентами, язык синтеза задаётся конфигурацией сервера.
type Request struct {
	Text  string `json:"text" validate:"required"`
	Voice string `json:"voice"`
}

// Response — ответ с закодированным аудио
type Response struct {
	Success       bool   `json:"success"`
	AudioContent  string `json:"audioContent"`
	MimeType      string `json:"mimeType"`
	ProcessedText string `json:"processedText"`
}

// Service определяет методы бизнес-логики для озвучивания текста.
type Service interface {
	GenerateAudio(ctx context.Context, userUID, text string) ([]byte, int, error)
	ProcessedPreview(text string, limit int) string
}

// Handler обрабатывает HTTP-запросы озвучивания текста с JSON-ответом.
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
// @Summary Озвучивание текста с ответом в JSON
// @Description Нормализует текст, озвучивает его и возвращает MP3 в base64
// @Tags Voice
// @Accept  json
// @Produce  json
// @Param request body Request true "Текст для озвучивания"
// @Success 200 {object} Response "Аудио в base64"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON, отсутствующий или пустой текст"
// @Failure 401 {object} response.ErrorResponse "Отсутствует авторизация"
// @Failure 500 {object} map[string]string "Ошибка генерации с текстом-заглушкой"
// @Security BearerAuth
// @Router /voice/base64 [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.voice.generatejson"

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
		render.JSON(w, r, map[string]string{
			"error":    "could not generate audio",
			"fallback": fallbackMessage,
		})
		return
	}

	log.Info("audio generated",
		slog.String("user_uid", userUID),
		slog.Int("chars", chars),
		slog.Int("bytes", len(audio)))

	render.JSON(w, r, Response{
		Success:       true,
		AudioContent:  base64.StdEncoding.EncodeToString(audio),
		MimeType:      "audio/mpeg",
		ProcessedText: h.service.ProcessedPreview(req.Text, previewLimit),
	})
}
