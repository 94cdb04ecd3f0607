// Package voice содержит логику бизнес-уровня для озвучивания текста.
// Текст нормализуется, нарезается на чанки и последовательно
// отправляется в сервис синтеза речи, после чего аудиофрагменты
// склеиваются в один MP3-поток.
package voice

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/magabrotheeeer/lingua-voice/internal/lib/sl"
	"github.com/magabrotheeeer/lingua-voice/internal/lib/speechtext"
	"github.com/magabrotheeeer/lingua-voice/internal/models"
)

// audioCacheTTL ограничивает время жизни готового аудио в кэше.
const audioCacheTTL = time.Hour

var (
	// ErrEmptyText возвращается, если после нормализации текст пуст.
	ErrEmptyText = errors.New("text is empty after normalization")
	// ErrAllChunksFailed возвращается, если ни один чанк не удалось озвучить.
	ErrAllChunksFailed = errors.New("all chunks failed to synthesize")
)

var (
	chunksSynthesizedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "voice_chunks_synthesized_total",
		Help: "Количество успешно озвученных чанков текста.",
	})
	chunksSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "voice_chunks_skipped_total",
		Help: "Количество чанков, пропущенных из-за ошибок синтеза.",
	})
	audioCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "voice_audio_cache_hits_total",
		Help: "Количество запросов, обслуженных из кэша аудио.",
	})
)

func init() {
	prometheus.MustRegister(chunksSynthesizedTotal, chunksSkippedTotal, audioCacheHitsTotal)
}

// Synthesizer описывает контракт клиента сервиса синтеза речи.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Cache описывает контракт кэширования готового аудио.
type Cache interface {
	GetBytes(key string) ([]byte, bool, error)
	SetBytes(key string, value []byte, expiration time.Duration) error
}

// UsagePublisher описывает контракт публикации событий об использовании синтеза.
type UsagePublisher interface {
	PublishVoiceUsage(event models.VoiceUsageEvent) error
}

// Service озвучивает текст через внешний сервис синтеза речи.
type Service struct {
	synthesizer Synthesizer
	cache       Cache
	publisher   UsagePublisher
	log         *slog.Logger

	maxChunkLen int
	chunkDelay  time.Duration
}

// New создает новый экземпляр Service. publisher может быть nil,
// если публикация событий не настроена.
func New(synthesizer Synthesizer, cache Cache, publisher UsagePublisher,
	log *slog.Logger, maxChunkLen int, chunkDelay time.Duration) *Service {
	if maxChunkLen <= 0 {
		maxChunkLen = speechtext.DefaultMaxChunkLen
	}
	return &Service{
		synthesizer: synthesizer,
		cache:       cache,
		publisher:   publisher,
		log:         log,
		maxChunkLen: maxChunkLen,
		chunkDelay:  chunkDelay,
	}
}

// GenerateAudio нормализует текст, озвучивает его по чанкам и возвращает
// склеенный MP3-поток вместе с количеством озвученных символов.
// Ошибки отдельных чанков не прерывают генерацию: неудачные фрагменты
// пропускаются, ошибка возвращается только если не удалось озвучить
// ни одного чанка.
func (s *Service) GenerateAudio(ctx context.Context, userUID, rawText string) ([]byte, int, error) {
	const op = "voice.GenerateAudio"

	normalized := speechtext.Normalize(rawText)
	if normalized == "" {
		return nil, 0, ErrEmptyText
	}

	cacheKey := audioCacheKey(normalized)
	if cached, found, err := s.cache.GetBytes(cacheKey); err != nil {
		s.log.Warn("failed to read audio from cache",
			slog.String("key", cacheKey), sl.Err(err))
	} else if found {
		audioCacheHitsTotal.Inc()
		s.log.Info("audio served from cache", slog.String("key", cacheKey))
		return cached, len([]rune(normalized)), nil
	}

	chunks := speechtext.Chunk(normalized, s.maxChunkLen)

	var audio bytes.Buffer
	var synthesized, skipped int
	for i, chunk := range chunks {
		if i > 0 && s.chunkDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, 0, fmt.Errorf("%s: %w", op, ctx.Err())
			case <-time.After(s.chunkDelay):
			}
		}

		fragment, err := s.synthesizer.Synthesize(ctx, chunk)
		if err != nil {
			if ctx.Err() != nil {
				return nil, 0, fmt.Errorf("%s: %w", op, ctx.Err())
			}
			skipped++
			chunksSkippedTotal.Inc()
			s.log.Warn("failed to synthesize chunk, skipping",
				slog.Int("chunk_index", i),
				slog.Int("chunk_size", len([]rune(chunk))),
				sl.Err(err))
			continue
		}
		synthesized++
		chunksSynthesizedTotal.Inc()
		audio.Write(fragment)
	}

	if synthesized == 0 {
		return nil, 0, fmt.Errorf("%s: %w", op, ErrAllChunksFailed)
	}

	result := audio.Bytes()
	if err := s.cache.SetBytes(cacheKey, result, audioCacheTTL); err != nil {
		s.log.Warn("failed to cache audio",
			slog.String("key", cacheKey), sl.Err(err))
	}

	s.publishUsage(userUID, normalized, synthesized, skipped)

	s.log.Info("audio generated",
		slog.Int("chunks", synthesized),
		slog.Int("skipped", skipped),
		slog.Int("bytes", len(result)))

	return result, len([]rune(normalized)), nil
}

// ProcessedPreview возвращает нормализованный текст, усеченный до limit рун.
func (s *Service) ProcessedPreview(rawText string, limit int) string {
	normalized := speechtext.Normalize(rawText)
	runes := []rune(normalized)
	if len(runes) <= limit {
		return normalized
	}
	return string(runes[:limit])
}

func (s *Service) publishUsage(userUID, normalized string, synthesized, skipped int) {
	if s.publisher == nil {
		return
	}
	event := models.VoiceUsageEvent{
		UserUID: userUID,
		Chars:   len([]rune(normalized)),
		Chunks:  synthesized,
		Skipped: skipped,
	}
	if err := s.publisher.PublishVoiceUsage(event); err != nil {
		s.log.Warn("failed to publish usage event",
			slog.String("user_uid", userUID), sl.Err(err))
	}
}

func audioCacheKey(normalized string) string {
	return fmt.Sprintf("voice:%x", sha256.Sum256([]byte(normalized)))
}
