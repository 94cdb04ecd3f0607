// Package tts реализует клиент внешнего сервиса синтеза речи.
// Клиент отправляет GET-запрос к endpoint translate_tts и получает
// аудиофрагмент в формате MP3 для одного чанка текста.
package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/magabrotheeeer/lingua-voice/internal/config"
)

// SynthesisError описывает неуспешный ответ сервиса синтеза речи.
type SynthesisError struct {
	StatusCode int
	Body       string
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("tts: unexpected status %d", e.StatusCode)
}

// Client выполняет запросы к сервису синтеза речи.
type Client struct {
	baseURL    string
	lang       string
	userAgent  string
	httpClient *http.Client
}

// NewClient создаёт новый клиент синтеза речи.
func NewClient(cfg config.TTSClient) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		lang:       cfg.Language,
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
	}
}

// Synthesize озвучивает один чанк текста и возвращает MP3-байты.
// Текст чанка не должен превышать лимит длины внешнего сервиса.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	const op = "tts.Synthesize"

	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("q", text)
	params.Set("tl", c.lang)
	params.Set("client", "tw-ob")
	requestURL := c.baseURL + "/translate_tts?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	// Сервис отклоняет запросы без браузерного User-Agent.
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: %w", op, &SynthesisError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
		})
	}

	return body, nil
}
