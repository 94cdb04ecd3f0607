package voice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/lingua-voice/internal/models"
)

type MockSynthesizer struct {
	mock.Mock
}

func (m *MockSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetBytes(key string) ([]byte, bool, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.Bool(1), args.Error(2)
}

func (m *MockCache) SetBytes(key string, value []byte, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishVoiceUsage(event models.VoiceUsageEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestGenerateAudio_SingleChunk(t *testing.T) {
	synth := new(MockSynthesizer)
	cache := new(MockCache)
	service := New(synth, cache, nil, newNoopLogger(), 200, 0)

	cache.On("GetBytes", mock.Anything).Return(nil, false, nil)
	synth.On("Synthesize", mock.Anything, "Hola mundo.").Return([]byte{0x01, 0x02}, nil)
	cache.On("SetBytes", mock.Anything, []byte{0x01, 0x02}, time.Hour).Return(nil)

	audio, chars, err := service.GenerateAudio(context.Background(), "user-1", "Hola mundo.")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02}, audio)
	assert.Equal(t, len([]rune("Hola mundo.")), chars)
	synth.AssertExpectations(t)
}

func TestGenerateAudio_ConcatPreservesOrder(t *testing.T) {
	synth := new(MockSynthesizer)
	cache := new(MockCache)
	service := New(synth, cache, nil, newNoopLogger(), 12, 0)

	// "Uno dos. Tres cuatro." при лимите 12 рун нарезается на два предложения
	cache.On("GetBytes", mock.Anything).Return(nil, false, nil)
	synth.On("Synthesize", mock.Anything, "Uno dos.").Return([]byte{0x01}, nil)
	synth.On("Synthesize", mock.Anything, "Tres cuatro.").Return([]byte{0x02}, nil)
	cache.On("SetBytes", mock.Anything, []byte{0x01, 0x02}, time.Hour).Return(nil)

	audio, _, err := service.GenerateAudio(context.Background(), "user-1", "Uno dos. Tres cuatro.")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02}, audio)
}

func TestGenerateAudio_SkipsFailedChunk(t *testing.T) {
	synth := new(MockSynthesizer)
	cache := new(MockCache)
	publisher := new(MockPublisher)
	service := New(synth, cache, publisher, newNoopLogger(), 12, 0)

	cache.On("GetBytes", mock.Anything).Return(nil, false, nil)
	synth.On("Synthesize", mock.Anything, "Uno dos.").Return([]byte{0x01}, nil)
	synth.On("Synthesize", mock.Anything, "Tres cuatro.").Return(nil, errors.New("rate limited"))
	synth.On("Synthesize", mock.Anything, "Cinco seis.").Return([]byte{0x03}, nil)
	cache.On("SetBytes", mock.Anything, []byte{0x01, 0x03}, time.Hour).Return(nil)
	publisher.On("PublishVoiceUsage", mock.MatchedBy(func(e models.VoiceUsageEvent) bool {
		return e.UserUID == "user-1" && e.Chunks == 2 && e.Skipped == 1
	})).Return(nil)

	audio, _, err := service.GenerateAudio(context.Background(), "user-1",
		"Uno dos. Tres cuatro. Cinco seis.")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x03}, audio)
	publisher.AssertExpectations(t)
}

func TestGenerateAudio_AllChunksFailed(t *testing.T) {
	synth := new(MockSynthesizer)
	cache := new(MockCache)
	service := New(synth, cache, nil, newNoopLogger(), 200, 0)

	cache.On("GetBytes", mock.Anything).Return(nil, false, nil)
	synth.On("Synthesize", mock.Anything, mock.Anything).Return(nil, errors.New("service down"))

	audio, chars, err := service.GenerateAudio(context.Background(), "user-1", "Hola mundo.")
	require.ErrorIs(t, err, ErrAllChunksFailed)
	assert.Nil(t, audio)
	assert.Zero(t, chars)
}

func TestGenerateAudio_EmptyText(t *testing.T) {
	synth := new(MockSynthesizer)
	cache := new(MockCache)
	service := New(synth, cache, nil, newNoopLogger(), 200, 0)

	tests := []struct {
		name string
		text string
	}{
		{name: "пустая строка", text: ""},
		{name: "только пробелы", text: "   \n\t  "},
		{name: "только эмодзи и разметка", text: "🔥 ** ## 😀"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			audio, chars, err := service.GenerateAudio(context.Background(), "user-1", tt.text)
			require.ErrorIs(t, err, ErrEmptyText)
			assert.Nil(t, audio)
			assert.Zero(t, chars)
		})
	}

	synth.AssertNotCalled(t, "Synthesize", mock.Anything, mock.Anything)
}

func TestGenerateAudio_CacheHit(t *testing.T) {
	synth := new(MockSynthesizer)
	cache := new(MockCache)
	service := New(synth, cache, nil, newNoopLogger(), 200, 0)

	cached := []byte{0xAA, 0xBB}
	cache.On("GetBytes", mock.Anything).Return(cached, true, nil)

	audio, chars, err := service.GenerateAudio(context.Background(), "user-1", "Hola mundo.")
	require.NoError(t, err)
	assert.Equal(t, cached, audio)
	assert.Equal(t, len([]rune("Hola mundo.")), chars)
	synth.AssertNotCalled(t, "Synthesize", mock.Anything, mock.Anything)
}

func TestGenerateAudio_SameTextSameCacheKey(t *testing.T) {
	synth := new(MockSynthesizer)
	cache := new(MockCache)
	service := New(synth, cache, nil, newNoopLogger(), 200, 0)

	var firstKey string
	cache.On("GetBytes", mock.Anything).Run(func(args mock.Arguments) {
		if firstKey == "" {
			firstKey = args.String(0)
		} else {
			assert.Equal(t, firstKey, args.String(0))
		}
	}).Return(nil, false, nil)
	synth.On("Synthesize", mock.Anything, mock.Anything).Return([]byte{0x01}, nil)
	cache.On("SetBytes", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	// разметка убирается нормализацией, текст совпадает
	_, _, err := service.GenerateAudio(context.Background(), "user-1", "**Hola** mundo.")
	require.NoError(t, err)
	_, _, err = service.GenerateAudio(context.Background(), "user-1", "Hola mundo.")
	require.NoError(t, err)
}

func TestGenerateAudio_ContextCancelledBetweenChunks(t *testing.T) {
	synth := new(MockSynthesizer)
	cache := new(MockCache)
	service := New(synth, cache, nil, newNoopLogger(), 12, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())

	cache.On("GetBytes", mock.Anything).Return(nil, false, nil)
	synth.On("Synthesize", mock.Anything, "Uno dos.").Run(func(_ mock.Arguments) {
		cancel()
	}).Return([]byte{0x01}, nil)

	audio, _, err := service.GenerateAudio(ctx, "user-1", "Uno dos. Tres cuatro.")
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, audio)
	synth.AssertNotCalled(t, "Synthesize", mock.Anything, "Tres cuatro.")
}

func TestGenerateAudio_PublisherErrorIsNotFatal(t *testing.T) {
	synth := new(MockSynthesizer)
	cache := new(MockCache)
	publisher := new(MockPublisher)
	service := New(synth, cache, publisher, newNoopLogger(), 200, 0)

	cache.On("GetBytes", mock.Anything).Return(nil, false, nil)
	synth.On("Synthesize", mock.Anything, mock.Anything).Return([]byte{0x01}, nil)
	cache.On("SetBytes", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	publisher.On("PublishVoiceUsage", mock.Anything).Return(errors.New("broker down"))

	audio, _, err := service.GenerateAudio(context.Background(), "user-1", "Hola mundo.")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01}, audio)
}

func TestProcessedPreview(t *testing.T) {
	service := New(new(MockSynthesizer), new(MockCache), nil, newNoopLogger(), 200, 0)

	assert.Equal(t, "Hola mundo.", service.ProcessedPreview("**Hola** mundo.", 120))
	assert.Equal(t, "Hola", service.ProcessedPreview("Hola mundo.", 4))
	assert.Equal(t, "", service.ProcessedPreview("   ", 120))
}
