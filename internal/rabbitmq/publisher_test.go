package rabbitmq

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/lingua-voice/internal/models"
)

type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(exchange, key, mandatory, immediate, msg)
	return args.Error(0)
}

func TestPublishVoiceUsage(t *testing.T) {
	event := models.VoiceUsageEvent{
		UserUID: "user-123",
		Chars:   150,
		Chunks:  2,
		Skipped: 0,
	}
	body, err := json.Marshal(event)
	require.NoError(t, err)

	tests := []struct {
		name       string
		publishErr error
		wantErr    bool
	}{
		{
			name:       "успешная публикация события",
			publishErr: nil,
			wantErr:    false,
		},
		{
			name:       "ошибка публикации",
			publishErr: errors.New("channel closed"),
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := new(MockChannel)
			ch.On("Publish", "usage", "voice.generated", false, false, amqp.Publishing{
				ContentType:  "application/json",
				Body:         body,
				DeliveryMode: amqp.Persistent,
			}).Return(tt.publishErr)

			publisher := NewPublisher(ch)
			err := publisher.PublishVoiceUsage(event)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			ch.AssertExpectations(t)
		})
	}
}
