package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/lingua-voice/internal/models"
)

// Channel описывает операцию публикации сообщения в RabbitMQ.
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher публикует события об использовании синтеза речи.
type Publisher struct {
	ch Channel
}

// NewPublisher создает нового издателя событий.
func NewPublisher(ch Channel) *Publisher {
	return &Publisher{ch: ch}
}

// PublishVoiceUsage публикует событие о сгенерированном аудио.
func (p *Publisher) PublishVoiceUsage(event models.VoiceUsageEvent) error {
	const op = "rabbitmq.PublishVoiceUsage"
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.ch.Publish(
		"usage",
		"voice.generated",
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
