package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"outland-server/internal/models"
)

// ResolutionEventPublisher defines the interface for publishing committed
// resolver outcomes to the log sink. Delivery is best-effort: a publish
// failure never rolls back the already-committed account mutation.
type ResolutionEventPublisher interface {
	PublishResolution(ctx context.Context, entry *models.ResolutionLog) error
}

// rabbitMQPublisher implements ResolutionEventPublisher for RabbitMQ.
type rabbitMQPublisher struct {
	channel   *amqp.Channel
	queueName string
}

// NewRabbitMQResolutionPublisher создает паблишер для очереди логов резолвов.
// Объявляет durable очередь сам, чтобы система была устойчива к порядку
// запуска сервисов; параметры должны совпадать с консьюмером отчетности.
func NewRabbitMQResolutionPublisher(conn *amqp.Connection, queueName string) (ResolutionEventPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("resolution publisher: не удалось открыть канал: %w", err)
	}
	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		log.Printf("ResolutionPublisher ERROR: Не удалось объявить очередь '%s': %v", queueName, err)
		ch.Close()
		return nil, fmt.Errorf("resolution publisher: не удалось объявить очередь '%s': %w", queueName, err)
	}
	log.Printf("ResolutionPublisher: очередь '%s' успешно объявлена/найдена", queueName)
	return &rabbitMQPublisher{channel: ch, queueName: queueName}, nil
}

// PublishResolution publishes one resolution record as a JSON message.
func (p *rabbitMQPublisher) PublishResolution(ctx context.Context, entry *models.ResolutionLog) error {
	body, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("ошибка сериализации лога резолва %s: %w", entry.ID, err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(pubCtx,
		"",          // exchange
		p.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("ошибка публикации лога резолва %s: %w", entry.ID, err)
	}
	return nil
}
