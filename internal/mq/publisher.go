package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shaiso/Flowlens/internal/domain"
)

// MessageType — тип сообщения в очереди.
type MessageType string

// Типы сообщений.
const (
	MessageTypeValidationRequested MessageType = "validation.requested"
	MessageTypeValidationCompleted MessageType = "validation.completed"
)

// Publisher публикует сообщения в RabbitMQ.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// Message — сообщение для публикации.
type Message struct {
	// ID — уникальный идентификатор сообщения.
	ID string `json:"id"`

	// Type — тип сообщения.
	Type MessageType `json:"type"`

	// Payload — полезная нагрузка.
	Payload any `json:"payload"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// ValidationRequestedPayload — payload для запроса проверки.
// Спецификация передаётся целиком: worker не обращается к хранилищу API.
type ValidationRequestedPayload struct {
	ValidationID uuid.UUID           `json:"validation_id"`
	Spec         domain.PipelineSpec `json:"spec"`
}

// ValidationCompletedPayload — payload для завершённой проверки.
type ValidationCompletedPayload struct {
	ValidationID uuid.UUID               `json:"validation_id"`
	Status       domain.ValidationStatus `json:"status"`
	Result       *domain.Result          `json:"result,omitempty"`
	Error        string                  `json:"error,omitempty"`
}

// Publish публикует сообщение в указанный exchange с routing key.
func (p *Publisher) Publish(ctx context.Context, exchange Exchange, routingKey RoutingKey, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			string(exchange),   // exchange
			string(routingKey), // routing key
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent, // сообщение переживёт рестарт RabbitMQ
				MessageId:    msg.ID,
				Timestamp:    msg.Timestamp,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", exchange, routingKey, err)
		}

		p.logger.Debug("published message",
			"exchange", exchange,
			"routing_key", routingKey,
			"message_id", msg.ID,
			"type", msg.Type,
		)

		return nil
	})
}

// PublishValidationRequested публикует запрос на проверку спецификации.
// Потребитель: Worker.
func (p *Publisher) PublishValidationRequested(ctx context.Context, validationID uuid.UUID, spec domain.PipelineSpec) error {
	msg := &Message{
		ID:        uuid.New().String(),
		Type:      MessageTypeValidationRequested,
		Payload:   ValidationRequestedPayload{ValidationID: validationID, Spec: spec},
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, ExchangeValidations, RoutingKeyRequested, msg)
}

// PublishValidationCompleted публикует событие о завершённой проверке.
// Потребитель: API (обновление статуса в хранилище).
func (p *Publisher) PublishValidationCompleted(ctx context.Context, payload ValidationCompletedPayload) error {
	msg := &Message{
		ID:        uuid.New().String(),
		Type:      MessageTypeValidationCompleted,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, ExchangeValidations, RoutingKeyCompleted, msg)
}

// PublishJSON публикует произвольный JSON payload.
func (p *Publisher) PublishJSON(ctx context.Context, exchange Exchange, routingKey RoutingKey, msgType MessageType, payload any) error {
	msg := &Message{
		ID:        uuid.New().String(),
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, exchange, routingKey, msg)
}
