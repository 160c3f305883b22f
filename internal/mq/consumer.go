package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler обрабатывает одно доставленное сообщение.
// Ненулевая ошибка возвращает сообщение в очередь на повтор.
type Handler func(ctx context.Context, msg *Delivery) error

// Delivery — доставленное сообщение с подтверждением.
// Каждое сообщение подтверждается ровно один раз: обработчик может
// вызвать Ack/Nack сам, иначе это сделает Consumer по его ошибке.
type Delivery struct {
	// Message — разобранный конверт.
	Message Message

	// Raw — исходная AMQP-доставка.
	Raw amqp.Delivery

	settled bool
}

// Ack подтверждает обработку. Повторный вызов — no-op.
func (d *Delivery) Ack() error {
	if d.settled {
		return nil
	}
	d.settled = true
	return d.Raw.Ack(false)
}

// Nack отклоняет сообщение: requeue=true возвращает в очередь,
// requeue=false отправляет в DLQ. Повторный вызов — no-op.
func (d *Delivery) Nack(requeue bool) error {
	if d.settled {
		return nil
	}
	d.settled = true
	return d.Raw.Nack(false, requeue)
}

// ConsumerConfig — настройки потребителя.
type ConsumerConfig struct {
	// Queue — имя очереди.
	Queue string

	// Handler — обработчик сообщений.
	Handler Handler

	// Prefetch — сколько сообщений брокер выдаёт без подтверждения
	// (default: 1).
	Prefetch int
}

// Consumer читает сообщения из очереди и переживает разрывы соединения:
// при восстановлении соединения подписка настраивается заново.
type Consumer struct {
	conn   *Connection
	logger *slog.Logger
	cfg    ConsumerConfig

	cancel context.CancelFunc
}

// NewConsumer создаёт потребителя очереди cfg.Queue.
func NewConsumer(conn *Connection, logger *slog.Logger, cfg ConsumerConfig) *Consumer {
	if cfg.Prefetch <= 0 {
		cfg.Prefetch = 1
	}

	return &Consumer{
		conn:   conn,
		logger: logger,
		cfg:    cfg,
	}
}

// Start блокирует и потребляет сообщения до отмены контекста.
func (c *Consumer) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		deliveries, err := c.subscribe()
		if err != nil {
			c.logger.Error("subscribe failed", "queue", c.cfg.Queue, "error", err)
			if err := c.awaitReconnect(ctx); err != nil {
				return err
			}
			continue
		}

		c.logger.Info("consuming", "queue", c.cfg.Queue)

		if err := c.drain(ctx, deliveries); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Warn("delivery channel closed", "queue", c.cfg.Queue)
			if err := c.awaitReconnect(ctx); err != nil {
				return err
			}
		}
	}
}

// Stop прерывает потребление.
func (c *Consumer) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
}

// subscribe выставляет prefetch и открывает подписку на очередь.
func (c *Consumer) subscribe() (<-chan amqp.Delivery, error) {
	ch := c.conn.Channel()
	if ch == nil {
		return nil, fmt.Errorf("no channel available")
	}

	if err := ch.Qos(c.cfg.Prefetch, 0, false); err != nil {
		return nil, fmt.Errorf("set qos: %w", err)
	}

	// auto-ack выключен: подтверждаем после обработки
	deliveries, err := ch.Consume(c.cfg.Queue, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("consume: %w", err)
	}

	return deliveries, nil
}

// awaitReconnect ждёт восстановления соединения или отмены контекста.
func (c *Consumer) awaitReconnect(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.conn.ReconnectNotify():
		c.logger.Info("reconnected, resubscribing", "queue", c.cfg.Queue)
		return nil
	}
}

// drain обрабатывает доставки до закрытия канала или отмены контекста.
func (c *Consumer) drain(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case raw, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			c.dispatch(ctx, raw)
		}
	}
}

// dispatch разбирает конверт и вызывает обработчик.
func (c *Consumer) dispatch(ctx context.Context, raw amqp.Delivery) {
	var msg Message
	if err := json.Unmarshal(raw.Body, &msg); err != nil {
		c.logger.Error("malformed message envelope",
			"queue", c.cfg.Queue,
			"error", err,
		)
		// Конверт не разобрать — повтор бессмыслен, уходит в DLQ
		raw.Nack(false, false)
		return
	}

	c.logger.Debug("message received",
		"queue", c.cfg.Queue,
		"message_id", msg.ID,
		"type", msg.Type,
	)

	delivery := &Delivery{Message: msg, Raw: raw}

	if err := c.cfg.Handler(ctx, delivery); err != nil {
		c.logger.Error("handler failed",
			"queue", c.cfg.Queue,
			"message_id", msg.ID,
			"type", msg.Type,
			"error", err,
		)
		// Возврат в очередь; исчерпание повторов решает DLQ очереди
		delivery.Nack(true)
		return
	}

	delivery.Ack()
}

// ParsePayload разбирает payload конверта в конкретный тип.
// Payload после json.Unmarshal конверта хранится как map, поэтому
// перекодируется через JSON.
func ParsePayload[T any](msg *Message) (T, error) {
	var result T

	raw, err := json.Marshal(msg.Payload)
	if err != nil {
		return result, fmt.Errorf("marshal payload: %w", err)
	}

	if err := json.Unmarshal(raw, &result); err != nil {
		return result, fmt.Errorf("unmarshal payload: %w", err)
	}

	return result, nil
}
