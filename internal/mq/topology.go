package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// Queue — тип для имени очереди.
type Queue string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

// Exchanges — имена обменников.
const (
	ExchangeValidations Exchange = "flowlens.validations"
	ExchangeDLQ         Exchange = "flowlens.dlq"
)

// Queues — имена очередей.
const (
	QueueValidationsRequested Queue = "validations.requested"
	QueueValidationsCompleted Queue = "validations.completed"
	QueueDLQValidations       Queue = "dlq.validations"
)

// Routing keys.
const (
	RoutingKeyRequested      RoutingKey = "requested"
	RoutingKeyCompleted      RoutingKey = "completed"
	RoutingKeyDLQValidations RoutingKey = "validations"
)

func SetupTopology(ctx context.Context, conn *Connection) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		// 1. Создаём exchanges
		if err := declareExchanges(ch); err != nil {
			return err
		}

		// 2. Создаём queues
		if err := declareQueues(ch); err != nil {
			return err
		}

		// 3. Привязываем queues к exchanges
		if err := bindQueues(ch); err != nil {
			return err
		}

		return nil
	})
}

// declareExchanges создаёт обменники.
func declareExchanges(ch *amqp.Channel) error {
	exchanges := []struct {
		name Exchange
		kind string
	}{
		{ExchangeValidations, "direct"},
		{ExchangeDLQ, "direct"},
	}

	for _, ex := range exchanges {
		err := ch.ExchangeDeclare(
			string(ex.name), // name
			ex.kind,         // type
			true,            // durable
			false,           // auto-deleted
			false,           // internal
			false,           // no-wait
			nil,             // arguments
		)
		if err != nil {
			return fmt.Errorf("declare exchange %s: %w", ex.name, err)
		}
	}

	return nil
}

// declareQueues создаёт очереди.
func declareQueues(ch *amqp.Channel) error {
	// Аргументы для очередей с DLQ
	dlqArgs := amqp.Table{
		"x-dead-letter-exchange":    string(ExchangeDLQ),
		"x-dead-letter-routing-key": string(RoutingKeyDLQValidations),
	}

	queues := []struct {
		name Queue
		args amqp.Table
	}{
		// validations.requested — с DLQ (битые спецификации не должны крутиться вечно)
		{QueueValidationsRequested, dlqArgs},

		// validations.completed — без DLQ (события завершения)
		{QueueValidationsCompleted, nil},

		// dlq.validations — сама DLQ очередь
		{QueueDLQValidations, nil},
	}

	for _, q := range queues {
		_, err := ch.QueueDeclare(
			string(q.name), // name
			true,           // durable
			false,          // delete when unused
			false,          // exclusive
			false,          // no-wait
			q.args,         // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", q.name, err)
		}
	}

	return nil
}

// bindQueues привязывает очереди к обменникам.
func bindQueues(ch *amqp.Channel) error {
	bindings := []struct {
		queue      Queue
		routingKey RoutingKey
		exchange   Exchange
	}{
		{QueueValidationsRequested, RoutingKeyRequested, ExchangeValidations},
		{QueueValidationsCompleted, RoutingKeyCompleted, ExchangeValidations},
		{QueueDLQValidations, RoutingKeyDLQValidations, ExchangeDLQ},
	}

	for _, b := range bindings {
		err := ch.QueueBind(
			string(b.queue),      // queue name
			string(b.routingKey), // routing key
			string(b.exchange),   // exchange
			false,                // no-wait
			nil,                  // arguments
		)
		if err != nil {
			return fmt.Errorf("bind queue %s to %s: %w", b.queue, b.exchange, err)
		}
	}

	return nil
}

// TopologyInfo возвращает описание топологии для логирования.
func TopologyInfo() string {
	return `
  Flowlens RabbitMQ Topology:

    flowlens.validations (direct)
    ├── validations.requested [routing: requested]
    │       Consumer: Worker
    │       DLQ: dlq.validations
    └── validations.completed [routing: completed]
            Consumer: API (status updates)

    flowlens.dlq (direct)
    └── dlq.validations [routing: validations]
            Manual processing
  `
}
