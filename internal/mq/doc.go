// Package mq предоставляет инфраструктуру для работы с RabbitMQ.
//
// Структура:
//   - connection.go — управление соединением с RabbitMQ (reconnect, graceful shutdown)
//   - topology.go   — объявление exchanges, queues, bindings
//   - publisher.go  — публикация сообщений в очереди
//   - consumer.go   — потребление сообщений из очередей
//
// Типы сообщений:
//   - validation.requested — спецификация ожидает проверки
//   - validation.completed — проверка завершена
//
// Exchanges:
//   - flowlens.validations — события проверок
//   - flowlens.dlq         — dead letter queue
package mq
