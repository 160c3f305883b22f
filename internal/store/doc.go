// Package store содержит хранилище выполненных проверок.
//
// Хранилище in-memory: проверки живут столько, сколько живёт процесс.
// Результат проверки детерминирован, поэтому потерянную запись всегда
// можно восстановить повторной отправкой той же спецификации.
package store
