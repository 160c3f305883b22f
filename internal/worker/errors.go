package worker

import "errors"

// Ошибки воркера.
var (
	// ErrInvalidPayload — payload сообщения не распарсился.
	ErrInvalidPayload = errors.New("invalid message payload")

	// ErrWorkerStopped — воркер остановлен.
	ErrWorkerStopped = errors.New("worker stopped")
)
