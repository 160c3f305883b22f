package domain

import (
	"time"

	"github.com/google/uuid"
)

// Validation — одна проверка pipeline в сервисном режиме.
//
// Validation создаётся когда:
// - Пользователь отправляет спецификацию через API/CLI
// - Сообщение validations.requested приходит из очереди
//
// Каждая проверка выполняется на собственном, независимо созданном
// пуле ресурсов: пулы никогда не разделяются между проверками.
type Validation struct {
	// ID — уникальный идентификатор проверки.
	ID uuid.UUID `json:"id"`

	// Status — текущий статус.
	Status ValidationStatus `json:"status"`

	// Spec — проверяемая спецификация pipeline.
	Spec PipelineSpec `json:"spec"`

	// Result — граф и findings. Nil, пока проверка не выполнена
	// или спецификация отвергнута.
	Result *Result `json:"result,omitempty"`

	// Error — текст ошибки для статусов INVALID и FAILED.
	Error string `json:"error,omitempty"`

	// SubmittedAt — время приёма спецификации.
	SubmittedAt time.Time `json:"submitted_at"`

	// FinishedAt — время завершения. Nil, пока проверка не завершена.
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// NewValidation создаёт проверку в статусе PENDING.
func NewValidation(spec PipelineSpec) *Validation {
	return &Validation{
		ID:          uuid.New(),
		Status:      ValidationStatusPending,
		Spec:        spec,
		SubmittedAt: time.Now(),
	}
}

// IsFinished возвращает true, если проверка завершена (в любом статусе).
func (v *Validation) IsFinished() bool {
	return v.Status.IsTerminal()
}

// MarkSucceeded переводит проверку в статус SUCCEEDED с результатом.
func (v *Validation) MarkSucceeded(result *Result) {
	now := time.Now()
	v.Status = ValidationStatusSucceeded
	v.Result = result
	v.FinishedAt = &now
}

// MarkInvalid переводит проверку в статус INVALID с текстом ошибки спецификации.
func (v *Validation) MarkInvalid(err string) {
	now := time.Now()
	v.Status = ValidationStatusInvalid
	v.Error = err
	v.FinishedAt = &now
}

// MarkFailed переводит проверку в статус FAILED с ошибкой.
func (v *Validation) MarkFailed(err string) {
	now := time.Now()
	v.Status = ValidationStatusFailed
	v.Error = err
	v.FinishedAt = &now
}

// FindingCount возвращает количество findings (0, если результата нет).
func (v *Validation) FindingCount() int {
	if v.Result == nil {
		return 0
	}
	return len(v.Result.Findings)
}
