package engine

import "errors"

// Ошибки валидации PipelineSpec.
var (
	// ErrEmptyPipeline — pipeline не содержит стадий.
	ErrEmptyPipeline = errors.New("pipeline spec has no stages")

	// ErrEmptyStageName — стадия не имеет имени.
	ErrEmptyStageName = errors.New("stage has empty name")

	// ErrDuplicateStageName — несколько стадий с одинаковым именем.
	ErrDuplicateStageName = errors.New("duplicate stage name")

	// ErrEmptyKindName — порт объявлен без имени вида.
	ErrEmptyKindName = errors.New("port has empty kind name")

	// ErrInvalidCardinality — кратность порта не "1" и не "*".
	ErrInvalidCardinality = errors.New("invalid cardinality")

	// ErrInvalidCategory — категория вида не "data" и не "error".
	ErrInvalidCategory = errors.New("invalid kind category")
)

// SpecError — ошибка спецификации с контекстом.
type SpecError struct {
	Stage   string // имя стадии, где произошла ошибка
	Field   string // поле, вызвавшее ошибку
	Message string // описание ошибки
	Err     error  // базовая ошибка
}

// Error реализует интерфейс error.
func (e *SpecError) Error() string {
	if e.Stage != "" {
		return "stage " + e.Stage + ": " + e.Message
	}
	return e.Message
}

// Unwrap возвращает базовую ошибку.
func (e *SpecError) Unwrap() error {
	return e.Err
}

// NewSpecError создаёт новую ошибку спецификации.
func NewSpecError(stage, field, message string, err error) *SpecError {
	return &SpecError{
		Stage:   stage,
		Field:   field,
		Message: message,
		Err:     err,
	}
}
