package domain

// ValidationStatus — статус проверки pipeline.
//
// Жизненный цикл:
//
//	PENDING → SUCCEEDED (прогон выполнен; findings могут быть непустыми)
//	        ↘ INVALID   (спецификация отвергнута до прогона)
//	        ↘ FAILED    (внутренняя ошибка)
type ValidationStatus string

const (
	// ValidationStatusPending — проверка принята, но ещё не выполнена.
	ValidationStatusPending ValidationStatus = "PENDING"

	// ValidationStatusSucceeded — прогон выполнен, граф построен.
	// Непустой список findings не меняет статус: полный отчёт ценнее
	// первой ошибки.
	ValidationStatusSucceeded ValidationStatus = "SUCCEEDED"

	// ValidationStatusInvalid — спецификация не прошла статическую
	// валидацию (пустой pipeline, дубликат имени стадии и т.п.).
	ValidationStatusInvalid ValidationStatus = "INVALID"

	// ValidationStatusFailed — внутренняя ошибка при выполнении проверки.
	ValidationStatusFailed ValidationStatus = "FAILED"
)

// IsTerminal возвращает true, если статус финальный.
func (s ValidationStatus) IsTerminal() bool {
	switch s {
	case ValidationStatusSucceeded, ValidationStatusInvalid, ValidationStatusFailed:
		return true
	default:
		return false
	}
}

// String возвращает строковое представление ValidationStatus.
func (s ValidationStatus) String() string {
	return string(s)
}
