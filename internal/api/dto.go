package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Flowlens/internal/domain"
)

// CreateValidationRequest — запрос на проверку спецификации pipeline.
type CreateValidationRequest struct {
	Spec domain.PipelineSpec `json:"spec"`
}

// ValidationResponse — краткий ответ с проверкой (для списков).
type ValidationResponse struct {
	ID           uuid.UUID               `json:"id"`
	Status       domain.ValidationStatus `json:"status"`
	PipelineName string                  `json:"pipeline_name,omitempty"`
	StageCount   int                     `json:"stage_count"`
	FindingCount int                     `json:"finding_count"`
	Error        string                  `json:"error,omitempty"`
	SubmittedAt  time.Time               `json:"submitted_at"`
	FinishedAt   *time.Time              `json:"finished_at,omitempty"`
}

// ValidationFromDomain конвертирует domain.Validation в ValidationResponse.
func ValidationFromDomain(v *domain.Validation) ValidationResponse {
	return ValidationResponse{
		ID:           v.ID,
		Status:       v.Status,
		PipelineName: v.Spec.Name,
		StageCount:   len(v.Spec.Stages),
		FindingCount: v.FindingCount(),
		Error:        v.Error,
		SubmittedAt:  v.SubmittedAt,
		FinishedAt:   v.FinishedAt,
	}
}

// ValidationDetailResponse — полный ответ с проверкой, включая результат.
type ValidationDetailResponse struct {
	ValidationResponse
	Spec   domain.PipelineSpec `json:"spec"`
	Result *domain.Result      `json:"result,omitempty"`
}

// ValidationDetailFromDomain конвертирует domain.Validation в полный ответ.
func ValidationDetailFromDomain(v *domain.Validation) ValidationDetailResponse {
	return ValidationDetailResponse{
		ValidationResponse: ValidationFromDomain(v),
		Spec:               v.Spec,
		Result:             v.Result,
	}
}

// FindingsResponse — ответ со списком findings.
type FindingsResponse struct {
	Consistent bool             `json:"consistent"`
	Findings   []domain.Finding `json:"findings"`
}

// FormatsResponse — ответ со списком форматов экспорта.
type FormatsResponse struct {
	Formats []string `json:"formats"`
}
