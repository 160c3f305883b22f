package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Flowlens/internal/domain"
	"github.com/shaiso/Flowlens/internal/engine"
	"github.com/shaiso/Flowlens/internal/mq"
	"github.com/shaiso/Flowlens/internal/telemetry"
)

// CreateValidation принимает спецификацию pipeline на проверку.
// POST /api/v1/validations
//
// Без publisher проверка выполняется синхронно и ответ содержит
// финальный статус; с publisher запрос уходит в очередь и ответ
// содержит проверку в статусе PENDING.
func (h *Handler) CreateValidation(w http.ResponseWriter, r *http.Request) {
	var req CreateValidationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if err := engine.Validate(&req.Spec); err != nil {
		InvalidSpec(w, err.Error())
		return
	}

	validation := domain.NewValidation(req.Spec)

	if h.publisher == nil {
		h.runValidation(validation)
	}

	if err := h.store.Create(r.Context(), validation); err != nil {
		if HandleStoreError(w, h.logger, err, "") {
			return
		}
	}

	logger := telemetry.WithPipeline(telemetry.FromContext(r.Context()), validation.Spec.Name)

	if h.publisher != nil {
		err := h.publisher.PublishValidationRequested(r.Context(), validation.ID, validation.Spec)
		if err != nil {
			logger.Error("failed to publish validation.requested",
				"validation_id", validation.ID,
				"error", err,
			)
			InternalError(w, h.logger, err)
			return
		}
	}

	logger.Info("validation submitted",
		"validation_id", validation.ID,
		"status", validation.Status,
	)

	Created(w, ValidationDetailFromDomain(validation))
}

// runValidation выполняет проверку синхронно.
// Спецификация уже прошла статическую валидацию.
func (h *Handler) runValidation(v *domain.Validation) {
	started := time.Now()

	result, err := engine.NewProcessor(engine.WithPolicy(h.policy)).Process(v.Spec.Stages)
	if err != nil {
		v.MarkFailed(err.Error())
		telemetry.ObserveValidation("failed", 0, started)
		return
	}

	v.MarkSucceeded(result)
	telemetry.ObserveValidation("succeeded", len(result.Findings), started)
}

// ListValidations возвращает список проверок, новые первыми.
// GET /api/v1/validations?limit=N
func (h *Handler) ListValidations(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			BadRequest(w, "invalid limit")
			return
		}
		limit = parsed
	}

	validations, err := h.store.List(r.Context(), limit)
	if HandleStoreError(w, h.logger, err, "") {
		return
	}

	result := make([]ValidationResponse, len(validations))
	for i, v := range validations {
		result[i] = ValidationFromDomain(v)
	}

	List(w, result, len(result))
}

// GetValidation возвращает проверку по ID.
// GET /api/v1/validations/{id}
func (h *Handler) GetValidation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid validation id")
		return
	}

	validation, err := h.store.GetByID(r.Context(), id)
	if HandleStoreError(w, h.logger, err, "validation not found") {
		return
	}

	Success(w, ValidationDetailFromDomain(validation))
}

// DeleteValidation удаляет проверку.
// DELETE /api/v1/validations/{id}
func (h *Handler) DeleteValidation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid validation id")
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		HandleStoreError(w, h.logger, err, "validation not found")
		return
	}

	NoContent(w)
}

// GetValidationFindings возвращает findings проверки.
// GET /api/v1/validations/{id}/findings
func (h *Handler) GetValidationFindings(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid validation id")
		return
	}

	validation, err := h.store.GetByID(r.Context(), id)
	if HandleStoreError(w, h.logger, err, "validation not found") {
		return
	}

	if validation.Result == nil {
		Conflict(w, "validation has no result yet")
		return
	}

	findings := validation.Result.Findings
	if findings == nil {
		findings = []domain.Finding{}
	}

	Success(w, FindingsResponse{
		Consistent: validation.Result.IsConsistent(),
		Findings:   findings,
	})
}

// GetValidationGraph возвращает граф проверки в запрошенном формате.
// GET /api/v1/validations/{id}/graph?format=json|dot|mermaid
func (h *Handler) GetValidationGraph(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid validation id")
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}

	exporter, err := h.exporters.Get(format)
	if err != nil {
		BadRequest(w, err.Error())
		return
	}

	validation, err := h.store.GetByID(r.Context(), id)
	if HandleStoreError(w, h.logger, err, "validation not found") {
		return
	}

	if validation.Result == nil {
		Conflict(w, "validation has no result yet")
		return
	}

	data, err := exporter.Export(&validation.Result.Graph)
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}

	telemetry.ExportsTotal.WithLabelValues(format).Inc()

	w.Header().Set("Content-Type", exporter.ContentType())
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ListFormats возвращает зарегистрированные форматы экспорта.
// GET /api/v1/formats
func (h *Handler) ListFormats(w http.ResponseWriter, r *http.Request) {
	Success(w, FormatsResponse{Formats: h.exporters.Formats()})
}

// HandleValidationCompleted обновляет хранилище по событию validation.completed.
// Регистрируется как handler consumer'а очереди validations.completed.
func (h *Handler) HandleValidationCompleted(ctx context.Context, delivery *mq.Delivery) error {
	payload, err := mq.ParsePayload[mq.ValidationCompletedPayload](&delivery.Message)
	if err != nil {
		h.logger.Error("failed to parse validation.completed payload", "error", err)
		delivery.Nack(false)
		return nil
	}

	validation, err := h.store.GetByID(ctx, payload.ValidationID)
	if err != nil {
		// Проверка другого экземпляра API — не наша запись
		h.logger.Debug("completed validation not in local store",
			"validation_id", payload.ValidationID,
		)
		return nil
	}

	switch payload.Status {
	case domain.ValidationStatusSucceeded:
		validation.MarkSucceeded(payload.Result)
	case domain.ValidationStatusInvalid:
		validation.MarkInvalid(payload.Error)
	default:
		validation.MarkFailed(payload.Error)
	}

	if err := h.store.Update(ctx, validation); err != nil {
		return err
	}

	h.logger.Info("validation status updated",
		"validation_id", validation.ID,
		"status", validation.Status,
	)

	return nil
}
