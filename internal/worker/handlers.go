package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shaiso/Flowlens/internal/domain"
	"github.com/shaiso/Flowlens/internal/engine"
	"github.com/shaiso/Flowlens/internal/mq"
	"github.com/shaiso/Flowlens/internal/telemetry"
)

// handleValidationRequested обрабатывает запрос из очереди validations.requested.
func (w *Worker) handleValidationRequested(ctx context.Context, delivery *mq.Delivery) error {
	payload, err := mq.ParsePayload[mq.ValidationRequestedPayload](&delivery.Message)
	if err != nil {
		w.logger.Error("failed to parse validation.requested payload", "error", err)
		// Битый payload — в DLQ, retry бессмысленен
		delivery.Nack(false)
		return nil
	}

	logger := telemetry.WithValidationID(w.logger, payload.ValidationID.String())
	logger.Debug("received validation.requested event", "pipeline", payload.Spec.Name)

	completed := w.processValidation(payload)

	logger.Info("validation processed",
		"status", completed.Status,
		"findings", findingCount(completed.Result),
	)

	return w.publishCompletion(ctx, completed)
}

// processValidation выполняет одну проверку: статическая валидация
// спецификации, затем прогон процессора.
//
// Ошибки спецификации дают статус INVALID; непустой список findings
// статус не меняет — это содержательный результат, а не сбой.
func (w *Worker) processValidation(payload mq.ValidationRequestedPayload) mq.ValidationCompletedPayload {
	started := time.Now()

	completed := mq.ValidationCompletedPayload{
		ValidationID: payload.ValidationID,
	}

	if err := engine.Validate(&payload.Spec); err != nil {
		completed.Status = domain.ValidationStatusInvalid
		completed.Error = err.Error()
		telemetry.ObserveValidation("invalid", 0, started)
		return completed
	}

	// Свежий процессор на каждый запрос: пулы не разделяются
	result, err := engine.NewProcessor(engine.WithPolicy(w.policy)).Process(payload.Spec.Stages)
	if err != nil {
		if errors.Is(err, engine.ErrEmptyPipeline) {
			completed.Status = domain.ValidationStatusInvalid
		} else {
			completed.Status = domain.ValidationStatusFailed
		}
		completed.Error = err.Error()
		telemetry.ObserveValidation("failed", 0, started)
		return completed
	}

	completed.Status = domain.ValidationStatusSucceeded
	completed.Result = result
	telemetry.ObserveValidation("succeeded", len(result.Findings), started)
	return completed
}

// publishCompletion публикует событие validation.completed.
func (w *Worker) publishCompletion(ctx context.Context, payload mq.ValidationCompletedPayload) error {
	if w.publisher == nil {
		w.logger.Warn("publisher not available, skipping validation.completed publish",
			"validation_id", payload.ValidationID,
		)
		return nil
	}

	if err := w.publisher.PublishValidationCompleted(ctx, payload); err != nil {
		return fmt.Errorf("publish validation.completed: %w", err)
	}

	return nil
}

// findingCount возвращает количество findings результата (0, если результата нет).
func findingCount(result *domain.Result) int {
	if result == nil {
		return 0
	}
	return len(result.Findings)
}
