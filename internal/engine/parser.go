package engine

import (
	"encoding/json"
	"fmt"

	"github.com/shaiso/Flowlens/internal/domain"
)

// Parse разбирает PipelineSpec из JSON и выполняет полную валидацию.
func Parse(data []byte) (*domain.PipelineSpec, error) {
	var spec domain.PipelineSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse pipeline spec: %w", err)
	}

	if err := Validate(&spec); err != nil {
		return nil, err
	}

	return &spec, nil
}

// Validate выполняет полную статическую валидацию PipelineSpec.
//
// Проверяет:
// - Наличие стадий (пустой pipeline — фатальная ошибка, прогон не начинается)
// - Уникальность имён стадий
// - Наличие имени вида у каждого порта
// - Корректность кратностей и категорий
func Validate(spec *domain.PipelineSpec) error {
	if spec == nil {
		return ErrEmptyPipeline
	}

	if len(spec.Stages) == 0 {
		return ErrEmptyPipeline
	}

	stageNames := make(map[string]bool)

	for i := range spec.Stages {
		stage := &spec.Stages[i]

		if err := ValidateStage(stage, stageNames); err != nil {
			return err
		}
	}

	return nil
}

// ValidateStage валидирует одну стадию.
// stageNames — уже встреченные имена стадий (для проверки уникальности).
func ValidateStage(stage *domain.StageDef, stageNames map[string]bool) error {
	// Проверка имени
	if stage.Name == "" {
		return NewSpecError("", "name", "stage has empty name", ErrEmptyStageName)
	}

	// Проверка уникальности имени
	if stageNames[stage.Name] {
		return NewSpecError(stage.Name, "name",
			fmt.Sprintf("duplicate stage name: %s", stage.Name), ErrDuplicateStageName)
	}
	stageNames[stage.Name] = true

	// Проверка портов
	if err := validatePorts(stage.Name, "consumes", stage.Consumes); err != nil {
		return err
	}
	if err := validatePorts(stage.Name, "produces", stage.Produces); err != nil {
		return err
	}

	return nil
}

// validatePorts проверяет список портов одной стороны стадии.
func validatePorts(stageName, field string, ports []domain.PortDef) error {
	for i := range ports {
		port := &ports[i]

		if port.Kind == "" {
			return NewSpecError(stageName, field,
				fmt.Sprintf("%s[%d] has empty kind name", field, i), ErrEmptyKindName)
		}

		if port.Cardinality != "" && !port.Cardinality.IsValid() {
			return NewSpecError(stageName, field,
				fmt.Sprintf("%s[%d] has invalid cardinality: %s", field, i, port.Cardinality),
				ErrInvalidCardinality)
		}

		if port.Category != "" && !port.Category.IsValid() {
			return NewSpecError(stageName, field,
				fmt.Sprintf("%s[%d] has invalid category: %s", field, i, port.Category),
				ErrInvalidCategory)
		}
	}

	return nil
}
