package engine

import (
	"errors"
	"testing"

	"github.com/shaiso/Flowlens/internal/domain"
)

func TestParse_ValidSpec(t *testing.T) {
	data := []byte(`{
		"name": "site-publish",
		"stages": [
			{
				"name": "Collect",
				"consumes": [{"kind": "Command", "exclusive": true}],
				"produces": [{"kind": "Config"}]
			},
			{
				"name": "Render",
				"group": "output",
				"consumes": [{"kind": "Config"}],
				"produces": [{"kind": "Html", "exclusive": true, "cardinality": "*"}]
			}
		]
	}`)

	spec, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if spec.Name != "site-publish" {
		t.Errorf("expected name site-publish, got %s", spec.Name)
	}
	if len(spec.Stages) != 2 {
		t.Fatalf("expected 2 stages, got %d", len(spec.Stages))
	}
	if spec.Stages[1].Group != "output" {
		t.Errorf("expected group output, got %s", spec.Stages[1].Group)
	}

	port := spec.Stages[1].Produces[0]
	if port.ResolveCardinality() != domain.CardinalityCollection {
		t.Errorf("expected collection cardinality, got %s", port.ResolveCardinality())
	}

	// Значения по умолчанию
	config := spec.Stages[0].Produces[0]
	if config.ResolveCardinality() != domain.CardinalityOne {
		t.Error("missing cardinality should default to \"1\"")
	}
	if config.ResolveKind().Category != domain.CategoryData {
		t.Error("missing category should default to data")
	}
}

func TestParse_MalformedJSON(t *testing.T) {
	_, err := Parse([]byte(`{not json`))
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestValidate_EmptyPipeline(t *testing.T) {
	if err := Validate(nil); !errors.Is(err, ErrEmptyPipeline) {
		t.Errorf("expected ErrEmptyPipeline for nil spec, got %v", err)
	}

	err := Validate(&domain.PipelineSpec{})
	if !errors.Is(err, ErrEmptyPipeline) {
		t.Errorf("expected ErrEmptyPipeline, got %v", err)
	}
}

func TestValidate_EmptyStageName(t *testing.T) {
	spec := &domain.PipelineSpec{
		Stages: []domain.StageDef{{Name: ""}},
	}

	err := Validate(spec)
	if !errors.Is(err, ErrEmptyStageName) {
		t.Errorf("expected ErrEmptyStageName, got %v", err)
	}
}

func TestValidate_DuplicateStageName(t *testing.T) {
	spec := &domain.PipelineSpec{
		Stages: []domain.StageDef{
			{Name: "Collect"},
			{Name: "Collect"},
		},
	}

	err := Validate(spec)
	if !errors.Is(err, ErrDuplicateStageName) {
		t.Fatalf("expected ErrDuplicateStageName, got %v", err)
	}

	var specErr *SpecError
	if !errors.As(err, &specErr) {
		t.Fatal("expected a *SpecError")
	}
	if specErr.Stage != "Collect" {
		t.Errorf("expected stage Collect in error context, got %s", specErr.Stage)
	}
	if specErr.Field != "name" {
		t.Errorf("expected field name, got %s", specErr.Field)
	}
}

func TestValidate_EmptyKindName(t *testing.T) {
	spec := &domain.PipelineSpec{
		Stages: []domain.StageDef{
			{
				Name:     "Render",
				Consumes: []domain.PortDef{{Kind: ""}},
			},
		},
	}

	err := Validate(spec)
	if !errors.Is(err, ErrEmptyKindName) {
		t.Errorf("expected ErrEmptyKindName, got %v", err)
	}
}

func TestValidate_InvalidCardinality(t *testing.T) {
	spec := &domain.PipelineSpec{
		Stages: []domain.StageDef{
			{
				Name:     "Render",
				Produces: []domain.PortDef{{Kind: "Html", Cardinality: "many"}},
			},
		},
	}

	err := Validate(spec)
	if !errors.Is(err, ErrInvalidCardinality) {
		t.Errorf("expected ErrInvalidCardinality, got %v", err)
	}
}

func TestValidate_InvalidCategory(t *testing.T) {
	spec := &domain.PipelineSpec{
		Stages: []domain.StageDef{
			{
				Name:     "Render",
				Produces: []domain.PortDef{{Kind: "Html", Category: "warning"}},
			},
		},
	}

	err := Validate(spec)
	if !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("expected ErrInvalidCategory, got %v", err)
	}
}
