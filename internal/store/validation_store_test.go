package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shaiso/Flowlens/internal/domain"
)

func newTestValidation(name string) *domain.Validation {
	return domain.NewValidation(domain.PipelineSpec{
		Name:   name,
		Stages: []domain.StageDef{{Name: "Collect"}},
	})
}

func TestValidationStore_CreateAndGet(t *testing.T) {
	s := NewValidationStore()
	ctx := context.Background()

	v := newTestValidation("site-publish")
	if err := s.Create(ctx, v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.GetByID(ctx, v.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Spec.Name != "site-publish" {
		t.Errorf("expected spec name site-publish, got %s", got.Spec.Name)
	}

	// Повторное создание с тем же ID
	if err := s.Create(ctx, v); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestValidationStore_GetMissing(t *testing.T) {
	s := NewValidationStore()

	v := newTestValidation("x")
	_, err := s.GetByID(context.Background(), v.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestValidationStore_Update(t *testing.T) {
	s := NewValidationStore()
	ctx := context.Background()

	v := newTestValidation("x")
	if err := s.Update(ctx, v); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown validation, got %v", err)
	}

	if err := s.Create(ctx, v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v.MarkInvalid("pipeline spec has no stages")
	if err := s.Update(ctx, v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.GetByID(ctx, v.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != domain.ValidationStatusInvalid {
		t.Errorf("expected status INVALID, got %s", got.Status)
	}
}

func TestValidationStore_ListNewestFirst(t *testing.T) {
	s := NewValidationStore()
	ctx := context.Background()

	older := newTestValidation("older")
	older.SubmittedAt = time.Now().Add(-time.Hour)
	newer := newTestValidation("newer")

	if err := s.Create(ctx, older); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Create(ctx, newer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 validations, got %d", len(list))
	}
	if list[0].Spec.Name != "newer" || list[1].Spec.Name != "older" {
		t.Errorf("expected newest first, got [%s %s]", list[0].Spec.Name, list[1].Spec.Name)
	}

	// Лимит
	list, err = s.List(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].Spec.Name != "newer" {
		t.Errorf("expected only the newest validation, got %d items", len(list))
	}
}

func TestValidationStore_Delete(t *testing.T) {
	s := NewValidationStore()
	ctx := context.Background()

	v := newTestValidation("x")
	if err := s.Delete(ctx, v.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := s.Create(ctx, v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Delete(ctx, v.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	count, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Errorf("expected empty store, got %d", count)
	}
}
