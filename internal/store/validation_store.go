package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/shaiso/Flowlens/internal/domain"
)

// ValidationStore — потокобезопасное хранилище проверок.
type ValidationStore struct {
	mu          sync.RWMutex
	validations map[uuid.UUID]*domain.Validation
}

// NewValidationStore создаёт пустое хранилище.
func NewValidationStore() *ValidationStore {
	return &ValidationStore{
		validations: make(map[uuid.UUID]*domain.Validation),
	}
}

// Create сохраняет новую проверку.
// Возвращает ErrAlreadyExists при конфликте ID.
func (s *ValidationStore) Create(ctx context.Context, v *domain.Validation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.validations[v.ID]; exists {
		return fmt.Errorf("validation %s: %w", v.ID, ErrAlreadyExists)
	}

	s.validations[v.ID] = v
	return nil
}

// GetByID возвращает проверку по ID.
// Возвращает ErrNotFound, если проверка не найдена.
func (s *ValidationStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Validation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, exists := s.validations[id]
	if !exists {
		return nil, fmt.Errorf("validation %s: %w", id, ErrNotFound)
	}

	return v, nil
}

// Update заменяет сохранённую проверку.
// Возвращает ErrNotFound, если проверка не найдена.
func (s *ValidationStore) Update(ctx context.Context, v *domain.Validation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.validations[v.ID]; !exists {
		return fmt.Errorf("validation %s: %w", v.ID, ErrNotFound)
	}

	s.validations[v.ID] = v
	return nil
}

// List возвращает проверки, новые первыми.
// limit <= 0 означает "без ограничения".
func (s *ValidationStore) List(ctx context.Context, limit int) ([]*domain.Validation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Validation, 0, len(s.validations))
	for _, v := range s.validations {
		out = append(out, v)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

// Delete удаляет проверку.
// Возвращает ErrNotFound, если проверка не найдена.
func (s *ValidationStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.validations[id]; !exists {
		return fmt.Errorf("validation %s: %w", id, ErrNotFound)
	}

	delete(s.validations, id)
	return nil
}

// Count возвращает количество сохранённых проверок.
func (s *ValidationStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.validations), nil
}
