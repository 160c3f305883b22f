package export

import (
	"fmt"
	"sort"
	"sync"

	"github.com/shaiso/Flowlens/internal/domain"
)

// Exporter сериализует граф потока данных в один формат.
type Exporter interface {
	// Format возвращает имя формата (например, "json", "dot").
	Format() string

	// ContentType возвращает MIME-тип сериализованного представления.
	ContentType() string

	// Export сериализует граф. Граф не изменяется.
	Export(graph *domain.Graph) ([]byte, error)
}

// Registry — реестр экспортёров.
//
// Позволяет регистрировать и получать экспортёры по имени формата.
// Потокобезопасен.
type Registry struct {
	mu        sync.RWMutex
	exporters map[string]Exporter
}

// NewRegistry создаёт пустой реестр.
func NewRegistry() *Registry {
	return &Registry{
		exporters: make(map[string]Exporter),
	}
}

// DefaultRegistry создаёт реестр со всеми стандартными экспортёрами.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(NewJSONExporter())
	r.Register(NewDOTExporter())
	r.Register(NewMermaidExporter())

	return r
}

// Register регистрирует экспортёр в реестре.
// Если экспортёр с таким форматом уже существует, он будет перезаписан.
func (r *Registry) Register(exp Exporter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exporters[exp.Format()] = exp
}

// Get возвращает экспортёр по имени формата.
// Возвращает ErrUnknownFormat, если формат не зарегистрирован.
func (r *Registry) Get(format string) (Exporter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exp, exists := r.exporters[format]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	return exp, nil
}

// Has проверяет, зарегистрирован ли формат.
func (r *Registry) Has(format string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.exporters[format]
	return exists
}

// Formats возвращает отсортированный список зарегистрированных форматов.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]string, 0, len(r.exporters))
	for f := range r.exporters {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

// Count возвращает количество зарегистрированных экспортёров.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.exporters)
}
