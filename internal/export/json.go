package export

import (
	"encoding/json"

	"github.com/shaiso/Flowlens/internal/domain"
)

// JSONExporter сериализует граф в JSON-документ с массивами nodes и edges.
type JSONExporter struct{}

// NewJSONExporter создаёт JSON-экспортёр.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Format возвращает "json".
func (e *JSONExporter) Format() string {
	return "json"
}

// ContentType возвращает MIME-тип JSON.
func (e *JSONExporter) ContentType() string {
	return "application/json"
}

// Export сериализует граф в JSON с отступами.
func (e *JSONExporter) Export(graph *domain.Graph) ([]byte, error) {
	return json.MarshalIndent(graph, "", "  ")
}
