package export

import (
	"fmt"
	"strings"

	"github.com/shaiso/Flowlens/internal/domain"
)

// MermaidExporter сериализует граф в Mermaid flowchart —
// формат, встраиваемый прямо в Markdown.
type MermaidExporter struct{}

// NewMermaidExporter создаёт Mermaid-экспортёр.
func NewMermaidExporter() *MermaidExporter {
	return &MermaidExporter{}
}

// Format возвращает "mermaid".
func (e *MermaidExporter) Format() string {
	return "mermaid"
}

// ContentType возвращает MIME-тип текста.
func (e *MermaidExporter) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Export сериализует граф в Mermaid flowchart.
func (e *MermaidExporter) Export(graph *domain.Graph) ([]byte, error) {
	var out strings.Builder

	out.WriteString("flowchart TD\n")
	out.WriteString("    classDef stage fill:#2563eb,stroke:#1d4ed8,color:#fff;\n")
	out.WriteString("    classDef startend fill:#059669,stroke:#047857,color:#fff;\n")
	out.WriteString("    classDef error fill:#dc2626,stroke:#b91c1c,color:#fff;\n")

	// Сабграфы в порядке первого появления группы
	var groupOrder []string
	grouped := make(map[string][]domain.Node)
	var ungrouped []domain.Node

	for _, node := range graph.Nodes {
		if node.Group == "" {
			ungrouped = append(ungrouped, node)
			continue
		}
		if _, seen := grouped[node.Group]; !seen {
			groupOrder = append(groupOrder, node.Group)
		}
		grouped[node.Group] = append(grouped[node.Group], node)
	}

	for _, node := range ungrouped {
		writeMermaidNode(&out, node, "    ")
	}

	for _, group := range groupOrder {
		fmt.Fprintf(&out, "    subgraph %s\n", sanitizeID(group))
		out.WriteString("        direction TB\n")
		for _, node := range grouped[group] {
			writeMermaidNode(&out, node, "        ")
		}
		out.WriteString("    end\n")
	}

	for _, edge := range graph.Edges {
		arrow := "-->"
		node, ok := graph.NodeByID(edge.DestinationID)
		if ok && node.Role == domain.RoleErrorTerminal {
			arrow = "-.->"
		}

		label := edge.KindName
		if edge.Collection {
			label += " *"
		}

		fmt.Fprintf(&out, "    N_%d %s|%s| N_%d\n",
			edge.OriginID, arrow, label, edge.DestinationID)
	}

	return []byte(out.String()), nil
}

// writeMermaidNode пишет объявление узла и назначение класса.
func writeMermaidNode(out *strings.Builder, node domain.Node, indent string) {
	open, close, class := "[", "]", "stage"

	switch node.Role {
	case domain.RoleStart, domain.RoleEnd:
		open, close, class = "([", "])", "startend"
	case domain.RoleErrorTerminal:
		open, close, class = "{", "}", "error"
	}

	fmt.Fprintf(out, "%sN_%d%s\"%s\"%s\n", indent, node.ID, open, node.Name, close)
	fmt.Fprintf(out, "%sclass N_%d %s\n", indent, node.ID, class)
}
