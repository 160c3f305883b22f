package export

import (
	"fmt"
	"strings"

	"github.com/shaiso/Flowlens/internal/domain"
)

// Цвета узлов по ролям.
const (
	dotStageFill    = "#2563eb"
	dotStartEndFill = "#059669"
	dotErrorFill    = "#dc2626"
	dotClusterColor = "#94a3b8"
	dotErrorEdge    = "#dc2626"
	dotDataEdge     = "#334155"
)

// DOTExporter сериализует граф в формат Graphviz DOT.
//
// Стадии одной группы собираются в subgraph-кластер; коллекции
// рисуются пунктирными рёбрами, ошибки — красными.
type DOTExporter struct{}

// NewDOTExporter создаёт DOT-экспортёр.
func NewDOTExporter() *DOTExporter {
	return &DOTExporter{}
}

// Format возвращает "dot".
func (e *DOTExporter) Format() string {
	return "dot"
}

// ContentType возвращает MIME-тип DOT.
func (e *DOTExporter) ContentType() string {
	return "text/vnd.graphviz"
}

// Export сериализует граф в DOT.
func (e *DOTExporter) Export(graph *domain.Graph) ([]byte, error) {
	var out strings.Builder

	out.WriteString("digraph Flowlens {\n")
	out.WriteString("    rankdir=TD;\n")
	out.WriteString("    node [fontname=\"Helvetica\", fontsize=10, style=filled, fontcolor=\"#ffffff\"];\n")
	out.WriteString("    edge [fontname=\"Helvetica\", fontsize=9];\n")

	// Кластеры в порядке первого появления группы
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
		fmt.Fprintf(&out, "    %s\n", dotNode(node))
	}

	for _, group := range groupOrder {
		fmt.Fprintf(&out, "    subgraph cluster_%s {\n", sanitizeID(group))
		fmt.Fprintf(&out, "        label=%q;\n", group)
		out.WriteString("        style=rounded;\n")
		fmt.Fprintf(&out, "        color=%q;\n", dotClusterColor)
		for _, node := range grouped[group] {
			fmt.Fprintf(&out, "        %s\n", dotNode(node))
		}
		out.WriteString("    }\n")
	}

	for _, edge := range graph.Edges {
		color := dotDataEdge
		node, ok := graph.NodeByID(edge.DestinationID)
		if ok && node.Role == domain.RoleErrorTerminal {
			color = dotErrorEdge
		}

		style := "solid"
		if edge.Collection {
			style = "dashed"
		}

		fmt.Fprintf(&out, "    N_%d -> N_%d [label=%q, color=%q, style=%q];\n",
			edge.OriginID, edge.DestinationID, edge.KindName, color, style)
	}

	out.WriteString("}\n")
	return []byte(out.String()), nil
}

// dotNode возвращает объявление одного узла.
func dotNode(node domain.Node) string {
	fill := dotStageFill
	shape := "box"

	switch node.Role {
	case domain.RoleStart, domain.RoleEnd:
		fill = dotStartEndFill
		shape = "oval"
	case domain.RoleErrorTerminal:
		fill = dotErrorFill
		shape = "diamond"
	}

	return fmt.Sprintf("N_%d [label=%q, shape=%s, fillcolor=%q];",
		node.ID, node.Name, shape, fill)
}

// sanitizeID приводит строку к допустимому идентификатору DOT.
func sanitizeID(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
