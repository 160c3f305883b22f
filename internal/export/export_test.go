package export

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/shaiso/Flowlens/internal/domain"
)

// testGraph — небольшой граф с группой, error-терминалом и коллекцией.
func testGraph() *domain.Graph {
	return &domain.Graph{
		Nodes: []domain.Node{
			{ID: 0, Name: "Start", Role: domain.RoleStart},
			{ID: 1, Name: "Collect", Role: domain.RoleStage, Group: "input"},
			{ID: 2, Name: "Render", Role: domain.RoleStage, Group: "output"},
			{ID: 3, Name: "Error: IOError", Role: domain.RoleErrorTerminal, KindName: "IOError"},
			{ID: 4, Name: "End", Role: domain.RoleEnd},
		},
		Edges: []domain.Edge{
			{KindName: "Command", Exclusive: true, OriginID: 0, DestinationID: 1},
			{KindName: "Config", OriginID: 1, DestinationID: 2},
			{KindName: "IOError", Exclusive: true, OriginID: 2, DestinationID: 3},
			{KindName: "Html", Exclusive: true, Collection: true, OriginID: 2, DestinationID: 4},
		},
	}
}

func TestRegistry_DefaultFormats(t *testing.T) {
	r := DefaultRegistry()

	want := []string{"dot", "json", "mermaid"}
	got := r.Formats()
	if len(got) != len(want) {
		t.Fatalf("expected %d formats, got %d", len(want), len(got))
	}
	for i, f := range want {
		if got[i] != f {
			t.Errorf("format %d: expected %s, got %s", i, f, got[i])
		}
	}

	if !r.Has("json") {
		t.Error("expected json to be registered")
	}
	if r.Count() != 3 {
		t.Errorf("expected 3 exporters, got %d", r.Count())
	}
}

func TestRegistry_UnknownFormat(t *testing.T) {
	r := DefaultRegistry()

	_, err := r.Get("tikz")
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestJSONExporter_RoundTrip(t *testing.T) {
	graph := testGraph()

	data, err := NewJSONExporter().Export(graph)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded domain.Graph
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("exported JSON does not decode: %v", err)
	}
	if len(decoded.Nodes) != len(graph.Nodes) {
		t.Errorf("expected %d nodes, got %d", len(graph.Nodes), len(decoded.Nodes))
	}
	if len(decoded.Edges) != len(graph.Edges) {
		t.Errorf("expected %d edges, got %d", len(graph.Edges), len(decoded.Edges))
	}
}

func TestDOTExporter(t *testing.T) {
	data, err := NewDOTExporter().Export(testGraph())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := string(data)

	if !strings.HasPrefix(out, "digraph Flowlens {") {
		t.Error("expected digraph header")
	}
	// Кластеры по группам
	if !strings.Contains(out, "subgraph cluster_input {") {
		t.Error("expected cluster for group input")
	}
	if !strings.Contains(out, "subgraph cluster_output {") {
		t.Error("expected cluster for group output")
	}
	// Ребро с меткой вида
	if !strings.Contains(out, `N_1 -> N_2 [label="Config"`) {
		t.Error("expected Config edge between Collect and Render")
	}
	// Коллекция рисуется пунктиром
	if !strings.Contains(out, `style="dashed"`) {
		t.Error("expected dashed style for collection edge")
	}
	// Ребро в error-терминал красное
	if !strings.Contains(out, `color="#dc2626"`) {
		t.Error("expected error color for terminal edge")
	}
}

func TestMermaidExporter(t *testing.T) {
	data, err := NewMermaidExporter().Export(testGraph())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := string(data)

	if !strings.HasPrefix(out, "flowchart TD") {
		t.Error("expected flowchart header")
	}
	if !strings.Contains(out, "subgraph input") {
		t.Error("expected subgraph for group input")
	}
	// Ошибка — пунктирная стрелка
	if !strings.Contains(out, "N_2 -.->|IOError| N_3") {
		t.Error("expected dotted arrow into error terminal")
	}
	// Коллекция помечена звёздочкой
	if !strings.Contains(out, "|Html *|") {
		t.Error("expected collection marker on Html edge")
	}
	if !strings.Contains(out, "class N_3 error") {
		t.Error("expected error class on terminal node")
	}
}

func TestSanitizeID(t *testing.T) {
	if got := sanitizeID("front end/v2"); got != "front_end_v2" {
		t.Errorf("expected front_end_v2, got %s", got)
	}
}

func TestContentTypes(t *testing.T) {
	r := DefaultRegistry()

	for _, format := range r.Formats() {
		exp, err := r.Get(format)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if exp.ContentType() == "" {
			t.Errorf("exporter %s has empty content type", format)
		}
	}
}
