package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shaiso/Flowlens/internal/domain"
	"github.com/shaiso/Flowlens/internal/store"
)

// newTestServer собирает API поверх пустого хранилища без publisher:
// проверки выполняются синхронно.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	handler := NewHandler(Config{
		Store:  store.NewValidationStore(),
		Logger: slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
	})

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func validSpecBody() string {
	return `{
		"spec": {
			"name": "site-publish",
			"stages": [
				{
					"name": "Collect",
					"consumes": [{"kind": "Command", "exclusive": true}],
					"produces": [{"kind": "Config"}]
				},
				{
					"name": "Render",
					"consumes": [{"kind": "Config"}],
					"produces": [{"kind": "Html", "exclusive": true}]
				}
			]
		}
	}`
}

// createValidation отправляет спецификацию и возвращает её ID.
func createValidation(t *testing.T, srv *httptest.Server, body string) string {
	t.Helper()

	resp, err := http.Post(srv.URL+"/api/v1/validations", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.StatusCode)
	}

	var decoded struct {
		Data ValidationDetailResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return decoded.Data.ID.String()
}

func TestCreateValidation_Sync(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/validations", "application/json",
		strings.NewReader(validSpecBody()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.StatusCode)
	}

	var decoded struct {
		Data ValidationDetailResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	// Без publisher проверка завершена сразу
	if decoded.Data.Status != domain.ValidationStatusSucceeded {
		t.Errorf("expected status SUCCEEDED, got %s", decoded.Data.Status)
	}
	if decoded.Data.Result == nil {
		t.Fatal("expected a result")
	}
	if len(decoded.Data.Result.Graph.Nodes) != 4 {
		t.Errorf("expected 4 nodes, got %d", len(decoded.Data.Result.Graph.Nodes))
	}
	if decoded.Data.PipelineName != "site-publish" {
		t.Errorf("expected pipeline name site-publish, got %s", decoded.Data.PipelineName)
	}
}

func TestCreateValidation_InvalidSpec(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/validations", "application/json",
		strings.NewReader(`{"spec": {"stages": []}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("expected status 422, got %d", resp.StatusCode)
	}

	var decoded ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if decoded.Error.Code != ErrCodeInvalidSpec {
		t.Errorf("expected code INVALID_SPEC, got %s", decoded.Error.Code)
	}
}

func TestCreateValidation_BadBody(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/validations", "application/json",
		strings.NewReader(`{not json`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", resp.StatusCode)
	}
}

func TestGetValidation(t *testing.T) {
	srv := newTestServer(t)
	id := createValidation(t, srv, validSpecBody())

	resp, err := http.Get(srv.URL + "/api/v1/validations/" + id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}

	// Неизвестный ID
	resp2, err := http.Get(srv.URL + "/api/v1/validations/00000000-0000-0000-0000-000000000000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp2.Body.Close()

	if resp2.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", resp2.StatusCode)
	}
}

func TestListValidations(t *testing.T) {
	srv := newTestServer(t)
	createValidation(t, srv, validSpecBody())
	createValidation(t, srv, validSpecBody())

	resp, err := http.Get(srv.URL + "/api/v1/validations?limit=1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	var decoded struct {
		Data []ValidationResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(decoded.Data) != 1 {
		t.Errorf("expected 1 validation with limit=1, got %d", len(decoded.Data))
	}
}

func TestGetValidationFindings(t *testing.T) {
	srv := newTestServer(t)

	// Спецификация с неудовлетворённой зависимостью
	body := `{
		"spec": {
			"stages": [
				{"name": "Collect"},
				{"name": "Render", "consumes": [{"kind": "Config"}]}
			]
		}
	}`
	id := createValidation(t, srv, body)

	resp, err := http.Get(srv.URL + "/api/v1/validations/" + id + "/findings")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	var decoded struct {
		Data FindingsResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if decoded.Data.Consistent {
		t.Error("expected inconsistent pipeline")
	}
	if len(decoded.Data.Findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(decoded.Data.Findings))
	}
	if decoded.Data.Findings[0].StageName != "Render" {
		t.Errorf("expected finding for Render, got %s", decoded.Data.Findings[0].StageName)
	}
}

func TestGetValidationGraph(t *testing.T) {
	srv := newTestServer(t)
	id := createValidation(t, srv, validSpecBody())

	// JSON по умолчанию
	resp, err := http.Get(srv.URL + "/api/v1/validations/" + id + "/graph")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %s", ct)
	}

	var graph domain.Graph
	if err := json.NewDecoder(resp.Body).Decode(&graph); err != nil {
		t.Fatalf("decode graph: %v", err)
	}
	if len(graph.Nodes) != 4 {
		t.Errorf("expected 4 nodes, got %d", len(graph.Nodes))
	}

	// DOT
	resp2, err := http.Get(srv.URL + "/api/v1/validations/" + id + "/graph?format=dot")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp2.Body.Close()

	if resp2.StatusCode != http.StatusOK {
		t.Errorf("expected status 200 for dot, got %d", resp2.StatusCode)
	}

	// Неизвестный формат
	resp3, err := http.Get(srv.URL + "/api/v1/validations/" + id + "/graph?format=tikz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp3.Body.Close()

	if resp3.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400 for unknown format, got %d", resp3.StatusCode)
	}
}

func TestDeleteValidation(t *testing.T) {
	srv := newTestServer(t)
	id := createValidation(t, srv, validSpecBody())

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/validations/"+id, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", resp.StatusCode)
	}

	// Повторное удаление — 404
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp2.Body.Close()

	if resp2.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", resp2.StatusCode)
	}
}

func TestListFormats(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/formats")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	var decoded struct {
		Data FormatsResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	want := []string{"dot", "json", "mermaid"}
	if len(decoded.Data.Formats) != len(want) {
		t.Fatalf("expected %d formats, got %d", len(want), len(decoded.Data.Formats))
	}
	for i, f := range want {
		if decoded.Data.Formats[i] != f {
			t.Errorf("format %d: expected %s, got %s", i, f, decoded.Data.Formats[i])
		}
	}
}
