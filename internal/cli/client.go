package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// --- Response types (дублируются из api/dto.go, CLI не импортирует internal/api) ---

// ValidationResponse — краткая проверка из API.
type ValidationResponse struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	PipelineName string `json:"pipeline_name,omitempty"`
	StageCount   int    `json:"stage_count"`
	FindingCount int    `json:"finding_count"`
	Error        string `json:"error,omitempty"`
	SubmittedAt  string `json:"submitted_at"`
	FinishedAt   string `json:"finished_at,omitempty"`
}

// ValidationDetailResponse — полная проверка из API.
type ValidationDetailResponse struct {
	ValidationResponse
	Spec   map[string]any `json:"spec"`
	Result map[string]any `json:"result,omitempty"`
}

// FindingResponse — одна missing-dependency проблема из API.
type FindingResponse struct {
	StageName       string `json:"stage_name"`
	MissingKindName string `json:"missing_kind_name"`
}

// FindingsResponse — findings проверки из API.
type FindingsResponse struct {
	Consistent bool              `json:"consistent"`
	Findings   []FindingResponse `json:"findings"`
}

// FormatsResponse — форматы экспорта из API.
type FormatsResponse struct {
	Formats []string `json:"formats"`
}

// --- API response wrappers ---

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type listResponse struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// --- Client ---

// Client — HTTP-клиент для Flowlens API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для API.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- Validations ---

// ListValidations возвращает проверки, новые первыми.
func (c *Client) ListValidations(limit int) ([]ValidationResponse, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", limit))
	}

	var validations []ValidationResponse
	err := c.list("/api/v1/validations", params, &validations)
	return validations, err
}

// CreateValidation отправляет спецификацию на проверку.
// spec — сырой JSON спецификации pipeline.
func (c *Client) CreateValidation(spec json.RawMessage) (*ValidationDetailResponse, error) {
	body := map[string]json.RawMessage{"spec": spec}
	var validation ValidationDetailResponse
	err := c.post("/api/v1/validations", body, &validation)
	return &validation, err
}

// GetValidation возвращает проверку по ID.
func (c *Client) GetValidation(id string) (*ValidationDetailResponse, error) {
	var validation ValidationDetailResponse
	err := c.get("/api/v1/validations/"+id, &validation)
	return &validation, err
}

// DeleteValidation удаляет проверку.
func (c *Client) DeleteValidation(id string) error {
	return c.delete("/api/v1/validations/" + id)
}

// GetFindings возвращает findings проверки.
func (c *Client) GetFindings(id string) (*FindingsResponse, error) {
	var findings FindingsResponse
	err := c.get("/api/v1/validations/"+id+"/findings", &findings)
	return &findings, err
}

// GetGraph возвращает граф проверки в указанном формате как сырые байты.
func (c *Client) GetGraph(id, format string) ([]byte, error) {
	path := "/api/v1/validations/" + id + "/graph"
	if format != "" {
		path += "?format=" + url.QueryEscape(format)
	}

	resp, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return nil, err
	}

	return io.ReadAll(resp.Body)
}

// ListFormats возвращает зарегистрированные форматы экспорта.
func (c *Client) ListFormats() ([]string, error) {
	var formats FormatsResponse
	err := c.get("/api/v1/formats", &formats)
	return formats.Formats, err
}

// --- HTTP helpers ---

func (c *Client) get(path string, result any) error {
	return c.doData(http.MethodGet, path, nil, result)
}

func (c *Client) post(path string, body any, result any) error {
	return c.doData(http.MethodPost, path, body, result)
}

func (c *Client) delete(path string) error {
	resp, err := c.do(http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.checkError(resp)
}

func (c *Client) list(path string, params url.Values, result any) error {
	if len(params) > 0 {
		path = path + "?" + params.Encode()
	}

	resp, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return json.Unmarshal(lr.Data, result)
}

func (c *Client) doData(method, path string, body any, result any) error {
	resp, err := c.do(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	// 204 No Content
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if result != nil {
		return json.Unmarshal(dr.Data, result)
	}
	return nil
}

func (c *Client) do(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}

	return fmt.Errorf("%s: %s", er.Error.Code, er.Error.Message)
}
