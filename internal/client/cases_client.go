// Package client is a typed HTTP client for the rainpath-cases API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"rainpath-cases/internal/casegraph"
	"rainpath-cases/internal/service"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// APIError non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// CasesClient wraps the /cases endpoints.
type CasesClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

func NewCasesClient(baseURL string, timeout time.Duration, logger *zap.Logger) *CasesClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(retryTransportErrors).
		SetHeader("Accept", "application/json")

	return &CasesClient{httpClient: client, logger: logger}
}

func (c *CasesClient) ListCases(ctx context.Context) ([]service.CaseResponse, error) {
	var out []service.CaseResponse
	if _, err := c.do(ctx, http.MethodGet, "/cases", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CasesClient) GetCase(ctx context.Context, id int64) (*service.CaseResponse, error) {
	var out service.CaseResponse
	if _, err := c.do(ctx, http.MethodGet, casePath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *CasesClient) CreateCase(ctx context.Context, req *service.CreateCaseRequest) (*service.CaseResponse, error) {
	var out service.CaseResponse
	if _, err := c.do(ctx, http.MethodPost, "/cases", req, &out); err != nil {
		return nil, err
	}
	c.logger.Info("case created", zap.Int64("case_id", out.ID), zap.String("identifier", out.Identifier))
	return &out, nil
}

func (c *CasesClient) DeleteCase(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, casePath(id), nil, nil)
	return err
}

func (c *CasesClient) CaseGraph(ctx context.Context, id int64) (*casegraph.Graph, error) {
	var out casegraph.Graph
	if _, err := c.do(ctx, http.MethodGet, casePath(id)+"/graph", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *CasesClient) CaseGraphSVG(ctx context.Context, id int64) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, casePath(id)+"/graph.svg", nil, nil)
	if err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

func (c *CasesClient) ExportCases(ctx context.Context) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, "/cases/export.xlsx", nil, nil)
	if err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

// ReadDraft nil, nil when no draft is saved under key.
func (c *CasesClient) ReadDraft(ctx context.Context, key string) (*service.CreateCaseRequest, error) {
	resp, err := c.do(ctx, http.MethodGet, draftPath(key), nil, nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == http.StatusNoContent || len(resp.Body()) == 0 {
		return nil, nil
	}
	var out service.CreateCaseRequest
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return &out, nil
}

func (c *CasesClient) SaveDraft(ctx context.Context, key string, draft *service.CreateCaseRequest) error {
	_, err := c.do(ctx, http.MethodPut, draftPath(key), draft, nil)
	return err
}

func (c *CasesClient) ClearDraft(ctx context.Context, key string) error {
	_, err := c.do(ctx, http.MethodDelete, draftPath(key), nil, nil)
	return err
}

func (c *CasesClient) do(ctx context.Context, method, path string, body, result any) (*resty.Response, error) {
	req := c.httpClient.R().SetContext(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		c.logger.Error("cases API call failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		apiErr := &APIError{StatusCode: resp.StatusCode(), Message: errorMessage(resp.StatusCode(), resp.Body())}
		c.logger.Debug("cases API returned error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status_code", apiErr.StatusCode),
			zap.String("message", apiErr.Message),
		)
		return nil, apiErr
	}
	return resp, nil
}

// retryTransportErrors retries failed round trips except POST: a create may have been
// committed before the connection broke, and a replay would answer 409.
func retryTransportErrors(resp *resty.Response, err error) bool {
	if err == nil {
		return false
	}
	if resp != nil && resp.Request != nil && resp.Request.Method == http.MethodPost {
		return false
	}
	return true
}

// errorMessage server-provided message (string or list joined with ", "), else a generic one.
func errorMessage(status int, body []byte) string {
	message := fmt.Sprintf("Request failed with status %d", status)

	var payload struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Message) == 0 {
		return message
	}

	var single string
	if err := json.Unmarshal(payload.Message, &single); err == nil && single != "" {
		return single
	}
	var many []string
	if err := json.Unmarshal(payload.Message, &many); err == nil && len(many) > 0 {
		return strings.Join(many, ", ")
	}
	return message
}

func casePath(id int64) string {
	return "/cases/" + strconv.FormatInt(id, 10)
}

func draftPath(key string) string {
	if key == "" {
		return "/cases/draft"
	}
	return "/cases/draft?key=" + url.QueryEscape(key)
}
