package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rainpath-cases/internal/casegraph"
	"rainpath-cases/internal/repository"
	"rainpath-cases/internal/service"
	"rainpath-cases/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const dos1Body = `{"identifier":"DOS-1","specimens":[{"blocks":[{"slides":[{"staining":"HES"}]}]}]}`

func newTestRouter(t *testing.T) (*Router, *Metrics) {
	t.Helper()
	logger := zap.NewNop()
	metrics := NewMetrics()

	cases := service.NewCaseService(repository.NewMemoryCasesRepo(), nil, logger)
	drafts := service.NewDraftService(store.NewMemoryKV(), 0, logger)

	router := NewRouter(logger, metrics)
	router.RegisterCaseRoutes(NewCasesHandler(cases, drafts, metrics, logger))
	router.RegisterHealthRoutes()
	router.RegisterMetricsRoute()
	return router, metrics
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestCases_CreateGetListDelete(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/cases", dos1Body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(headerRequestID))
	created := decodeBody[service.CaseResponse](t, rec)
	assert.Equal(t, "DOS-1", created.Identifier)

	rec = do(t, router, http.MethodGet, fmt.Sprintf("/cases/%d", created.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[service.CaseResponse](t, rec)
	require.Len(t, got.Specimens, 1)
	require.Len(t, got.Specimens[0].Blocks, 1)
	assert.Equal(t, "HES", got.Specimens[0].Blocks[0].Slides[0].Staining)

	// camelCase transport keys
	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Contains(t, raw, "createdAt")
	assert.Contains(t, raw, "updatedAt")

	rec = do(t, router, http.MethodGet, "/cases", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]service.CaseResponse](t, rec), 1)

	rec = do(t, router, http.MethodDelete, fmt.Sprintf("/cases/%d", created.ID), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(t, router, http.MethodGet, fmt.Sprintf("/cases/%d", created.ID), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody[ErrorBody](t, rec)
	assert.Equal(t, 404, body.StatusCode)
	assert.Equal(t, fmt.Sprintf("Case with id %d not found", created.ID), body.Message)
	assert.Equal(t, "Not Found", body.Error)
}

func TestCases_ListEmptyIsArray(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/cases", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCases_DuplicateIdentifier(t *testing.T) {
	router, _ := newTestRouter(t)

	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/cases", dos1Body).Code)

	rec := do(t, router, http.MethodPost, "/cases", dos1Body)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t,
		`{"statusCode":409,"message":"A case with the same identifier already exists.","error":"Conflict"}`,
		rec.Body.String())
}

func TestCases_ValidationErrors(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name    string
		body    string
		message []string
	}{
		{
			name:    "empty levels",
			body:    `{"identifier":" ","specimens":[{"blocks":[]}]}`,
			message: []string{"identifier should not be empty", "specimens.0.blocks should not be empty"},
		},
		{
			name:    "unknown property",
			body:    `{"identifier":"X","specimens":[],"priority":1}`,
			message: []string{"property priority should not exist"},
		},
		{
			name:    "wrong type",
			body:    `{"identifier":"X","specimens":{}}`,
			message: []string{"specimens must be an array"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, "/cases", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var body struct {
				StatusCode int      `json:"statusCode"`
				Message    []string `json:"message"`
				Error      string   `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, 400, body.StatusCode)
			assert.Equal(t, tt.message, body.Message)
			assert.Equal(t, "Bad Request", body.Error)
		})
	}
}

func TestCases_UIDKeysAccepted(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"identifier":"UID-1","specimens":[{"uid":"a","blocks":[{"uid":"b","slides":[{"uid":"c","staining":" HES "}]}]}]}`
	rec := do(t, router, http.MethodPost, "/cases", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decodeBody[service.CaseResponse](t, rec)
	assert.Equal(t, "HES", created.Specimens[0].Blocks[0].Slides[0].Staining)
	assert.NotContains(t, rec.Body.String(), `"uid"`)
}

func TestCases_NonNumericID(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		rec := do(t, router, method, "/cases/abc", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t,
			`{"statusCode":400,"message":"Validation failed (numeric string is expected)","error":"Bad Request"}`,
			rec.Body.String())
	}
}

func TestCases_ZeroAndNegativeIDsAreNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, path := range []string{"/cases/0", "/cases/-1"} {
		for _, method := range []string{http.MethodGet, http.MethodDelete} {
			rec := do(t, router, method, path, "")
			assert.Equal(t, http.StatusNotFound, rec.Code, "%s %s", method, path)
			body := decodeBody[ErrorBody](t, rec)
			assert.Equal(t, "Not Found", body.Error)
		}
	}

	rec := do(t, router, http.MethodGet, "/cases/0/graph", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in string
		id int64
		ok bool
	}{
		{"42", 42, true},
		{"0", 0, true},
		{"-1", -1, true},
		{"+5", 0, false},
		{"abc", 0, false},
		{"1.5", 0, false},
		{"", 0, false},
		{"99999999999999999999", 0, false},
	}
	for _, tt := range tests {
		id, ok := parseID(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.id, id, tt.in)
	}
}

func TestCases_DeleteMissing(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodDelete, "/cases/77", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCases_MethodNotAllowed(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodPatch, "/cases/1", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, DELETE", rec.Header().Get("Allow"))
}

func TestCases_BodyTooLarge(t *testing.T) {
	router, _ := newTestRouter(t)

	big := `{"identifier":"` + strings.Repeat("x", int(maxBodyBytes)) + `","specimens":[]}`
	rec := do(t, router, http.MethodPost, "/cases", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestCases_Graph(t *testing.T) {
	router, _ := newTestRouter(t)

	created := decodeBody[service.CaseResponse](t, do(t, router, http.MethodPost, "/cases", dos1Body))

	rec := do(t, router, http.MethodGet, fmt.Sprintf("/cases/%d/graph", created.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	g := decodeBody[casegraph.Graph](t, rec)
	assert.Len(t, g.Nodes, 4)
	assert.Len(t, g.Edges, 3)
	assert.Equal(t, casegraph.Summary{Specimens: 1, Blocks: 1, Slides: 1}, g.Summary)
	assert.Equal(t, casegraph.CaseNodeID(created.ID), g.Nodes[0].ID)

	rec = do(t, router, http.MethodGet, "/cases/999/graph", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCases_GraphSVG(t *testing.T) {
	router, _ := newTestRouter(t)

	created := decodeBody[service.CaseResponse](t, do(t, router, http.MethodPost, "/cases", dos1Body))

	rec := do(t, router, http.MethodGet, fmt.Sprintf("/cases/%d/graph.svg", created.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<svg")
}

func TestCases_Drafts(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/cases/draft", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	draft := `{"identifier":"","specimens":[{"uid":"s1","blocks":[{"uid":"b1","slides":[{"uid":"x","staining":""}]}]}]}`
	rec = do(t, router, http.MethodPut, "/cases/draft", draft)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodGet, "/cases/draft", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, draft, rec.Body.String())

	// keyed drafts are independent
	rec = do(t, router, http.MethodGet, "/cases/draft?key=bench-2", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, router, http.MethodDelete, "/cases/draft", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, router, http.MethodGet, "/cases/draft", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCases_ExportXLSX(t *testing.T) {
	router, _ := newTestRouter(t)

	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/cases", dos1Body).Code)

	rec := do(t, router, http.MethodGet, "/cases/export.xlsx", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment;")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(casesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, CasesExportHeader, rows[0])
	assert.Equal(t, "DOS-1", rows[1][1])
	assert.Equal(t, "Block A", rows[1][3])
	assert.Equal(t, "HES", rows[1][5])
}

func TestHealthAndMetrics(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/cases", dos1Body).Code)

	rec = do(t, router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "rainpath_cases_created_total 1")
	assert.Contains(t, rec.Body.String(), `route="/cases"`)
}

func TestRouteLabel(t *testing.T) {
	assert.Equal(t, "/cases/:id/graph", routeLabel("/cases/42/graph"))
	assert.Equal(t, "/cases", routeLabel("/cases"))
	assert.Equal(t, "/cases/draft", routeLabel("/cases/draft"))
	assert.Equal(t, "/cases/:id", routeLabel("/cases/7/"))
	assert.Equal(t, "/cases/:id", routeLabel("/cases/-1"))

	for _, path := range []string{"/cases/abc", "/x/y/z", "/", "/cases/1/2/3", "/cases/1/graph.png"} {
		assert.Equal(t, routeOther, routeLabel(path), path)
	}
}

func TestMetrics_UnknownPathsShareOneLabel(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, path := range []string{"/nope", "/x/y/z", "/cases/abc", "/cases/1/unknown"} {
		do(t, router, http.MethodGet, path, "")
	}

	rec := do(t, router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `route="other"`)
	assert.NotContains(t, body, `route="/nope"`)
	assert.NotContains(t, body, `route="/x/y/z"`)
	assert.NotContains(t, body, `route="/cases/abc"`)
}
