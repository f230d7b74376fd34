package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"rainpath-cases/internal/casegraph"
	"rainpath-cases/internal/service"

	"go.uber.org/zap"
)

const casesPath = "/cases"

// CasesHandler /cases resource: CRUD, graph views, export and the creation draft.
type CasesHandler struct {
	cases   *service.CaseService
	drafts  *service.DraftService
	metrics *Metrics
	logger  *zap.Logger
}

// NewCasesHandler drafts and metrics may be nil; the draft routes then answer 404.
func NewCasesHandler(cases *service.CaseService, drafts *service.DraftService, metrics *Metrics, logger *zap.Logger) *CasesHandler {
	return &CasesHandler{
		cases:   cases,
		drafts:  drafts,
		metrics: metrics,
		logger:  logger,
	}
}

func (h *CasesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.URL.Path, casesPath) {
		h.notFound(w, r)
		return
	}
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, casesPath), "/")

	switch {
	case rest == "":
		switch r.Method {
		case http.MethodGet:
			h.ListCases(w, r)
		case http.MethodPost:
			h.CreateCase(w, r)
		default:
			h.methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
		}
	case rest == "draft":
		if h.drafts == nil {
			h.notFound(w, r)
			return
		}
		switch r.Method {
		case http.MethodGet:
			h.GetDraft(w, r)
		case http.MethodPut:
			h.SaveDraft(w, r)
		case http.MethodDelete:
			h.ClearDraft(w, r)
		default:
			h.methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
		}
	case rest == "export.xlsx":
		if r.Method != http.MethodGet {
			h.methodNotAllowed(w, r, http.MethodGet)
			return
		}
		h.ExportCases(w, r)
	default:
		h.serveCase(w, r, strings.Split(rest, "/"))
	}
}

// serveCase /cases/{id}[/graph|/graph.svg]
func (h *CasesHandler) serveCase(w http.ResponseWriter, r *http.Request, parts []string) {
	if len(parts) > 2 {
		h.notFound(w, r)
		return
	}
	id, ok := parseID(parts[0])
	if !ok {
		writeErrorMessage(w, http.StatusBadRequest, msgNumericID)
		return
	}

	if len(parts) == 2 {
		if r.Method != http.MethodGet {
			h.methodNotAllowed(w, r, http.MethodGet)
			return
		}
		switch parts[1] {
		case "graph":
			h.GetCaseGraph(w, r, id)
		case "graph.svg":
			h.GetCaseGraphSVG(w, r, id)
		default:
			h.notFound(w, r)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.GetCase(w, r, id)
	case http.MethodDelete:
		h.DeleteCase(w, r, id)
	default:
		h.methodNotAllowed(w, r, http.MethodGet, http.MethodDelete)
	}
}

// CreateCase POST /cases
func (h *CasesHandler) CreateCase(w http.ResponseWriter, r *http.Request) {
	var req service.CreateCaseRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	resp, err := h.cases.CreateCase(r.Context(), &req)
	if err != nil {
		h.logger.Debug("CreateCase rejected", zap.String("request_id", RequestIDFrom(r.Context())), zap.Error(err))
		writeError(w, h.logger, err)
		return
	}
	h.metrics.caseCreated()
	writeJSON(w, http.StatusCreated, resp)
}

// ListCases GET /cases
func (h *CasesHandler) ListCases(w http.ResponseWriter, r *http.Request) {
	list, err := h.cases.ListCases(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetCase GET /cases/{id}
func (h *CasesHandler) GetCase(w http.ResponseWriter, r *http.Request, id int64) {
	resp, err := h.cases.GetCase(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// DeleteCase DELETE /cases/{id}
func (h *CasesHandler) DeleteCase(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.cases.DeleteCase(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.metrics.caseDeleted()
	w.WriteHeader(http.StatusNoContent)
}

// GetCaseGraph GET /cases/{id}/graph
func (h *CasesHandler) GetCaseGraph(w http.ResponseWriter, r *http.Request, id int64) {
	g, err := h.cases.CaseGraph(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// GetCaseGraphSVG GET /cases/{id}/graph.svg
func (h *CasesHandler) GetCaseGraphSVG(w http.ResponseWriter, r *http.Request, id int64) {
	g, err := h.cases.CaseGraph(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	svg, err := casegraph.RenderSVG(r.Context(), casegraph.ToDOT(g))
	if err != nil {
		writeError(w, h.logger, fmt.Errorf("render case %d graph: %w", id, err))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

// ExportCases GET /cases/export.xlsx
func (h *CasesHandler) ExportCases(w http.ResponseWriter, r *http.Request) {
	rows, err := h.cases.ExportRows(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	data, err := GenerateCasesExport(rows)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	filename := fmt.Sprintf("cases_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *CasesHandler) notFound(w http.ResponseWriter, r *http.Request) {
	writeErrorMessage(w, http.StatusNotFound, fmt.Sprintf("Cannot %s %s", r.Method, r.URL.Path))
}

func (h *CasesHandler) methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeErrorMessage(w, http.StatusMethodNotAllowed, fmt.Sprintf("Cannot %s %s", r.Method, r.URL.Path))
}
