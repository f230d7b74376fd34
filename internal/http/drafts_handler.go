package httpapi

import (
	"net/http"

	"rainpath-cases/internal/service"
)

// draftName optional ?key= selecting one of several parallel drafts.
func draftName(r *http.Request) string {
	return r.URL.Query().Get("key")
}

// GetDraft GET /cases/draft: 200 with the draft, 204 when there is none.
func (h *CasesHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := h.drafts.ReadDraft(r.Context(), draftName(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if draft == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// SaveDraft PUT /cases/draft. The draft is not validated beyond its JSON shape.
func (h *CasesHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	var draft service.CreateCaseRequest
	if err := readBodyJSON(r, maxBodyBytes, &draft); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := h.drafts.SaveDraft(r.Context(), draftName(r), &draft); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearDraft DELETE /cases/draft
func (h *CasesHandler) ClearDraft(w http.ResponseWriter, r *http.Request) {
	if err := h.drafts.ClearDraft(r.Context(), draftName(r)); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
