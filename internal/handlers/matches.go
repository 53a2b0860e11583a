package handlers

import (
	"net/http"

	"procurement/internal/matching"
	"procurement/models"
)

type matchRunResponse struct {
	Matches  []matching.Match `json:"matches"`
	Inserted int              `json:"inserted"`
}

// RunMatchingHandler подбирает поставщиков для заявки и сохраняет их как pending.
// Пустой результат не трогает уже сохраненные сопоставления.
func (h *Handler) RunMatchingHandler(w http.ResponseWriter, r *http.Request) {
	reqID, ok := urlID(w, r, "requisitionId")
	if !ok {
		return
	}
	req, err := h.Store.GetRequisition(r.Context(), reqID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	vendors, err := h.Store.ListVendors(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	matches, err := h.Matcher.Match(r.Context(), *req, vendors)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := matchRunResponse{Matches: matches}
	if len(matches) > 0 {
		resp.Inserted, err = h.Matcher.SaveMatches(r.Context(), reqID, matches)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) ListRequisitionMatchesHandler(w http.ResponseWriter, r *http.Request) {
	reqID, ok := urlID(w, r, "requisitionId")
	if !ok {
		return
	}
	if _, err := h.Store.GetRequisition(r.Context(), reqID); err != nil {
		h.writeError(w, r, err)
		return
	}

	list, err := h.Store.ListMatches(r.Context(), reqID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// ListMatchesHandler обрабатывает GET /api/matches?status=; по умолчанию pending
func (h *Handler) ListMatchesHandler(w http.ResponseWriter, r *http.Request) {
	status := models.StatusPending
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, err := models.ParseDecisionStatus(raw)
		if err != nil {
			http.Error(w, "Invalid status", http.StatusBadRequest)
			return
		}
		status = parsed
	}

	list, err := h.Store.ListMatchesByStatus(r.Context(), status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type matchStatusRequest struct {
	Status string `json:"status"`
}

// UpdateMatchStatusHandler обрабатывает PUT /api/matches/{matchId}/status
func (h *Handler) UpdateMatchStatusHandler(w http.ResponseWriter, r *http.Request) {
	matchID, ok := urlID(w, r, "matchId")
	if !ok {
		return
	}
	var in matchStatusRequest
	if !readJSON(w, r, &in) {
		return
	}
	status, err := models.ParseDecisionStatus(in.Status)
	if err != nil {
		http.Error(w, "Invalid status", http.StatusBadRequest)
		return
	}

	match, err := h.Matcher.UpdateStatus(r.Context(), matchID, status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, match)
}
