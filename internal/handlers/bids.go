package handlers

import (
	"net/http"

	"procurement/internal/bidding"
	"procurement/models"
)

// SubmitBidHandler обрабатывает POST /api/bids.
// Новое предложение отвечает 201, обновление существующего 200.
func (h *Handler) SubmitBidHandler(w http.ResponseWriter, r *http.Request) {
	var in bidding.Request
	if !readJSON(w, r, &in) {
		return
	}

	bid, err := h.Bids.Submit(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if bid.Status == models.BidSubmitted {
		status = http.StatusCreated
	}
	writeJSON(w, status, bid)
}

// ListRequisitionBidsHandler предложения заявки по возрастанию суммы вместе с решениями
func (h *Handler) ListRequisitionBidsHandler(w http.ResponseWriter, r *http.Request) {
	reqID, ok := urlID(w, r, "requisitionId")
	if !ok {
		return
	}
	if _, err := h.Store.GetRequisition(r.Context(), reqID); err != nil {
		h.writeError(w, r, err)
		return
	}

	bids, err := h.Store.ListBidsForRequisition(r.Context(), reqID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bids)
}

// RequiredTierHandler уровень одобрения по максимальному предложению заявки
func (h *Handler) RequiredTierHandler(w http.ResponseWriter, r *http.Request) {
	reqID, ok := urlID(w, r, "requisitionId")
	if !ok {
		return
	}
	tier, err := h.Approvals.RequiredTier(r.Context(), reqID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tier)
}
