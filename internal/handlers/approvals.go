package handlers

import (
	"context"
	"net/http"

	"procurement/internal/approval"
	"procurement/internal/validator"
)

type decisionRequest struct {
	ApprovedBy string `json:"approvedBy" validate:"required,max=200"`
	Notes      string `json:"notes" validate:"max=2000"`
}

func (h *Handler) ApproveBidHandler(w http.ResponseWriter, r *http.Request) {
	h.decideBid(w, r, h.Approvals.Approve)
}

func (h *Handler) RejectBidHandler(w http.ResponseWriter, r *http.Request) {
	h.decideBid(w, r, h.Approvals.Reject)
}

// decideBid проверяет тело до обращения к базе; заявка берется из самого предложения
func (h *Handler) decideBid(w http.ResponseWriter, r *http.Request,
	decide func(context.Context, approval.Decision) (*approval.Result, error)) {
	bidID, ok := urlID(w, r, "bidId")
	if !ok {
		return
	}
	var in decisionRequest
	if !readJSON(w, r, &in) {
		return
	}
	in.ApprovedBy = validator.StripMarkup(in.ApprovedBy)
	in.Notes = validator.StripMarkup(in.Notes)
	if err := validator.Check(h.Validator, in); err != nil {
		h.writeError(w, r, err)
		return
	}

	bid, err := h.Store.GetBid(r.Context(), bidID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := decide(r.Context(), approval.Decision{
		RequisitionID: bid.RequisitionID,
		BidID:         bidID,
		ApprovedBy:    in.ApprovedBy,
		Notes:         in.Notes,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ListApprovedBidsHandler одобренные предложения для истории решений
func (h *Handler) ListApprovedBidsHandler(w http.ResponseWriter, r *http.Request) {
	bids, err := h.Store.ListApprovedBids(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bids)
}

func (h *Handler) ApprovalSummaryHandler(w http.ResponseWriter, r *http.Request) {
	summary, err := approval.BuildSummary(r.Context(), h.Store)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// RequisitionsWithBidsHandler заявки с предложениями и требуемым уровнем одобрения
func (h *Handler) RequisitionsWithBidsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := approval.RequisitionsWithBids(r.Context(), h.Store)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
