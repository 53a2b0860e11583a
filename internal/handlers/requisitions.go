package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"procurement/internal/intake"
	"procurement/internal/release"
	"procurement/internal/validator"
	"procurement/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func cleanRequisition(req *models.Requisition) {
	req.Title = validator.StripMarkup(req.Title)
	req.Description = validator.StripMarkup(req.Description)
	req.Unit = validator.StripMarkup(req.Unit)
}

// ListRequisitionsHandler заявки с количеством сопоставленных и одобренных поставщиков
func (h *Handler) ListRequisitionsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.Store.ListRequisitions(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// CreateRequisitionHandler обрабатывает POST /api/requisitions.
// Черновик из /requisitions/draft сохраняется этим же запросом с generatedByAi=true.
func (h *Handler) CreateRequisitionHandler(w http.ResponseWriter, r *http.Request) {
	var req models.Requisition
	if !readJSON(w, r, &req) {
		return
	}
	cleanRequisition(&req)
	if err := validator.Check(h.Validator, req); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.Store.CreateRequisition(r.Context(), &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (h *Handler) GetRequisitionHandler(w http.ResponseWriter, r *http.Request) {
	reqID, ok := urlID(w, r, "requisitionId")
	if !ok {
		return
	}
	req, err := h.Store.GetRequisition(r.Context(), reqID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (h *Handler) UpdateRequisitionHandler(w http.ResponseWriter, r *http.Request) {
	reqID, ok := urlID(w, r, "requisitionId")
	if !ok {
		return
	}
	var req models.Requisition
	if !readJSON(w, r, &req) {
		return
	}
	req.ID = reqID
	cleanRequisition(&req)
	if err := validator.Check(h.Validator, req); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.Store.UpdateRequisition(r.Context(), &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

type draftRequest struct {
	Request string `json:"request"`
}

type draftResponse struct {
	Draft       *intake.Draft      `json:"draft"`
	Requisition models.Requisition `json:"requisition"`
}

// DraftRequisitionHandler составляет черновик заявки из свободного текста; ничего не сохраняет
func (h *Handler) DraftRequisitionHandler(w http.ResponseWriter, r *http.Request) {
	var in draftRequest
	if !readJSON(w, r, &in) {
		return
	}

	draft, err := h.Drafter.Draft(r.Context(), in.Request)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, draftResponse{Draft: draft, Requisition: draft.Requisition()})
}

// ReleaseRequisitionHandler отдает PDF заявки; ?inline=true для просмотра в браузере
func (h *Handler) ReleaseRequisitionHandler(w http.ResponseWriter, r *http.Request) {
	reqID, ok := urlID(w, r, "requisitionId")
	if !ok {
		return
	}
	req, err := h.Store.GetRequisition(r.Context(), reqID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := release.RenderRequisition(&buf, *req, h.now()); err != nil {
		h.writeError(w, r, err)
		return
	}

	disposition := "attachment"
	if r.URL.Query().Get("inline") == "true" {
		disposition = "inline"
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, release.FileName(*req)))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// BidComparisonHandler выгружает предложения по заявке в XLSX
func (h *Handler) BidComparisonHandler(w http.ResponseWriter, r *http.Request) {
	reqID, ok := urlID(w, r, "requisitionId")
	if !ok {
		return
	}
	req, err := h.Store.GetRequisition(r.Context(), reqID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	bids, err := h.Store.ListBidsForRequisition(r.Context(), reqID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := release.RenderBidComparison(&buf, *req, bids); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", release.ComparisonFileName(*req)))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
