package handlers

import (
	"net/http"
	"strings"

	"procurement/internal/validator"
	"procurement/models"
)

func cleanVendor(v *models.Vendor) {
	v.Name = validator.StripMarkup(v.Name)
	v.Email = strings.TrimSpace(v.Email)
	v.Description = validator.StripMarkup(v.Description)
}

func (h *Handler) ListVendorsHandler(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.Store.ListVendors(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vendors)
}

// CreateVendorHandler обрабатывает POST /api/vendors
func (h *Handler) CreateVendorHandler(w http.ResponseWriter, r *http.Request) {
	var vendor models.Vendor
	if !readJSON(w, r, &vendor) {
		return
	}
	cleanVendor(&vendor)
	if err := validator.Check(h.Validator, vendor); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.Store.CreateVendor(r.Context(), &vendor); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, vendor)
}

func (h *Handler) GetVendorHandler(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := urlID(w, r, "vendorId")
	if !ok {
		return
	}
	vendor, err := h.Store.GetVendor(r.Context(), vendorID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vendor)
}

// UpdateVendorHandler обрабатывает PUT /api/vendors/{vendorId}, запись заменяется целиком
func (h *Handler) UpdateVendorHandler(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := urlID(w, r, "vendorId")
	if !ok {
		return
	}
	var vendor models.Vendor
	if !readJSON(w, r, &vendor) {
		return
	}
	vendor.ID = vendorID
	cleanVendor(&vendor)
	if err := validator.Check(h.Validator, vendor); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.Store.UpdateVendor(r.Context(), &vendor); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vendor)
}

func (h *Handler) DeleteVendorHandler(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := urlID(w, r, "vendorId")
	if !ok {
		return
	}
	if err := h.Store.DeleteVendor(r.Context(), vendorID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetVendorRequisitionsHandler заявки, на которые поставщик назначен (одобренное сопоставление)
func (h *Handler) GetVendorRequisitionsHandler(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := urlID(w, r, "vendorId")
	if !ok {
		return
	}
	if _, err := h.Store.GetVendor(r.Context(), vendorID); err != nil {
		h.writeError(w, r, err)
		return
	}

	list, err := h.Store.ListAssignedRequisitions(r.Context(), vendorID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) GetVendorBidsHandler(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := urlID(w, r, "vendorId")
	if !ok {
		return
	}
	if _, err := h.Store.GetVendor(r.Context(), vendorID); err != nil {
		h.writeError(w, r, err)
		return
	}

	bids, err := h.Bids.History(r.Context(), vendorID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bids)
}
