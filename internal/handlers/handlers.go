package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"procurement/internal/approval"
	"procurement/internal/bidding"
	"procurement/internal/intake"
	"procurement/internal/logger"
	"procurement/internal/matching"
	"procurement/internal/validator"
	"procurement/models"

	"github.com/go-chi/chi/v5"
)

// ограничение размера тела запроса
const maxBodyBytes = 1048576

type ApprovalService interface {
	Approve(ctx context.Context, d approval.Decision) (*approval.Result, error)
	Reject(ctx context.Context, d approval.Decision) (*approval.Result, error)
	RequiredTier(ctx context.Context, requisitionID int) (approval.Tier, error)
}

type MatchService interface {
	Match(ctx context.Context, req models.Requisition, vendors []models.Vendor) ([]matching.Match, error)
	SaveMatches(ctx context.Context, requisitionID int, matches []matching.Match) (int, error)
	UpdateStatus(ctx context.Context, matchID int, to models.DecisionStatus) (*models.VendorMatch, error)
}

type DraftService interface {
	Draft(ctx context.Context, request string) (*intake.Draft, error)
}

type BidService interface {
	Submit(ctx context.Context, req bidding.Request) (*models.VendorBid, error)
	History(ctx context.Context, vendorID int) ([]models.BidView, error)
}

// Services прикладные сервисы, которые вызывают обработчики
type Services struct {
	Approvals ApprovalService
	Matcher   MatchService
	Drafter   DraftService
	Bids      BidService
}

// Handler оборачивает хранилище и сервисы
type Handler struct {
	Store StorageInterface
	Services
	Validator validator.Validator
	Logger    logger.LoggerInterface
	now       func() time.Time
}

// NewHandler создает новый Handler
func NewHandler(store StorageInterface, svc Services, log logger.LoggerInterface) *Handler {
	return &Handler{
		Store:     store,
		Services:  svc,
		Validator: validator.NewValidator(),
		Logger:    log.With("component", "http"),
		now:       time.Now,
	}
}

// PingHandler отвечает "ok", если база доступна
func (h *Handler) PingHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Ping(r.Context()); err != nil {
		h.Logger.ErrorContext(r.Context(), "ping failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// readJSON читает тело запроса; при ошибке ответ уже отправлен
func readJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return false
	}
	defer r.Body.Close()

	if err := json.Unmarshal(body, dst); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func urlID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		http.Error(w, "Invalid "+name, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// statusFor сопоставляет доменную ошибку с HTTP-статусом
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, models.ErrVendorNotAssigned),
		errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, models.ErrLLMUnavailable),
		errors.Is(err, models.ErrMalformedDraft):
		return http.StatusBadGateway
	case errors.Is(err, models.ErrLLMDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, models.ErrInvalidStatus),
		errors.Is(err, models.ErrApproverRequired),
		errors.Is(err, models.ErrNegativeAmount),
		errors.Is(err, models.ErrInvalidBid):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *validator.Error
	if errors.As(err, &vErr) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": vErr.Fields})
		return
	}

	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.Logger.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		http.Error(w, "Internal server error", status)
		return
	}
	h.Logger.WarnContext(r.Context(), "request rejected", "path", r.URL.Path, "status", status, "error", err)
	http.Error(w, err.Error(), status)
}
