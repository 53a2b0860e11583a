package bidding

import (
	"context"
	"fmt"

	"procurement/internal/logger"
	"procurement/internal/validator"
	"procurement/models"

	"github.com/shopspring/decimal"
)

var MinBidAmount = decimal.RequireFromString("0.01")

const (
	DefaultCurrency     = "USD"
	DefaultDeliveryUnit = "days"
)

// Request предложение поставщика по заявке
type Request struct {
	VendorID      int             `json:"vendorId" validate:"required,gt=0"`
	RequisitionID int             `json:"requisitionId" validate:"required,gt=0"`
	BidAmount     decimal.Decimal `json:"bidAmount"`
	Currency      string          `json:"currency" validate:"omitempty,oneof=USD EUR GBP JPY CAD AUD"`
	DeliveryTime  int             `json:"deliveryTime" validate:"gte=1"`
	DeliveryUnit  string          `json:"deliveryUnit" validate:"omitempty,oneof=days weeks months"`
	Notes         string          `json:"notes" validate:"max=5000"`
}

type Store interface {
	HasApprovedMatch(ctx context.Context, vendorID, requisitionID int) (bool, error)
	UpsertBid(ctx context.Context, b *models.VendorBid) error
	ListVendorBids(ctx context.Context, vendorID int) ([]models.BidView, error)
}

type Service struct {
	store     Store
	logger    logger.LoggerInterface
	validator validator.Validator
}

func NewService(store Store, log logger.LoggerInterface) *Service {
	return &Service{
		store:     store,
		logger:    log.With("component", "bidding"),
		validator: validator.NewValidator(),
	}
}

// Submit сохраняет предложение. Подать его может только поставщик с одобренным сопоставлением;
// повторная подача обновляет существующее предложение.
func (s *Service) Submit(ctx context.Context, req Request) (*models.VendorBid, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	assigned, err := s.store.HasApprovedMatch(ctx, req.VendorID, req.RequisitionID)
	if err != nil {
		return nil, fmt.Errorf("check assignment: %w", err)
	}
	if !assigned {
		return nil, models.ErrVendorNotAssigned
	}

	bid := &models.VendorBid{
		VendorID:      req.VendorID,
		RequisitionID: req.RequisitionID,
		BidAmount:     req.BidAmount.Round(2),
		Currency:      req.Currency,
		DeliveryTime:  req.DeliveryTime,
		DeliveryUnit:  req.DeliveryUnit,
		Notes:         validator.StripMarkup(req.Notes),
	}
	if bid.Currency == "" {
		bid.Currency = DefaultCurrency
	}
	if bid.DeliveryUnit == "" {
		bid.DeliveryUnit = DefaultDeliveryUnit
	}

	if err := s.store.UpsertBid(ctx, bid); err != nil {
		s.logger.ErrorContext(ctx, "bid upsert failed", "vendor_id", req.VendorID, "requisition_id", req.RequisitionID, "error", err)
		return nil, fmt.Errorf("upsert bid: %w", err)
	}

	s.logger.InfoContext(ctx, "bid stored",
		"bid_id", bid.ID, "vendor_id", bid.VendorID, "requisition_id", bid.RequisitionID,
		"amount", bid.BidAmount.StringFixed(2), "status", bid.Status)
	return bid, nil
}

func (s *Service) validate(req Request) error {
	fields := s.validator.ValidateStruct(req)
	if req.BidAmount.Round(2).LessThan(MinBidAmount) {
		if fields == nil {
			fields = map[string]string{}
		}
		fields["bidAmount"] = "Bid Amount must be at least " + MinBidAmount.String()
	}
	if fields != nil {
		return &validator.Error{Fields: fields}
	}
	return nil
}

// History предложения поставщика с названиями заявок и решениями
func (s *Service) History(ctx context.Context, vendorID int) ([]models.BidView, error) {
	return s.store.ListVendorBids(ctx, vendorID)
}
