package handlers

import (
	"context"

	"procurement/models"
)

type StorageInterface interface {
	Ping(ctx context.Context) error

	CreateVendor(ctx context.Context, v *models.Vendor) error
	GetVendor(ctx context.Context, id int) (*models.Vendor, error)
	ListVendors(ctx context.Context) ([]models.Vendor, error)
	UpdateVendor(ctx context.Context, v *models.Vendor) error
	DeleteVendor(ctx context.Context, id int) error

	CreateRequisition(ctx context.Context, r *models.Requisition) error
	GetRequisition(ctx context.Context, id int) (*models.Requisition, error)
	ListRequisitions(ctx context.Context) ([]models.RequisitionSummary, error)
	UpdateRequisition(ctx context.Context, r *models.Requisition) error
	ListAssignedRequisitions(ctx context.Context, vendorID int) ([]models.Requisition, error)

	ListMatches(ctx context.Context, requisitionID int) ([]models.MatchView, error)
	ListMatchesByStatus(ctx context.Context, status models.DecisionStatus) ([]models.MatchView, error)

	GetBid(ctx context.Context, id int) (*models.VendorBid, error)
	ListBidsForRequisition(ctx context.Context, requisitionID int) ([]models.BidView, error)
	ListApprovedBids(ctx context.Context) ([]models.BidView, error)

	ListBidStats(ctx context.Context) ([]models.BidStats, error)
	CountApprovalsByTier(ctx context.Context) ([]models.TierCount, error)
}
