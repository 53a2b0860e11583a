package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Сущность Поставщика
type Vendor struct {
	ID          int       `db:"id" json:"id"`
	Name        string    `db:"name" json:"name" validate:"required,max=200"`
	Email       string    `db:"email" json:"email" validate:"required,email,max=320"`
	Description string    `db:"description" json:"description" validate:"max=5000"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// Сущность Заявки на закупку
type Requisition struct {
	ID            int       `db:"id" json:"id"`
	Title         string    `db:"title" json:"title" validate:"required,max=255"`
	Description   string    `db:"description" json:"description" validate:"max=10000"`
	Quantity      int       `db:"quantity" json:"quantity" validate:"gte=1"`
	Unit          string    `db:"unit" json:"unit" validate:"required,max=50"`
	RequestDate   Date      `db:"request_date" json:"requestDate"`
	GeneratedByAI bool      `db:"generated_by_ai" json:"generatedByAi"`
	Timestamp     time.Time `db:"timestamp" json:"timestamp"`
}

// RequisitionSummary заявка со счетчиками сопоставлений
type RequisitionSummary struct {
	Requisition
	VendorCount   int `db:"vendor_count" json:"vendorCount"`
	ApprovedCount int `db:"approved_count" json:"approvedCount"`
}

// Сущность Предложения поставщика
type VendorBid struct {
	ID            int             `db:"id" json:"id"`
	VendorID      int             `db:"vendor_id" json:"vendorId"`
	RequisitionID int             `db:"requisition_id" json:"requisitionId"`
	BidAmount     decimal.Decimal `db:"bid_amount" json:"bidAmount"`
	Currency      string          `db:"currency" json:"currency"`
	DeliveryTime  int             `db:"delivery_time" json:"deliveryTime"`
	DeliveryUnit  string          `db:"delivery_unit" json:"deliveryUnit"`
	Notes         string          `db:"notes" json:"notes"`
	BidTimestamp  time.Time       `db:"bid_timestamp" json:"bidTimestamp"`
	Status        BidStatus       `db:"status" json:"status"`
}

// BidView предложение вместе с поставщиком и решением по нему
type BidView struct {
	VendorBid
	VendorName       string          `db:"vendor_name" json:"vendorName"`
	VendorEmail      string          `db:"vendor_email" json:"vendorEmail"`
	RequisitionTitle string          `db:"requisition_title" json:"requisitionTitle"`
	ApprovalStatus   *DecisionStatus `db:"approval_status" json:"approvalStatus,omitempty"`
	ApprovalTier     *string         `db:"approval_tier" json:"approvalTier,omitempty"`
	ApprovedBy       *string         `db:"approved_by" json:"approvedBy,omitempty"`
	ApprovedAt       *time.Time      `db:"approved_at" json:"approvedAt,omitempty"`
	ApprovalNotes    *string         `db:"approval_notes" json:"approvalNotes,omitempty"`
}

// Сущность Сопоставления поставщика и заявки
type VendorMatch struct {
	ID            int            `db:"id" json:"id"`
	RequisitionID int            `db:"requisition_id" json:"requisitionId"`
	VendorID      int            `db:"vendor_id" json:"vendorId"`
	MatchScore    float64        `db:"match_score" json:"matchScore"`
	MatchReason   string         `db:"match_reason" json:"matchReason"`
	Status        DecisionStatus `db:"status" json:"status"`
	CreatedAt     time.Time      `db:"created_at" json:"createdAt"`
	ApprovedAt    *time.Time     `db:"approved_at" json:"approvedAt,omitempty"`
}

// MatchView сопоставление с названиями для отображения
type MatchView struct {
	VendorMatch
	VendorName       string `db:"vendor_name" json:"vendorName"`
	VendorEmail      string `db:"vendor_email" json:"vendorEmail"`
	RequisitionTitle string `db:"requisition_title" json:"requisitionTitle"`
}

// Сущность Решения по предложению
type BidApproval struct {
	ID            int            `db:"id" json:"id"`
	RequisitionID int            `db:"requisition_id" json:"requisitionId"`
	VendorBidID   int            `db:"vendor_bid_id" json:"vendorBidId"`
	ApprovalTier  string         `db:"approval_tier" json:"approvalTier"`
	ApprovedBy    string         `db:"approved_by" json:"approvedBy"`
	ApprovedAt    time.Time      `db:"approved_at" json:"approvedAt"`
	ApprovalNotes string         `db:"approval_notes" json:"approvalNotes"`
	Status        DecisionStatus `db:"status" json:"status"`
}

// BidStats агрегаты по предложениям одной заявки
type BidStats struct {
	RequisitionID    int             `db:"requisition_id" json:"requisitionId"`
	RequisitionTitle string          `db:"requisition_title" json:"requisitionTitle"`
	BidCount         int             `db:"bid_count" json:"bidCount"`
	MinBid           decimal.Decimal `db:"min_bid" json:"minBid"`
	MaxBid           decimal.Decimal `db:"max_bid" json:"maxBid"`
	AvgBid           decimal.Decimal `db:"avg_bid" json:"avgBid"`
	Currency         string          `db:"currency" json:"currency"`
	Decided          bool            `db:"decided" json:"decided"`
	RequiredTier     string          `db:"-" json:"requiredTier"`
}

// TierCount количество одобренных предложений на уровне
type TierCount struct {
	Tier  string `db:"approval_tier" json:"tier"`
	Count int    `db:"count" json:"count"`
}
