package db

import (
	"context"

	"procurement/models"

	"github.com/shopspring/decimal"
)

// LockRequisition блокирует строку заявки до конца транзакции,
// чтобы параллельные решения по одной заявке выполнялись последовательно.
func (t *Tx) LockRequisition(ctx context.Context, requisitionID int) error {
	var id int
	err := t.tx.GetContext(ctx, &id, `SELECT id FROM requisitions WHERE id = $1 FOR UPDATE`, requisitionID)
	return translateErr(err)
}

// BidAmounts суммы всех предложений заявки по id предложения
func (t *Tx) BidAmounts(ctx context.Context, requisitionID int) (map[int]decimal.Decimal, error) {
	var rows []struct {
		ID     int             `db:"id"`
		Amount decimal.Decimal `db:"bid_amount"`
	}
	err := t.tx.SelectContext(ctx, &rows,
		`SELECT id, bid_amount FROM vendor_bids WHERE requisition_id = $1`, requisitionID)
	if err != nil {
		return nil, err
	}
	amounts := make(map[int]decimal.Decimal, len(rows))
	for _, r := range rows {
		amounts[r.ID] = r.Amount
	}
	return amounts, nil
}

// UpsertApproval пишет решение по предложению, перезаписывая существующее
func (t *Tx) UpsertApproval(ctx context.Context, a *models.BidApproval) error {
	query := `
        INSERT INTO bid_approvals
            (requisition_id, vendor_bid_id, approval_tier, approved_by, approved_at, approval_notes, status)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (vendor_bid_id) DO UPDATE SET
            requisition_id = EXCLUDED.requisition_id,
            approval_tier = EXCLUDED.approval_tier,
            approved_by = EXCLUDED.approved_by,
            approved_at = EXCLUDED.approved_at,
            approval_notes = EXCLUDED.approval_notes,
            status = EXCLUDED.status
        RETURNING id`
	err := t.tx.QueryRowContext(ctx, query,
		a.RequisitionID, a.VendorBidID, a.ApprovalTier, a.ApprovedBy,
		a.ApprovedAt, a.ApprovalNotes, a.Status).
		Scan(&a.ID)
	return translateErr(err)
}

func (s *Storage) GetApproval(ctx context.Context, bidID int) (*models.BidApproval, error) {
	a := &models.BidApproval{}
	query := `
        SELECT id, requisition_id, vendor_bid_id, approval_tier, approved_by,
            approved_at, approval_notes, status
        FROM bid_approvals WHERE vendor_bid_id = $1`
	if err := s.db.GetContext(ctx, a, query, bidID); err != nil {
		return nil, translateErr(err)
	}
	return a, nil
}

// ListBidStats агрегаты по заявкам, у которых есть предложения.
// Decided истинно, если по заявке уже одобрено предложение.
func (s *Storage) ListBidStats(ctx context.Context) ([]models.BidStats, error) {
	query := `
        SELECT r.id AS requisition_id, r.title AS requisition_title,
            COUNT(b.id) AS bid_count,
            MIN(b.bid_amount) AS min_bid,
            MAX(b.bid_amount) AS max_bid,
            ROUND(AVG(b.bid_amount), 2) AS avg_bid,
            MIN(b.currency) AS currency,
            EXISTS (
                SELECT 1 FROM bid_approvals ba
                WHERE ba.requisition_id = r.id AND ba.status = 'approved'
            ) AS decided
        FROM requisitions r
        JOIN vendor_bids b ON b.requisition_id = r.id
        GROUP BY r.id, r.title
        ORDER BY r.id DESC`
	stats := []models.BidStats{}
	if err := s.db.SelectContext(ctx, &stats, query); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Storage) CountApprovalsByTier(ctx context.Context) ([]models.TierCount, error) {
	query := `
        SELECT approval_tier, COUNT(1) AS count
        FROM bid_approvals
        WHERE status = 'approved'
        GROUP BY approval_tier`
	counts := []models.TierCount{}
	if err := s.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, err
	}
	return counts, nil
}
