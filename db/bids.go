package db

import (
	"context"

	"procurement/models"
)

const bidViewQuery = `
        SELECT b.id, b.vendor_id, b.requisition_id, b.bid_amount, b.currency,
            b.delivery_time, b.delivery_unit, b.notes, b.bid_timestamp, b.status,
            v.name AS vendor_name, v.email AS vendor_email, r.title AS requisition_title,
            ba.status AS approval_status, ba.approval_tier, ba.approved_by,
            ba.approved_at, ba.approval_notes
        FROM vendor_bids b
        JOIN vendors v ON v.id = b.vendor_id
        JOIN requisitions r ON r.id = b.requisition_id
        LEFT JOIN bid_approvals ba ON ba.vendor_bid_id = b.id`

// UpsertBid сохраняет предложение. Для пары (поставщик, заявка) существует ровно одна строка:
// повторная отправка обновляет ее и помечает статусом updated.
func (s *Storage) UpsertBid(ctx context.Context, b *models.VendorBid) error {
	query := `
        INSERT INTO vendor_bids
            (vendor_id, requisition_id, bid_amount, currency, delivery_time, delivery_unit, notes, bid_timestamp, status)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, NOW(), 'submitted')
        ON CONFLICT (vendor_id, requisition_id) DO UPDATE SET
            bid_amount = EXCLUDED.bid_amount,
            currency = EXCLUDED.currency,
            delivery_time = EXCLUDED.delivery_time,
            delivery_unit = EXCLUDED.delivery_unit,
            notes = EXCLUDED.notes,
            bid_timestamp = NOW(),
            status = 'updated'
        RETURNING id, bid_timestamp, status`
	err := s.db.QueryRowContext(ctx, query,
		b.VendorID, b.RequisitionID, b.BidAmount, b.Currency,
		b.DeliveryTime, b.DeliveryUnit, b.Notes).
		Scan(&b.ID, &b.BidTimestamp, &b.Status)
	return translateErr(err)
}

func (s *Storage) GetBid(ctx context.Context, id int) (*models.VendorBid, error) {
	b := &models.VendorBid{}
	query := `
        SELECT id, vendor_id, requisition_id, bid_amount, currency, delivery_time,
            delivery_unit, notes, bid_timestamp, status
        FROM vendor_bids WHERE id = $1`
	if err := s.db.GetContext(ctx, b, query, id); err != nil {
		return nil, translateErr(err)
	}
	return b, nil
}

// ListBidsForRequisition предложения по заявке от меньшей суммы к большей
func (s *Storage) ListBidsForRequisition(ctx context.Context, requisitionID int) ([]models.BidView, error) {
	query := bidViewQuery + `
        WHERE b.requisition_id = $1
        ORDER BY b.bid_amount ASC, b.id ASC`
	bids := []models.BidView{}
	if err := s.db.SelectContext(ctx, &bids, query, requisitionID); err != nil {
		return nil, err
	}
	return bids, nil
}

// ListVendorBids история предложений поставщика
func (s *Storage) ListVendorBids(ctx context.Context, vendorID int) ([]models.BidView, error) {
	query := bidViewQuery + `
        WHERE b.vendor_id = $1
        ORDER BY b.bid_timestamp DESC`
	bids := []models.BidView{}
	if err := s.db.SelectContext(ctx, &bids, query, vendorID); err != nil {
		return nil, err
	}
	return bids, nil
}

// ListApprovedBids одобренные предложения, последние решения первыми
func (s *Storage) ListApprovedBids(ctx context.Context) ([]models.BidView, error) {
	query := bidViewQuery + `
        WHERE ba.status = 'approved'
        ORDER BY ba.approved_at DESC`
	bids := []models.BidView{}
	if err := s.db.SelectContext(ctx, &bids, query); err != nil {
		return nil, err
	}
	return bids, nil
}
