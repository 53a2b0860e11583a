package db

import (
	"context"
	"time"

	"procurement/models"
)

const matchViewQuery = `
        SELECT rv.id, rv.requisition_id, rv.vendor_id, rv.match_score, rv.match_reason,
            rv.status, rv.created_at, rv.approved_at,
            v.name AS vendor_name, v.email AS vendor_email, r.title AS requisition_title
        FROM requisition_vendors rv
        JOIN vendors v ON v.id = rv.vendor_id
        JOIN requisitions r ON r.id = rv.requisition_id`

// ReplacePendingMatches удаляет нерешенные сопоставления заявки и вставляет новые как pending.
// Одобренные и отклоненные сохраняются; новое сопоставление для того же поставщика пропускается.
func (s *Storage) ReplacePendingMatches(ctx context.Context, requisitionID int, matches []models.VendorMatch) (int, error) {
	inserted := 0
	err := s.WithTx(ctx, func(tx *Tx) error {
		_, err := tx.tx.ExecContext(ctx,
			`DELETE FROM requisition_vendors WHERE requisition_id = $1 AND status = 'pending'`,
			requisitionID)
		if err != nil {
			return err
		}

		query := `
            INSERT INTO requisition_vendors
                (requisition_id, vendor_id, match_score, match_reason, status, created_at)
            VALUES
                ($1, $2, $3, $4, 'pending', $5)
            ON CONFLICT (requisition_id, vendor_id) DO NOTHING`
		for _, m := range matches {
			res, err := tx.tx.ExecContext(ctx, query,
				requisitionID, m.VendorID, m.MatchScore, m.MatchReason, m.CreatedAt)
			if err != nil {
				return translateErr(err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			inserted += int(n)
		}
		return nil
	})
	return inserted, err
}

func (s *Storage) GetMatch(ctx context.Context, id int) (*models.VendorMatch, error) {
	m := &models.VendorMatch{}
	query := `
        SELECT id, requisition_id, vendor_id, match_score, match_reason, status, created_at, approved_at
        FROM requisition_vendors WHERE id = $1`
	if err := s.db.GetContext(ctx, m, query, id); err != nil {
		return nil, translateErr(err)
	}
	return m, nil
}

// ListMatches сопоставления заявки по убыванию оценки
func (s *Storage) ListMatches(ctx context.Context, requisitionID int) ([]models.MatchView, error) {
	query := matchViewQuery + `
        WHERE rv.requisition_id = $1
        ORDER BY rv.match_score DESC`
	list := []models.MatchView{}
	if err := s.db.SelectContext(ctx, &list, query, requisitionID); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Storage) ListMatchesByStatus(ctx context.Context, status models.DecisionStatus) ([]models.MatchView, error) {
	query := matchViewQuery + `
        WHERE rv.status = $1
        ORDER BY rv.created_at DESC`
	list := []models.MatchView{}
	if err := s.db.SelectContext(ctx, &list, query, status); err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateMatchStatus меняет статус, только если текущий статус равен from.
// Время решения пишется в approved_at для approved и rejected и обнуляется при возврате в pending.
func (s *Storage) UpdateMatchStatus(ctx context.Context, id int, from, to models.DecisionStatus, at time.Time) error {
	var approvedAt *time.Time
	if to != models.StatusPending {
		approvedAt = &at
	}
	query := `
        UPDATE requisition_vendors
        SET status = $1, approved_at = $2
        WHERE id = $3 AND status = $4`
	res, err := s.db.ExecContext(ctx, query, to, approvedAt, id, from)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrInvalidTransition
	}
	return nil
}

func (s *Storage) HasApprovedMatch(ctx context.Context, vendorID, requisitionID int) (bool, error) {
	var count int
	query := `
        SELECT COUNT(1) FROM requisition_vendors
        WHERE vendor_id = $1 AND requisition_id = $2 AND status = 'approved'`
	if err := s.db.GetContext(ctx, &count, query, vendorID, requisitionID); err != nil {
		return false, err
	}
	return count > 0, nil
}
