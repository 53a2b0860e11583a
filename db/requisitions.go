package db

import (
	"context"

	"procurement/models"
)

const requisitionColumns = `r.id, r.title, r.description, r.quantity, r.unit, r.request_date, r.generated_by_ai, r.timestamp`

func (s *Storage) CreateRequisition(ctx context.Context, r *models.Requisition) error {
	query := `
        INSERT INTO requisitions
            (title, description, quantity, unit, request_date, generated_by_ai)
        VALUES
            ($1, $2, $3, $4, COALESCE($5::date, CURRENT_DATE), $6)
        RETURNING id, request_date, timestamp`
	err := s.db.QueryRowContext(ctx, query,
		r.Title, r.Description, r.Quantity, r.Unit, r.RequestDate, r.GeneratedByAI).
		Scan(&r.ID, &r.RequestDate, &r.Timestamp)
	return translateErr(err)
}

func (s *Storage) GetRequisition(ctx context.Context, id int) (*models.Requisition, error) {
	r := &models.Requisition{}
	query := `SELECT ` + requisitionColumns + ` FROM requisitions r WHERE r.id = $1`
	if err := s.db.GetContext(ctx, r, query, id); err != nil {
		return nil, translateErr(err)
	}
	return r, nil
}

// ListRequisitions возвращает заявки с количеством сопоставленных и одобренных поставщиков
func (s *Storage) ListRequisitions(ctx context.Context) ([]models.RequisitionSummary, error) {
	query := `
        SELECT ` + requisitionColumns + `,
            COUNT(rv.id) AS vendor_count,
            COUNT(rv.id) FILTER (WHERE rv.status = 'approved') AS approved_count
        FROM requisitions r
        LEFT JOIN requisition_vendors rv ON rv.requisition_id = r.id
        GROUP BY r.id
        ORDER BY r.timestamp DESC`
	list := []models.RequisitionSummary{}
	if err := s.db.SelectContext(ctx, &list, query); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Storage) UpdateRequisition(ctx context.Context, r *models.Requisition) error {
	query := `
        UPDATE requisitions
        SET title = $1, description = $2, quantity = $3, unit = $4,
            request_date = COALESCE($5::date, request_date)
        WHERE id = $6`
	res, err := s.db.ExecContext(ctx, query,
		r.Title, r.Description, r.Quantity, r.Unit, r.RequestDate, r.ID)
	if err != nil {
		return translateErr(err)
	}
	return expectAffected(res)
}

// ListAssignedRequisitions заявки, по которым поставщик одобрен и может подать предложение
func (s *Storage) ListAssignedRequisitions(ctx context.Context, vendorID int) ([]models.Requisition, error) {
	query := `
        SELECT ` + requisitionColumns + `
        FROM requisitions r
        JOIN requisition_vendors rv ON rv.requisition_id = r.id
        WHERE rv.vendor_id = $1 AND rv.status = 'approved'
        ORDER BY r.timestamp DESC`
	list := []models.Requisition{}
	if err := s.db.SelectContext(ctx, &list, query, vendorID); err != nil {
		return nil, err
	}
	return list, nil
}
