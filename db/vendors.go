package db

import (
	"context"

	"procurement/models"
)

func (s *Storage) CreateVendor(ctx context.Context, v *models.Vendor) error {
	query := `
        INSERT INTO vendors (name, email, description)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`
	err := s.db.QueryRowContext(ctx, query, v.Name, v.Email, v.Description).
		Scan(&v.ID, &v.CreatedAt)
	return translateErr(err)
}

func (s *Storage) GetVendor(ctx context.Context, id int) (*models.Vendor, error) {
	v := &models.Vendor{}
	query := `SELECT id, name, email, description, created_at FROM vendors WHERE id = $1`
	if err := s.db.GetContext(ctx, v, query, id); err != nil {
		return nil, translateErr(err)
	}
	return v, nil
}

func (s *Storage) ListVendors(ctx context.Context) ([]models.Vendor, error) {
	query := `SELECT id, name, email, description, created_at FROM vendors ORDER BY name ASC`
	vendors := []models.Vendor{}
	if err := s.db.SelectContext(ctx, &vendors, query); err != nil {
		return nil, err
	}
	return vendors, nil
}

func (s *Storage) UpdateVendor(ctx context.Context, v *models.Vendor) error {
	query := `
        UPDATE vendors
        SET name = $1, email = $2, description = $3
        WHERE id = $4`
	res, err := s.db.ExecContext(ctx, query, v.Name, v.Email, v.Description, v.ID)
	if err != nil {
		return translateErr(err)
	}
	return expectAffected(res)
}

// DeleteVendor удаляет поставщика вместе с его сопоставлениями и предложениями
func (s *Storage) DeleteVendor(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM vendors WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}
