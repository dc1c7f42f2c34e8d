package db

import (
	"context"

	"github.com/procura/backend/internal/models"
)

func (s *Store) ListOperationalEquipment(ctx context.Context) ([]models.Equipment, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, serial, model, brand, status, warranty_until
		FROM equipment
		WHERE status = $1
		ORDER BY brand, model, serial
	`, models.EquipmentStatusOperational)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Equipment
	for rows.Next() {
		var e models.Equipment
		if err := rows.Scan(&e.ID, &e.Serial, &e.Model, &e.Brand, &e.Status, &e.WarrantyUntil); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListExpiredWarranties lists equipment whose warranty ran out, most recent
// expiry first.
func (s *Store) ListExpiredWarranties(ctx context.Context) ([]models.Equipment, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, serial, model, brand, status, warranty_until
		FROM equipment
		WHERE warranty_until IS NOT NULL AND warranty_until < NOW()
		ORDER BY warranty_until DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Equipment
	for rows.Next() {
		var e models.Equipment
		if err := rows.Scan(&e.ID, &e.Serial, &e.Model, &e.Brand, &e.Status, &e.WarrantyUntil); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

const technicianSelect = `
	SELECT t.id, t.tax_id, t.name, t.phone, s.legal_name AS supplier_name
	FROM technicians t
	LEFT JOIN suppliers s ON t.tax_id = s.tax_id`

func scanTechnician(row interface{ Scan(dest ...any) error }) (models.Technician, error) {
	var t models.Technician
	err := row.Scan(&t.ID, &t.TaxID, &t.Name, &t.Phone, &t.SupplierName)
	return t, err
}

func (s *Store) ListTechnicians(ctx context.Context) ([]models.Technician, error) {
	rows, err := s.Pool.Query(ctx, technicianSelect+` ORDER BY t.name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Technician
	for rows.Next() {
		t, err := scanTechnician(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) GetTechnician(ctx context.Context, id int64) (models.Technician, error) {
	return scanTechnician(s.Pool.QueryRow(ctx, technicianSelect+` WHERE t.id = $1`, id))
}

func (s *Store) CreateTechnician(ctx context.Context, t models.Technician) (models.Technician, error) {
	var id int64
	err := s.Pool.QueryRow(ctx, `
		INSERT INTO technicians (tax_id, name, phone) VALUES ($1, $2, $3)
		RETURNING id
	`, t.TaxID, t.Name, t.Phone).Scan(&id)
	if err != nil {
		return models.Technician{}, err
	}
	return s.GetTechnician(ctx, id)
}

func (s *Store) UpdateTechnician(ctx context.Context, t models.Technician) (models.Technician, error) {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE technicians SET tax_id = $2, name = $3, phone = $4 WHERE id = $1
	`, t.ID, t.TaxID, t.Name, t.Phone)
	if err != nil {
		return models.Technician{}, err
	}
	if tag.RowsAffected() == 0 {
		return models.Technician{}, ErrNotFound
	}
	return s.GetTechnician(ctx, t.ID)
}

func (s *Store) DeleteTechnician(ctx context.Context, id int64) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM technicians WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
