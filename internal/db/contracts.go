package db

import (
	"context"

	"github.com/procura/backend/internal/models"
)

const contractSelect = `
	SELECT c.id, c.tax_id, s.legal_name, c.starts_on, c.expires_on,
		c.description, c.file_path, c.response_time, c.availability
	FROM contracts c
	INNER JOIN suppliers s ON c.tax_id = s.tax_id`

func scanContract(row interface{ Scan(dest ...any) error }) (models.Contract, error) {
	var c models.Contract
	err := row.Scan(&c.ID, &c.TaxID, &c.SupplierName, &c.StartsOn, &c.ExpiresOn,
		&c.Description, &c.FilePath, &c.ResponseTime, &c.Availability)
	return c, err
}

func (s *Store) ListContracts(ctx context.Context) ([]models.Contract, error) {
	rows, err := s.Pool.Query(ctx, contractSelect+` ORDER BY c.expires_on DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) GetContract(ctx context.Context, id int64) (models.Contract, error) {
	return scanContract(s.Pool.QueryRow(ctx, contractSelect+` WHERE c.id = $1`, id))
}

// ListExpiringContracts lists contracts that expire within the next `days`
// days, soonest first.
func (s *Store) ListExpiringContracts(ctx context.Context, days int) ([]models.Contract, error) {
	rows, err := s.Pool.Query(ctx, contractSelect+`
		WHERE c.expires_on >= CURRENT_DATE
			AND c.expires_on < CURRENT_DATE + $1 * INTERVAL '1 day'
		ORDER BY c.expires_on ASC`, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) CreateContract(ctx context.Context, c models.Contract) (models.Contract, error) {
	var id int64
	err := s.Pool.QueryRow(ctx, `
		INSERT INTO contracts (tax_id, starts_on, expires_on, description, file_path, response_time, availability)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, c.TaxID, c.StartsOn, c.ExpiresOn, c.Description, c.FilePath, c.ResponseTime, c.Availability).Scan(&id)
	if err != nil {
		return models.Contract{}, err
	}
	return s.GetContract(ctx, id)
}

func (s *Store) UpdateContract(ctx context.Context, c models.Contract) (models.Contract, error) {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE contracts
		SET tax_id = COALESCE($2, tax_id),
			starts_on = COALESCE($3, starts_on),
			expires_on = COALESCE($4, expires_on),
			description = $5,
			file_path = $6,
			response_time = $7,
			availability = $8
		WHERE id = $1
	`, c.ID, nullableID(c.TaxID), nullableTime(c.StartsOn), nullableTime(c.ExpiresOn),
		c.Description, c.FilePath, c.ResponseTime, c.Availability)
	if err != nil {
		return models.Contract{}, err
	}
	if tag.RowsAffected() == 0 {
		return models.Contract{}, ErrNotFound
	}
	return s.GetContract(ctx, c.ID)
}

func (s *Store) DeleteContract(ctx context.Context, id int64) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM contracts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
