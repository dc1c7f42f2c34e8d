package db

import (
	"context"

	"github.com/procura/backend/internal/models"
)

const claimSelect = `
	SELECT c.id, c.employee_id, c.equipment_id, c.order_id, c.reported_on,
		c.description, c.priority, c.status, i.description AS item_description
	FROM claims c
	LEFT JOIN equipment e ON c.equipment_id = e.id
	LEFT JOIN order_items i ON e.id = i.equipment_id`

func scanClaim(row interface{ Scan(dest ...any) error }) (models.Claim, error) {
	var c models.Claim
	err := row.Scan(&c.ID, &c.EmployeeID, &c.EquipmentID, &c.OrderID, &c.ReportedOn,
		&c.Description, &c.Priority, &c.Status, &c.ItemDescription)
	return c, err
}

func (s *Store) ListClaims(ctx context.Context) ([]models.Claim, error) {
	rows, err := s.Pool.Query(ctx, claimSelect+` ORDER BY c.reported_on DESC, c.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Claim
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) GetClaim(ctx context.Context, id int64) (models.Claim, error) {
	return scanClaim(s.Pool.QueryRow(ctx, claimSelect+` WHERE c.id = $1`, id))
}

func (s *Store) CreateClaim(ctx context.Context, c models.Claim) (models.Claim, error) {
	var id int64
	err := s.Pool.QueryRow(ctx, `
		INSERT INTO claims (employee_id, equipment_id, order_id, reported_on, description, priority, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, c.EmployeeID, c.EquipmentID, c.OrderID, c.ReportedOn, c.Description, c.Priority, c.Status).Scan(&id)
	if err != nil {
		return models.Claim{}, err
	}
	return s.GetClaim(ctx, id)
}

func (s *Store) UpdateClaim(ctx context.Context, c models.Claim) (models.Claim, error) {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE claims
		SET employee_id = $2, equipment_id = $3, order_id = $4, reported_on = $5,
			description = $6, priority = $7, status = $8
		WHERE id = $1
	`, c.ID, c.EmployeeID, c.EquipmentID, c.OrderID, c.ReportedOn, c.Description, c.Priority, c.Status)
	if err != nil {
		return models.Claim{}, err
	}
	if tag.RowsAffected() == 0 {
		return models.Claim{}, ErrNotFound
	}
	return s.GetClaim(ctx, c.ID)
}

func (s *Store) DeleteClaim(ctx context.Context, id int64) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM claims WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const interventionSelect = `
	SELECT i.id, i.claim_id, i.equipment_id, i.technician_id, i.performed_on,
		i.status, i.problem, i.work_done, t.name AS technician_name
	FROM interventions i
	LEFT JOIN technicians t ON i.technician_id = t.id`

func scanIntervention(row interface{ Scan(dest ...any) error }) (models.Intervention, error) {
	var iv models.Intervention
	err := row.Scan(&iv.ID, &iv.ClaimID, &iv.EquipmentID, &iv.TechnicianID, &iv.PerformedOn,
		&iv.Status, &iv.Problem, &iv.WorkDone, &iv.TechnicianName)
	return iv, err
}

func (s *Store) ListInterventions(ctx context.Context) ([]models.Intervention, error) {
	rows, err := s.Pool.Query(ctx, interventionSelect+` ORDER BY i.performed_on DESC, i.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Intervention
	for rows.Next() {
		iv, err := scanIntervention(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, iv)
	}
	return out, rows.Err()
}

func (s *Store) GetIntervention(ctx context.Context, id int64) (models.Intervention, error) {
	return scanIntervention(s.Pool.QueryRow(ctx, interventionSelect+` WHERE i.id = $1`, id))
}

func (s *Store) CreateIntervention(ctx context.Context, iv models.Intervention) (models.Intervention, error) {
	var id int64
	err := s.Pool.QueryRow(ctx, `
		INSERT INTO interventions (claim_id, equipment_id, technician_id, performed_on, status, problem, work_done)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, iv.ClaimID, iv.EquipmentID, iv.TechnicianID, iv.PerformedOn, iv.Status, iv.Problem, iv.WorkDone).Scan(&id)
	if err != nil {
		return models.Intervention{}, err
	}
	return s.GetIntervention(ctx, id)
}

func (s *Store) UpdateIntervention(ctx context.Context, iv models.Intervention) (models.Intervention, error) {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE interventions
		SET claim_id = $2, equipment_id = $3, technician_id = $4, performed_on = $5,
			status = $6, problem = $7, work_done = $8
		WHERE id = $1
	`, iv.ID, iv.ClaimID, iv.EquipmentID, iv.TechnicianID, iv.PerformedOn, iv.Status, iv.Problem, iv.WorkDone)
	if err != nil {
		return models.Intervention{}, err
	}
	if tag.RowsAffected() == 0 {
		return models.Intervention{}, ErrNotFound
	}
	return s.GetIntervention(ctx, iv.ID)
}

func (s *Store) DeleteIntervention(ctx context.Context, id int64) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM interventions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
