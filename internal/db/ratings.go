package db

import (
	"context"
	"time"

	"github.com/procura/backend/internal/models"
)

const ratingSelect = `
	SELECT r.id, r.tax_id, r.delivery_score, r.quality_score, r.response_score,
		r.availability_score, r.final_score, r.notes, s.legal_name
	FROM ratings r
	INNER JOIN suppliers s ON s.tax_id = r.tax_id`

func scanRating(row interface{ Scan(dest ...any) error }) (models.Rating, error) {
	var r models.Rating
	err := row.Scan(&r.ID, &r.TaxID, &r.DeliveryScore, &r.QualityScore, &r.ResponseScore,
		&r.AvailabilityScore, &r.FinalScore, &r.Notes, &r.SupplierName)
	return r, err
}

func (s *Store) ListRatings(ctx context.Context) ([]models.Rating, error) {
	rows, err := s.Pool.Query(ctx, ratingSelect+` ORDER BY r.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Rating
	for rows.Next() {
		r, err := scanRating(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) GetRating(ctx context.Context, id int64) (models.Rating, error) {
	return scanRating(s.Pool.QueryRow(ctx, ratingSelect+` WHERE r.id = $1`, id))
}

// CountOrders counts purchase orders of any status for the supplier.
// The rating precondition checks this before any scoring query runs.
func (s *Store) CountOrders(ctx context.Context, taxID int64) (int, error) {
	var n int
	err := s.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE tax_id = $1`, taxID).Scan(&n)
	return n, err
}

// DeliveryStats averages whole days between order placement and receipt over
// orders in a received-like terminal state that have a receipt date.
func (s *Store) DeliveryStats(ctx context.Context, taxID int64) (models.DeliveryStats, error) {
	var st models.DeliveryStats
	var minDays, maxDays *int
	err := s.Pool.QueryRow(ctx, `
		SELECT AVG((received_on - ordered_on)::float),
			COUNT(*),
			MIN(received_on - ordered_on),
			MAX(received_on - ordered_on)
		FROM orders
		WHERE tax_id = $1
			AND received_on IS NOT NULL
			AND status IN ($2, $3)
	`, taxID, models.OrderStatusReceived, models.OrderStatusConfirmed).
		Scan(&st.AvgDays, &st.Orders, &minDays, &maxDays)
	if err != nil {
		return models.DeliveryStats{}, err
	}
	if minDays != nil {
		st.MinDays = *minDays
	}
	if maxDays != nil {
		st.MaxDays = *maxDays
	}
	return st, nil
}

// ResponseStats averages days between a claim's report date and its
// interventions on/after that date. Claims reach the supplier through two
// paths: via equipment bought on the supplier's orders, or via a direct
// order reference; distinct claim ids keep the two paths from double counting.
func (s *Store) ResponseStats(ctx context.Context, taxID int64) (models.ResponseStats, error) {
	var st models.ResponseStats
	err := s.Pool.QueryRow(ctx, `
		SELECT AVG((i.performed_on - c.reported_on)::float),
			COUNT(DISTINCT c.id)
		FROM claims c
		LEFT JOIN equipment e ON c.equipment_id = e.id
		LEFT JOIN order_items oi ON e.id = oi.equipment_id
		LEFT JOIN orders o1 ON oi.order_id = o1.id
		LEFT JOIN orders o2 ON c.order_id = o2.id
		INNER JOIN interventions i ON i.claim_id = c.id
		WHERE (o1.tax_id = $1 OR o2.tax_id = $1)
			AND i.performed_on >= c.reported_on
	`, taxID).Scan(&st.AvgDays, &st.Claims)
	if err != nil {
		return models.ResponseStats{}, err
	}
	return st, nil
}

// CountPendingClaims counts distinct claims still PENDIENTE for the supplier,
// over the same two association paths as ResponseStats.
func (s *Store) CountPendingClaims(ctx context.Context, taxID int64) (int, error) {
	var n int
	err := s.Pool.QueryRow(ctx, `
		SELECT COUNT(DISTINCT c.id)
		FROM claims c
		LEFT JOIN equipment e ON c.equipment_id = e.id
		LEFT JOIN order_items oi ON e.id = oi.equipment_id
		LEFT JOIN orders o1 ON oi.order_id = o1.id
		LEFT JOIN orders o2 ON c.order_id = o2.id
		WHERE (o1.tax_id = $1 OR o2.tax_id = $1)
			AND c.status = $2
	`, taxID, models.ClaimStatusPending).Scan(&n)
	return n, err
}

// UpsertRating writes the computed rating for a supplier. The unique index on
// tax_id plus ON CONFLICT keeps at most one row per supplier and preserves
// the surrogate id across recalculations; quality_score is cleared because
// automatic calculation does not produce one.
func (s *Store) UpsertRating(ctx context.Context, r models.Rating) (models.Rating, error) {
	var id int64
	err := s.Pool.QueryRow(ctx, `
		INSERT INTO ratings (tax_id, delivery_score, quality_score, response_score, availability_score, final_score, notes)
		VALUES ($1, $2, NULL, $3, $4, $5, $6)
		ON CONFLICT (tax_id) DO UPDATE SET
			delivery_score = EXCLUDED.delivery_score,
			quality_score = NULL,
			response_score = EXCLUDED.response_score,
			availability_score = EXCLUDED.availability_score,
			final_score = EXCLUDED.final_score,
			notes = EXCLUDED.notes
		RETURNING id
	`, r.TaxID, r.DeliveryScore, r.ResponseScore, r.AvailabilityScore, r.FinalScore, r.Notes).Scan(&id)
	if err != nil {
		return models.Rating{}, err
	}
	return s.GetRating(ctx, id)
}

// ListRatedSuppliers returns the tax ids of every supplier that currently has
// a rating row, for batch recalculation.
func (s *Store) ListRatedSuppliers(ctx context.Context) ([]int64, error) {
	rows, err := s.Pool.Query(ctx, `SELECT DISTINCT tax_id FROM ratings ORDER BY tax_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// CreateRating inserts a manually entered rating row (administrative CRUD,
// separate from the calculator's upsert path).
func (s *Store) CreateRating(ctx context.Context, r models.Rating) (models.Rating, error) {
	var id int64
	err := s.Pool.QueryRow(ctx, `
		INSERT INTO ratings (tax_id, delivery_score, quality_score, response_score, availability_score, final_score, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, r.TaxID, r.DeliveryScore, r.QualityScore, r.ResponseScore, r.AvailabilityScore, r.FinalScore, r.Notes).Scan(&id)
	if err != nil {
		return models.Rating{}, err
	}
	return s.GetRating(ctx, id)
}

func (s *Store) UpdateRating(ctx context.Context, r models.Rating) (models.Rating, error) {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE ratings
		SET tax_id = COALESCE($2, tax_id),
			delivery_score = $3,
			quality_score = $4,
			response_score = $5,
			availability_score = $6,
			final_score = $7,
			notes = $8
		WHERE id = $1
	`, r.ID, nullableID(r.TaxID), r.DeliveryScore, r.QualityScore, r.ResponseScore,
		r.AvailabilityScore, r.FinalScore, r.Notes)
	if err != nil {
		return models.Rating{}, err
	}
	if tag.RowsAffected() == 0 {
		return models.Rating{}, ErrNotFound
	}
	return s.GetRating(ctx, r.ID)
}

func (s *Store) DeleteRating(ctx context.Context, id int64) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM ratings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableID(v int64) *int64 {
	if v == 0 {
		return nil
	}
	return &v
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
