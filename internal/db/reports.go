package db

import (
	"context"
	"time"

	"github.com/procura/backend/internal/models"
)

// SupplierSpending totals received orders per supplier between two dates
// (inclusive), biggest spender first.
func (s *Store) SupplierSpending(ctx context.Context, from, to time.Time) ([]models.SupplierSpending, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT s.tax_id, s.legal_name, COUNT(DISTINCT o.id),
			COALESCE(SUM(i.subtotal), 0)
		FROM suppliers s
		INNER JOIN orders o ON o.tax_id = s.tax_id
		LEFT JOIN order_items i ON i.order_id = o.id
		WHERE o.status = $1
			AND o.ordered_on BETWEEN $2 AND $3
		GROUP BY s.tax_id, s.legal_name
		ORDER BY 4 DESC
	`, models.OrderStatusReceived, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SupplierSpending
	for rows.Next() {
		var r models.SupplierSpending
		if err := rows.Scan(&r.TaxID, &r.LegalName, &r.Orders, &r.Total); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
