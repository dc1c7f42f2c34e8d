package db

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/procura/backend/internal/models"
)

// supplierSelect builds the list/detail projection: a concatenated address
// line per supplier, the principal address split into fields, the category
// list, and the average of all rating final scores.
const supplierSelect = `
	SELECT s.tax_id, s.legal_name, s.phone, s.email, s.created_on,
		COALESCE(
			(SELECT string_agg(a.street || ' ' || COALESCE(a.number::text, 's/n') ||
				' (' || a.kind || ', ' || a.locality || ', ' || a.province || ', ' || a.country || ')', ' - ')
			 FROM addresses a WHERE a.tax_id = s.tax_id),
			'Sin dirección registrada') AS address,
		p.locality, p.province, p.country,
		COALESCE(
			(SELECT string_agg(c.category, ', ' ORDER BY c.category)
			 FROM supplier_categories c WHERE c.tax_id = s.tax_id),
			'') AS categories,
		COALESCE(
			(SELECT ROUND(AVG(r.final_score)::numeric, 1)
			 FROM ratings r WHERE r.tax_id = s.tax_id),
			0) AS avg_rating
	FROM suppliers s
	LEFT JOIN LATERAL (
		SELECT a.locality, a.province, a.country
		FROM addresses a
		WHERE a.tax_id = s.tax_id
		ORDER BY CASE WHEN a.kind = 'CASA CENTRAL' THEN 1 ELSE 2 END, a.id
		LIMIT 1
	) p ON true
	WHERE (s.retired_on IS NULL OR s.retired_on > NOW())`

func scanSupplier(row interface{ Scan(dest ...any) error }) (models.Supplier, error) {
	var sp models.Supplier
	err := row.Scan(&sp.TaxID, &sp.LegalName, &sp.Phone, &sp.Email, &sp.CreatedOn,
		&sp.Address, &sp.Locality, &sp.Province, &sp.Country, &sp.Categories, &sp.AvgRating)
	return sp, err
}

func (s *Store) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	rows, err := s.Pool.Query(ctx, supplierSelect+` ORDER BY s.legal_name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Supplier
	for rows.Next() {
		sp, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

func (s *Store) GetSupplier(ctx context.Context, taxID int64) (models.Supplier, error) {
	return scanSupplier(s.Pool.QueryRow(ctx, supplierSelect+` AND s.tax_id = $1`, taxID))
}

func (s *Store) ListSupplierOptions(ctx context.Context) ([]models.SupplierOption, error) {
	rows, err := s.Pool.Query(ctx, `SELECT tax_id, legal_name FROM suppliers ORDER BY legal_name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SupplierOption
	for rows.Next() {
		var o models.SupplierOption
		if err := rows.Scan(&o.TaxID, &o.LegalName); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

type NewSupplier struct {
	TaxID     int64
	LegalName string
	Phone     *string
	Email     *string
	Category  string
	Address   *Address
}

type Address struct {
	Kind     string
	Street   string
	Number   *int
	Locality string
	Province string
	Country  string
}

// CreateSupplier inserts the supplier and, when provided, its first address
// and category, in one transaction.
func (s *Store) CreateSupplier(ctx context.Context, n NewSupplier) error {
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO suppliers (tax_id, legal_name, phone, email, created_on)
			VALUES ($1, $2, $3, $4, NOW())
		`, n.TaxID, n.LegalName, n.Phone, n.Email)
		if err != nil {
			return err
		}

		if a := n.Address; a != nil {
			_, err = tx.Exec(ctx, `
				INSERT INTO addresses (tax_id, kind, street, number, locality, province, country)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, n.TaxID, a.Kind, a.Street, a.Number, a.Locality, a.Province, a.Country)
			if err != nil {
				return err
			}
		}

		if c := strings.TrimSpace(n.Category); c != "" {
			if _, err = tx.Exec(ctx, `
				INSERT INTO supplier_categories (tax_id, category) VALUES ($1, $2)
				ON CONFLICT DO NOTHING
			`, n.TaxID, c); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateSupplier updates the base fields and replaces the category set when a
// category is given. Addresses have their own endpoint.
func (s *Store) UpdateSupplier(ctx context.Context, taxID int64, legalName string, phone, email *string, category *string) error {
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE suppliers SET legal_name = $2, phone = $3, email = $4 WHERE tax_id = $1
		`, taxID, legalName, phone, email)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}

		if category == nil {
			return nil
		}
		if _, err := tx.Exec(ctx, `DELETE FROM supplier_categories WHERE tax_id = $1`, taxID); err != nil {
			return err
		}
		if c := strings.TrimSpace(*category); c != "" {
			if _, err := tx.Exec(ctx, `
				INSERT INTO supplier_categories (tax_id, category) VALUES ($1, $2)
			`, taxID, c); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteSupplier removes the supplier and everything hanging off it, child
// tables first so no foreign key is violated mid-transaction: interventions
// and claims on both association paths (direct order reference and
// equipment bought on the supplier's orders), order items, orders,
// contracts, technicians, categories, addresses, ratings, supplier.
func (s *Store) DeleteSupplier(ctx context.Context, taxID int64) error {
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		var exists int64
		if err := tx.QueryRow(ctx, `SELECT tax_id FROM suppliers WHERE tax_id = $1`, taxID).Scan(&exists); err != nil {
			if err == pgx.ErrNoRows {
				return ErrNotFound
			}
			return err
		}

		steps := []string{
			`DELETE FROM ratings WHERE tax_id = $1`,
			`DELETE FROM interventions WHERE claim_id IN (
				SELECT c.id FROM claims c
				WHERE c.order_id IN (SELECT id FROM orders WHERE tax_id = $1))`,
			`DELETE FROM claims WHERE order_id IN (SELECT id FROM orders WHERE tax_id = $1)`,
			`DELETE FROM interventions WHERE claim_id IN (
				SELECT c.id FROM claims c
				INNER JOIN equipment e ON c.equipment_id = e.id
				INNER JOIN order_items oi ON e.id = oi.equipment_id
				WHERE oi.order_id IN (SELECT id FROM orders WHERE tax_id = $1))`,
			`DELETE FROM claims WHERE equipment_id IN (
				SELECT e.id FROM equipment e
				INNER JOIN order_items oi ON e.id = oi.equipment_id
				WHERE oi.order_id IN (SELECT id FROM orders WHERE tax_id = $1))`,
			`DELETE FROM order_items WHERE order_id IN (SELECT id FROM orders WHERE tax_id = $1)`,
			`DELETE FROM orders WHERE tax_id = $1`,
			`DELETE FROM contracts WHERE tax_id = $1`,
			`DELETE FROM technicians WHERE tax_id = $1`,
			`DELETE FROM supplier_categories WHERE tax_id = $1`,
			`DELETE FROM addresses WHERE tax_id = $1`,
			`DELETE FROM suppliers WHERE tax_id = $1`,
		}
		for _, q := range steps {
			if _, err := tx.Exec(ctx, q, taxID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) ListSupplierAddresses(ctx context.Context, taxID int64) ([]models.Address, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, tax_id, kind, street, number, locality, province, country
		FROM addresses
		WHERE tax_id = $1
		ORDER BY CASE WHEN kind = 'CASA CENTRAL' THEN 1 ELSE 2 END, kind
	`, taxID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Address
	for rows.Next() {
		var a models.Address
		if err := rows.Scan(&a.ID, &a.TaxID, &a.Kind, &a.Street, &a.Number, &a.Locality, &a.Province, &a.Country); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
