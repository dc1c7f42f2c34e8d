package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/procura/backend/internal/models"
)

const orderSelect = `
	SELECT o.id, o.tax_id, s.legal_name, o.employee_id, o.ordered_on, o.received_on, o.status
	FROM orders o
	INNER JOIN suppliers s ON o.tax_id = s.tax_id`

const orderItemSelect = `
	SELECT i.id, i.order_id, i.equipment_id, i.description, i.quantity, i.unit_price, i.subtotal
	FROM order_items i`

func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	rows, err := s.Pool.Query(ctx, orderSelect+` ORDER BY o.ordered_on DESC, o.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := map[int64]*models.Order{}
	var ids []int64
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.TaxID, &o.SupplierName, &o.EmployeeID, &o.OrderedOn, &o.ReceivedOn, &o.Status); err != nil {
			return nil, err
		}
		o.Items = []models.OrderItem{}
		byID[o.ID] = &o
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	itemRows, err := s.Pool.Query(ctx, orderItemSelect+` ORDER BY i.order_id ASC, i.id ASC`)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var it models.OrderItem
		if err := itemRows.Scan(&it.ID, &it.OrderID, &it.EquipmentID, &it.Description, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, err
		}
		if o, ok := byID[it.OrderID]; ok {
			o.Items = append(o.Items, it)
			o.Total += it.Subtotal
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	out := make([]models.Order, 0, len(ids))
	for _, id := range ids {
		out = append(out, *byID[id])
	}
	return out, nil
}

func (s *Store) GetOrder(ctx context.Context, id int64) (models.Order, error) {
	var o models.Order
	err := s.Pool.QueryRow(ctx, orderSelect+` WHERE o.id = $1`, id).
		Scan(&o.ID, &o.TaxID, &o.SupplierName, &o.EmployeeID, &o.OrderedOn, &o.ReceivedOn, &o.Status)
	if err != nil {
		return models.Order{}, err
	}

	rows, err := s.Pool.Query(ctx, orderItemSelect+` WHERE i.order_id = $1 ORDER BY i.id ASC`, id)
	if err != nil {
		return models.Order{}, err
	}
	defer rows.Close()
	o.Items = []models.OrderItem{}
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.EquipmentID, &it.Description, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return models.Order{}, err
		}
		o.Items = append(o.Items, it)
		o.Total += it.Subtotal
	}
	return o, rows.Err()
}

func (s *Store) CreateOrder(ctx context.Context, o models.Order) (int64, error) {
	var id int64
	err := s.WithTx(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `
			INSERT INTO orders (employee_id, tax_id, ordered_on, received_on, status)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, o.EmployeeID, o.TaxID, o.OrderedOn, o.ReceivedOn, o.Status).Scan(&id); err != nil {
			return err
		}
		return insertOrderItems(ctx, tx, id, o.Items)
	})
	return id, err
}

// UpdateOrder rewrites the order header and, while the order is still
// unconfirmed, its items. On the transition into Confirmada it generates one
// placeholder equipment row per ordered unit (uuid-suffixed temporary serial)
// and links the first of each lot back to its line item; items become
// immutable from then on.
func (s *Store) UpdateOrder(ctx context.Context, o models.Order) error {
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		var previous string
		if err := tx.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, o.ID).Scan(&previous); err != nil {
			if err == pgx.ErrNoRows {
				return ErrNotFound
			}
			return err
		}

		tag, err := tx.Exec(ctx, `
			UPDATE orders
			SET tax_id = $2, ordered_on = $3, received_on = $4, status = $5
			WHERE id = $1
		`, o.ID, o.TaxID, o.OrderedOn, o.ReceivedOn, o.Status)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}

		if previous != models.OrderStatusConfirmed && o.Status == models.OrderStatusConfirmed {
			return generateEquipment(ctx, tx, o.ID)
		}

		if previous != models.OrderStatusConfirmed && o.Status != models.OrderStatusConfirmed {
			if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, o.ID); err != nil {
				return err
			}
			return insertOrderItems(ctx, tx, o.ID, o.Items)
		}
		return nil
	})
}

func insertOrderItems(ctx context.Context, tx pgx.Tx, orderID int64, items []models.OrderItem) error {
	for _, it := range items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (order_id, equipment_id, description, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, orderID, it.EquipmentID, it.Description, it.Quantity, it.UnitPrice, it.Subtotal); err != nil {
			return err
		}
	}
	return nil
}

func generateEquipment(ctx context.Context, tx pgx.Tx, orderID int64) error {
	rows, err := tx.Query(ctx, `
		SELECT id, quantity, equipment_id FROM order_items WHERE order_id = $1
	`, orderID)
	if err != nil {
		return err
	}
	type lot struct {
		itemID   int64
		quantity int
		linked   *int64
	}
	var lots []lot
	for rows.Next() {
		var l lot
		if err := rows.Scan(&l.itemID, &l.quantity, &l.linked); err != nil {
			rows.Close()
			return err
		}
		lots = append(lots, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, l := range lots {
		// A line that already points at equipment was generated before.
		if l.linked != nil {
			continue
		}
		for i := 0; i < l.quantity; i++ {
			serial := fmt.Sprintf("TEMP-%d-%d-%d-%s", orderID, l.itemID, i+1, uuid.NewString()[:8])
			var equipmentID int64
			if err := tx.QueryRow(ctx, `
				INSERT INTO equipment (serial, status) VALUES ($1, $2)
				RETURNING id
			`, serial, models.EquipmentStatusOperational).Scan(&equipmentID); err != nil {
				return err
			}
			if i == 0 {
				if _, err := tx.Exec(ctx, `
					UPDATE order_items SET equipment_id = $2 WHERE id = $1
				`, l.itemID, equipmentID); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (s *Store) DeleteOrder(ctx context.Context, id int64) error {
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}
