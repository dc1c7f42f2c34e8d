package db

import (
	"context"
	"fmt"
	"math"
	"os"
	"testing"
	"time"

	"github.com/procura/backend/internal/models"
)

// A claim can reach its supplier both through the equipment bought on one of
// the supplier's orders and through a direct order reference. Such a claim
// must count once, not once per path.
func TestClaimCountsOncePerSupplierIntegration(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	store, err := New(ctx, url)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}
	defer store.Close()

	const taxID = int64(20987654321)
	serial := fmt.Sprintf("TEST-DEDUP-%d", time.Now().UnixNano())

	if _, err := store.Pool.Exec(ctx, `
		INSERT INTO suppliers (tax_id, legal_name, created_on) VALUES ($1, $2, NOW())
	`, taxID, "Proveedor Dedup SA"); err != nil {
		t.Fatalf("insert supplier: %v", err)
	}

	var equipmentID int64
	if err := store.Pool.QueryRow(ctx, `
		INSERT INTO equipment (serial, status) VALUES ($1, $2) RETURNING id
	`, serial, models.EquipmentStatusOperational).Scan(&equipmentID); err != nil {
		t.Fatalf("insert equipment: %v", err)
	}

	t.Cleanup(func() {
		cleanupCtx := context.Background()
		if err := store.DeleteSupplier(cleanupCtx, taxID); err != nil {
			t.Errorf("cleanup supplier: %v", err)
		}
		if _, err := store.Pool.Exec(cleanupCtx, `DELETE FROM equipment WHERE id = $1`, equipmentID); err != nil {
			t.Errorf("cleanup equipment: %v", err)
		}
	})

	orderedOn := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	var orderID int64
	if err := store.Pool.QueryRow(ctx, `
		INSERT INTO orders (employee_id, tax_id, ordered_on, status) VALUES (1, $1, $2, $3)
		RETURNING id
	`, taxID, orderedOn, models.OrderStatusConfirmed).Scan(&orderID); err != nil {
		t.Fatalf("insert order: %v", err)
	}
	if _, err := store.Pool.Exec(ctx, `
		INSERT INTO order_items (order_id, equipment_id, description, quantity, unit_price, subtotal)
		VALUES ($1, $2, 'Notebook', 1, 100, 100)
	`, orderID, equipmentID); err != nil {
		t.Fatalf("insert order item: %v", err)
	}

	// Both association paths on the same claim.
	reportedOn := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	var claimID int64
	if err := store.Pool.QueryRow(ctx, `
		INSERT INTO claims (employee_id, equipment_id, order_id, reported_on, priority, status)
		VALUES (1, $1, $2, $3, 'ALTA', $4)
		RETURNING id
	`, equipmentID, orderID, reportedOn, models.ClaimStatusPending).Scan(&claimID); err != nil {
		t.Fatalf("insert claim: %v", err)
	}

	pending, err := store.CountPendingClaims(ctx, taxID)
	if err != nil {
		t.Fatalf("count pending claims: %v", err)
	}
	if pending != 1 {
		t.Fatalf("claim reachable via both paths must count once, got %d", pending)
	}

	var technicianID int64
	if err := store.Pool.QueryRow(ctx, `
		INSERT INTO technicians (tax_id, name) VALUES ($1, 'Técnico Dedup') RETURNING id
	`, taxID).Scan(&technicianID); err != nil {
		t.Fatalf("insert technician: %v", err)
	}
	if _, err := store.Pool.Exec(ctx, `
		INSERT INTO interventions (claim_id, equipment_id, technician_id, performed_on, status)
		VALUES ($1, $2, $3, $4, 'REALIZADA')
	`, claimID, equipmentID, technicianID, reportedOn.AddDate(0, 0, 2)); err != nil {
		t.Fatalf("insert intervention: %v", err)
	}

	stats, err := store.ResponseStats(ctx, taxID)
	if err != nil {
		t.Fatalf("response stats: %v", err)
	}
	if stats.Claims != 1 {
		t.Fatalf("answered claim must count once across both paths, got %d", stats.Claims)
	}
	if stats.AvgDays == nil || math.Abs(*stats.AvgDays-2) > 1e-9 {
		t.Fatalf("expected 2-day average response, got %v", stats.AvgDays)
	}
}
