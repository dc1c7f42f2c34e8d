package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/procura/backend/internal/models"
)

// Rating tiers derived from the final score.
const (
	TierOptimal        = "Óptimo"
	TierAcceptable     = "Aceptable"
	TierUnsatisfactory = "Insatisfactorio"
)

// ErrNoOrders rejects rating a supplier with no purchase orders on file.
// The message is user-facing and deliberately distinct from generic
// validation failures.
var ErrNoOrders = errors.New("no se puede crear una calificación hasta que se realice al menos una orden de compra al proveedor")

// OrderStats reads the delivery-time facts for one supplier.
type OrderStats interface {
	CountOrders(ctx context.Context, taxID int64) (int, error)
	DeliveryStats(ctx context.Context, taxID int64) (models.DeliveryStats, error)
}

// ClaimStats reads the claim response-time and pending-claim facts for one
// supplier, counting both association paths (direct order reference and
// equipment bought on the supplier's orders) de-duplicated by claim id.
type ClaimStats interface {
	ResponseStats(ctx context.Context, taxID int64) (models.ResponseStats, error)
	CountPendingClaims(ctx context.Context, taxID int64) (int, error)
}

// RatingStore persists computed ratings, one row per supplier.
type RatingStore interface {
	UpsertRating(ctx context.Context, r models.Rating) (models.Rating, error)
	ListRatedSuppliers(ctx context.Context) ([]int64, error)
}

// RatingCalculator turns a supplier's order and claim history into three
// {1,2,3} sub-scores, a final score, and a tier, and upserts the result.
// It holds no state between invocations.
type RatingCalculator struct {
	Orders  OrderStats
	Claims  ClaimStats
	Ratings RatingStore
	Logger  zerolog.Logger
}

type DeliveryDetail struct {
	Score   int     `json:"score"`
	AvgDays float64 `json:"avg_days"`
	MinDays int     `json:"min_days"`
	MaxDays int     `json:"max_days"`
	Orders  int     `json:"orders"`
}

type ResponseDetail struct {
	Score   int     `json:"score"`
	AvgDays float64 `json:"avg_days"`
	Claims  int     `json:"claims"`
}

type AvailabilityDetail struct {
	Score         int `json:"score"`
	PendingClaims int `json:"pending_claims"`
}

// Breakdown exposes each sub-score next to the raw aggregate it came from,
// for caller display.
type Breakdown struct {
	Delivery     DeliveryDetail     `json:"delivery"`
	Response     ResponseDetail     `json:"response"`
	Availability AvailabilityDetail `json:"availability"`
	FinalScore   float64            `json:"final_score"`
	Tier         string             `json:"tier"`
}

// scoreDelivery bands the average delivery time in days:
// 3 good (<= 4), 2 fair (5-9), 1 poor (>= 10).
func scoreDelivery(avgDays float64) int {
	if avgDays <= 4 {
		return 3
	}
	if avgDays <= 9 {
		return 2
	}
	return 1
}

// scoreResponse bands the average claim response time in days:
// 3 good (<= 2), 2 fair (3-5), 1 poor (> 5).
func scoreResponse(avgDays float64) int {
	if avgDays <= 2 {
		return 3
	}
	if avgDays <= 5 {
		return 2
	}
	return 1
}

// scoreAvailability bands the pending-claim count:
// 3 good (0), 2 fair (1-2), 1 poor (>= 3).
func scoreAvailability(pending int) int {
	if pending == 0 {
		return 3
	}
	if pending <= 2 {
		return 2
	}
	return 1
}

func finalScore(delivery, response, availability int) float64 {
	return float64(delivery+response+availability) / 3
}

// tierFor classifies the final score: >= 2.7 optimal, >= 1.7 acceptable,
// below that unsatisfactory. Boundaries are closed on the lower side.
func tierFor(final float64) string {
	if final >= 2.7 {
		return TierOptimal
	}
	if final >= 1.7 {
		return TierAcceptable
	}
	return TierUnsatisfactory
}

// Calculate computes and persists the rating for one supplier. The three
// reads run in order; any failure aborts the whole calculation before the
// upsert, so either every sub-score lands in the stored row or nothing is
// touched. Suppliers with no order history at all are rejected with
// ErrNoOrders rather than scored.
func (rc *RatingCalculator) Calculate(ctx context.Context, taxID int64) (models.Rating, Breakdown, error) {
	totalOrders, err := rc.Orders.CountOrders(ctx, taxID)
	if err != nil {
		return models.Rating{}, Breakdown{}, err
	}
	if totalOrders == 0 {
		return models.Rating{}, Breakdown{}, ErrNoOrders
	}

	del, err := rc.Orders.DeliveryStats(ctx, taxID)
	if err != nil {
		return models.Rating{}, Breakdown{}, err
	}
	resp, err := rc.Claims.ResponseStats(ctx, taxID)
	if err != nil {
		return models.Rating{}, Breakdown{}, err
	}
	pending, err := rc.Claims.CountPendingClaims(ctx, taxID)
	if err != nil {
		return models.Rating{}, Breakdown{}, err
	}

	// No evidence, assume good: suppliers with no received orders or no
	// answered claims default those sub-scores to 3. Availability always
	// scores, since zero pending claims is itself a fact.
	delivery := 3
	var avgDelivery float64
	if del.Orders > 0 && del.AvgDays != nil {
		avgDelivery = *del.AvgDays
		delivery = scoreDelivery(avgDelivery)
	}

	response := 3
	var avgResponse float64
	if resp.Claims > 0 && resp.AvgDays != nil {
		avgResponse = *resp.AvgDays
		response = scoreResponse(avgResponse)
	}

	availability := scoreAvailability(pending)

	final := finalScore(delivery, response, availability)
	tier := tierFor(final)
	notes := fmt.Sprintf("Calificación automática: %s. PE: %d (%.1f días), TR: %d (%.1f días), D: %d (%d pendientes)",
		tier, delivery, avgDelivery, response, avgResponse, availability, pending)

	stored, err := rc.Ratings.UpsertRating(ctx, models.Rating{
		TaxID:             taxID,
		DeliveryScore:     &delivery,
		ResponseScore:     &response,
		AvailabilityScore: &availability,
		FinalScore:        &final,
		Notes:             &notes,
	})
	if err != nil {
		return models.Rating{}, Breakdown{}, err
	}

	breakdown := Breakdown{
		Delivery: DeliveryDetail{
			Score:   delivery,
			AvgDays: avgDelivery,
			MinDays: del.MinDays,
			MaxDays: del.MaxDays,
			Orders:  del.Orders,
		},
		Response: ResponseDetail{
			Score:   response,
			AvgDays: avgResponse,
			Claims:  resp.Claims,
		},
		Availability: AvailabilityDetail{
			Score:         availability,
			PendingClaims: pending,
		},
		FinalScore: final,
		Tier:       tier,
	}
	return stored, breakdown, nil
}

type RecalcFailure struct {
	TaxID int64  `json:"cuit"`
	Error string `json:"error"`
}

type RecalcSummary struct {
	Total     int             `json:"total_attempted"`
	Succeeded int             `json:"succeeded"`
	Failures  []RecalcFailure `json:"failures"`
}

// RecalculateAll reruns Calculate for every supplier that currently has a
// rating. Per-supplier failures are collected, not propagated, so one bad
// supplier never aborts the batch.
func (rc *RatingCalculator) RecalculateAll(ctx context.Context) (RecalcSummary, error) {
	ids, err := rc.Ratings.ListRatedSuppliers(ctx)
	if err != nil {
		return RecalcSummary{}, err
	}

	summary := RecalcSummary{Total: len(ids), Failures: []RecalcFailure{}}
	for _, taxID := range ids {
		if _, _, err := rc.Calculate(ctx, taxID); err != nil {
			rc.Logger.Warn().Int64("cuit", taxID).Err(err).Msg("rating recalculation failed")
			summary.Failures = append(summary.Failures, RecalcFailure{TaxID: taxID, Error: err.Error()})
			continue
		}
		summary.Succeeded++
	}
	return summary, nil
}
