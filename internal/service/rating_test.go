package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/procura/backend/internal/models"
)

func TestScoreDeliveryBands(t *testing.T) {
	cases := []struct {
		avg  float64
		want int
	}{
		{0, 3},
		{3.9, 3},
		{4, 3},
		{4.1, 2},
		{5, 2},
		{9, 2},
		{9.5, 1},
		{10, 1},
		{25, 1},
	}
	for _, c := range cases {
		if got := scoreDelivery(c.avg); got != c.want {
			t.Errorf("scoreDelivery(%v) = %d, want %d", c.avg, got, c.want)
		}
	}
}

func TestScoreResponseBands(t *testing.T) {
	cases := []struct {
		avg  float64
		want int
	}{
		{0, 3},
		{2, 3},
		{2.5, 2},
		{3, 2},
		{5, 2},
		{5.1, 1},
		{12, 1},
	}
	for _, c := range cases {
		if got := scoreResponse(c.avg); got != c.want {
			t.Errorf("scoreResponse(%v) = %d, want %d", c.avg, got, c.want)
		}
	}
}

func TestScoreAvailabilityBands(t *testing.T) {
	cases := []struct {
		pending int
		want    int
	}{
		{0, 3},
		{1, 2},
		{2, 2},
		{3, 1},
		{7, 1},
	}
	for _, c := range cases {
		if got := scoreAvailability(c.pending); got != c.want {
			t.Errorf("scoreAvailability(%d) = %d, want %d", c.pending, got, c.want)
		}
	}
}

func TestFinalScoreAndTierCombinations(t *testing.T) {
	cases := []struct {
		d, r, a  int
		want     float64
		wantTier string
	}{
		{3, 3, 3, 3.0, TierOptimal},
		{3, 3, 2, 8.0 / 3, TierAcceptable},
		{2, 2, 2, 2.0, TierAcceptable},
		{3, 2, 1, 2.0, TierAcceptable},
		{2, 1, 1, 4.0 / 3, TierUnsatisfactory},
		{1, 1, 1, 1.0, TierUnsatisfactory},
	}
	for _, c := range cases {
		got := finalScore(c.d, c.r, c.a)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("finalScore(%d,%d,%d) = %v, want %v", c.d, c.r, c.a, got, c.want)
		}
		if tier := tierFor(got); tier != c.wantTier {
			t.Errorf("tierFor(%v) = %q, want %q", got, tier, c.wantTier)
		}
	}
}

func TestTierBoundaries(t *testing.T) {
	cases := []struct {
		final float64
		want  string
	}{
		{2.7, TierOptimal},
		{2.6999, TierAcceptable},
		{1.7, TierAcceptable},
		{1.6999, TierUnsatisfactory},
	}
	for _, c := range cases {
		if got := tierFor(c.final); got != c.want {
			t.Errorf("tierFor(%v) = %q, want %q", c.final, got, c.want)
		}
	}
}

// fakeStats is an in-memory stand-in for the order/claim/rating stores.
type fakeStats struct {
	orders       map[int64]int
	delivery     map[int64]models.DeliveryStats
	response     map[int64]models.ResponseStats
	pending      map[int64]int
	ratings      map[int64]models.Rating
	nextID       int64
	upsertCalls  int
	failCount    bool
	failDelivery bool
}

func newFakeStats() *fakeStats {
	return &fakeStats{
		orders:   map[int64]int{},
		delivery: map[int64]models.DeliveryStats{},
		response: map[int64]models.ResponseStats{},
		pending:  map[int64]int{},
		ratings:  map[int64]models.Rating{},
		nextID:   1,
	}
}

func (f *fakeStats) CountOrders(_ context.Context, taxID int64) (int, error) {
	if f.failCount {
		return 0, errors.New("db down")
	}
	return f.orders[taxID], nil
}

func (f *fakeStats) DeliveryStats(_ context.Context, taxID int64) (models.DeliveryStats, error) {
	if f.failDelivery {
		return models.DeliveryStats{}, errors.New("db down")
	}
	return f.delivery[taxID], nil
}

func (f *fakeStats) ResponseStats(_ context.Context, taxID int64) (models.ResponseStats, error) {
	return f.response[taxID], nil
}

func (f *fakeStats) CountPendingClaims(_ context.Context, taxID int64) (int, error) {
	return f.pending[taxID], nil
}

func (f *fakeStats) UpsertRating(_ context.Context, r models.Rating) (models.Rating, error) {
	f.upsertCalls++
	if existing, ok := f.ratings[r.TaxID]; ok {
		r.ID = existing.ID
	} else {
		r.ID = f.nextID
		f.nextID++
	}
	f.ratings[r.TaxID] = r
	return r, nil
}

func (f *fakeStats) ListRatedSuppliers(_ context.Context) ([]int64, error) {
	var out []int64
	for id := range f.ratings {
		out = append(out, id)
	}
	return out, nil
}

func calculator(f *fakeStats) *RatingCalculator {
	return &RatingCalculator{Orders: f, Claims: f, Ratings: f, Logger: zerolog.Nop()}
}

func avg(v float64) *float64 { return &v }

func TestCalculateAllGood(t *testing.T) {
	f := newFakeStats()
	f.orders[100] = 1
	f.delivery[100] = models.DeliveryStats{AvgDays: avg(3), MinDays: 3, MaxDays: 3, Orders: 1}
	f.response[100] = models.ResponseStats{AvgDays: avg(1), Claims: 2}
	f.pending[100] = 0

	rating, breakdown, err := calculator(f).Calculate(context.Background(), 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *rating.DeliveryScore != 3 || *rating.ResponseScore != 3 || *rating.AvailabilityScore != 3 {
		t.Fatalf("expected all sub-scores 3, got %+v", rating)
	}
	if *rating.FinalScore != 3.0 {
		t.Fatalf("expected final 3.0, got %v", *rating.FinalScore)
	}
	if breakdown.Tier != TierOptimal {
		t.Fatalf("expected tier %q, got %q", TierOptimal, breakdown.Tier)
	}
	if rating.QualityScore != nil {
		t.Fatalf("automatic calculation must not set a quality score")
	}
}

func TestCalculateDefaultsWithoutEvidence(t *testing.T) {
	// 12-day deliveries, no claims on file, 4 pending claims:
	// delivery 1, response defaults to 3, availability 1 => 5/3 = 1.67,
	// just under the 1.7 cutoff.
	f := newFakeStats()
	f.orders[200] = 3
	f.delivery[200] = models.DeliveryStats{AvgDays: avg(12), MinDays: 10, MaxDays: 15, Orders: 3}
	f.response[200] = models.ResponseStats{}
	f.pending[200] = 4

	rating, breakdown, err := calculator(f).Calculate(context.Background(), 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *rating.DeliveryScore != 1 || *rating.ResponseScore != 3 || *rating.AvailabilityScore != 1 {
		t.Fatalf("unexpected sub-scores: %+v", rating)
	}
	if math.Abs(*rating.FinalScore-5.0/3) > 1e-9 {
		t.Fatalf("expected final 5/3, got %v", *rating.FinalScore)
	}
	if breakdown.Tier != TierUnsatisfactory {
		t.Fatalf("expected tier %q, got %q", TierUnsatisfactory, breakdown.Tier)
	}
}

func TestCalculateNoOrdersRejected(t *testing.T) {
	f := newFakeStats()
	_, _, err := calculator(f).Calculate(context.Background(), 300)
	if !errors.Is(err, ErrNoOrders) {
		t.Fatalf("expected ErrNoOrders, got %v", err)
	}
	if f.upsertCalls != 0 {
		t.Fatalf("no rating must be written on rejection, got %d upserts", f.upsertCalls)
	}
}

func TestCalculateReadFailureWritesNothing(t *testing.T) {
	f := newFakeStats()
	f.orders[400] = 2
	f.failDelivery = true
	_, _, err := calculator(f).Calculate(context.Background(), 400)
	if err == nil {
		t.Fatal("expected error")
	}
	if f.upsertCalls != 0 {
		t.Fatalf("no rating must be written when a read fails, got %d upserts", f.upsertCalls)
	}
}

func TestCalculateIdempotent(t *testing.T) {
	f := newFakeStats()
	f.orders[500] = 2
	f.delivery[500] = models.DeliveryStats{AvgDays: avg(6), MinDays: 5, MaxDays: 7, Orders: 2}
	f.response[500] = models.ResponseStats{AvgDays: avg(4), Claims: 1}
	f.pending[500] = 1

	rc := calculator(f)
	first, _, err := rc.Calculate(context.Background(), 500)
	if err != nil {
		t.Fatalf("first calculation: %v", err)
	}
	second, _, err := rc.Calculate(context.Background(), 500)
	if err != nil {
		t.Fatalf("second calculation: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("rating id must survive recalculation: %d != %d", first.ID, second.ID)
	}
	if *first.FinalScore != *second.FinalScore || *first.Notes != *second.Notes {
		t.Fatalf("recalculation with unchanged data must be identical:\n%+v\n%+v", first, second)
	}
}

func TestRecalculateAllIsolatesFailures(t *testing.T) {
	f := newFakeStats()
	for _, taxID := range []int64{1, 2, 3} {
		f.orders[taxID] = 1
		f.delivery[taxID] = models.DeliveryStats{AvgDays: avg(2), Orders: 1}
		d, r, a := 3, 3, 3
		fs := 3.0
		f.ratings[taxID] = models.Rating{ID: taxID, TaxID: taxID, DeliveryScore: &d, ResponseScore: &r, AvailabilityScore: &a, FinalScore: &fs}
		f.nextID = taxID + 1
	}
	// Supplier 2 lost its orders since it was last rated.
	f.orders[2] = 0

	summary, err := calculator(f).RecalculateAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Total != 3 || summary.Succeeded != 2 {
		t.Fatalf("expected 2/3 succeeded, got %+v", summary)
	}
	if len(summary.Failures) != 1 || summary.Failures[0].TaxID != 2 {
		t.Fatalf("expected one failure for supplier 2, got %+v", summary.Failures)
	}
	if summary.Failures[0].Error != ErrNoOrders.Error() {
		t.Fatalf("expected business-rule error text, got %q", summary.Failures[0].Error)
	}
}

func TestNotesEmbedRawAverages(t *testing.T) {
	f := newFakeStats()
	f.orders[600] = 1
	f.delivery[600] = models.DeliveryStats{AvgDays: avg(3.21), MinDays: 3, MaxDays: 4, Orders: 2}
	f.response[600] = models.ResponseStats{AvgDays: avg(1.5), Claims: 1}
	f.pending[600] = 2

	rating, _, err := calculator(f).Calculate(context.Background(), 600)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Calificación automática: Aceptable. PE: 3 (3.2 días), TR: 3 (1.5 días), D: 2 (2 pendientes)"
	if *rating.Notes != want {
		t.Fatalf("notes mismatch:\n got %q\nwant %q", *rating.Notes, want)
	}
}
