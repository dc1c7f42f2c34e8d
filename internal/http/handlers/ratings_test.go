package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/procura/backend/internal/http/middleware"
	"github.com/procura/backend/internal/models"
	"github.com/procura/backend/internal/service"
)

// fakeRatingBackend feeds the calculator without a database.
type fakeRatingBackend struct {
	orders  map[int64]int
	pending map[int64]int
	rated   []int64
	stored  map[int64]models.Rating
	nextID  int64
}

func newFakeRatingBackend() *fakeRatingBackend {
	return &fakeRatingBackend{
		orders:  map[int64]int{},
		pending: map[int64]int{},
		stored:  map[int64]models.Rating{},
		nextID:  1,
	}
}

func (f *fakeRatingBackend) CountOrders(_ context.Context, taxID int64) (int, error) {
	return f.orders[taxID], nil
}

func (f *fakeRatingBackend) DeliveryStats(_ context.Context, taxID int64) (models.DeliveryStats, error) {
	return models.DeliveryStats{}, nil
}

func (f *fakeRatingBackend) ResponseStats(_ context.Context, taxID int64) (models.ResponseStats, error) {
	return models.ResponseStats{}, nil
}

func (f *fakeRatingBackend) CountPendingClaims(_ context.Context, taxID int64) (int, error) {
	return f.pending[taxID], nil
}

func (f *fakeRatingBackend) UpsertRating(_ context.Context, r models.Rating) (models.Rating, error) {
	if existing, ok := f.stored[r.TaxID]; ok {
		r.ID = existing.ID
	} else {
		r.ID = f.nextID
		f.nextID++
	}
	f.stored[r.TaxID] = r
	return r, nil
}

func (f *fakeRatingBackend) ListRatedSuppliers(_ context.Context) ([]int64, error) {
	return f.rated, nil
}

func ratingRouter(f *fakeRatingBackend, adminKey string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &Handler{
		Calculator: &service.RatingCalculator{
			Orders:  f,
			Claims:  f,
			Ratings: f,
			Logger:  zerolog.Nop(),
		},
		Validator: validator.New(),
		Logger:    zerolog.Nop(),
	}
	r := gin.New()
	admin := r.Group("/api")
	admin.Use(middleware.AdminKey(adminKey))
	admin.POST("/ratings/calculate", h.RatingCalculate)
	admin.POST("/ratings/recalculate-all", h.RatingsRecalculateAll)
	return r
}

func postJSON(r *gin.Engine, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRatingCalculateSuccess(t *testing.T) {
	f := newFakeRatingBackend()
	f.orders[30123456789] = 2
	r := ratingRouter(f, "")

	w := postJSON(r, "/api/ratings/calculate", `{"cuit": 30123456789}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success   bool              `json:"success"`
		Rating    models.Rating     `json:"rating"`
		Breakdown service.Breakdown `json:"breakdown"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Fatal("expected success=true")
	}
	// No received orders, no claims: everything defaults to 3.
	if resp.Breakdown.FinalScore != 3.0 || resp.Breakdown.Tier != service.TierOptimal {
		t.Fatalf("unexpected breakdown: %+v", resp.Breakdown)
	}
	if resp.Rating.TaxID != 30123456789 {
		t.Fatalf("unexpected rating: %+v", resp.Rating)
	}
}

func TestRatingCalculateNoOrders(t *testing.T) {
	f := newFakeRatingBackend()
	r := ratingRouter(f, "")

	w := postJSON(r, "/api/ratings/calculate", `{"cuit": 30123456789}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Success {
		t.Fatal("expected success=false")
	}
	if resp.Error != service.ErrNoOrders.Error() {
		t.Fatalf("unexpected message: %q", resp.Error)
	}
	if len(f.stored) != 0 {
		t.Fatalf("rejection must not persist a rating")
	}
}

func TestRatingCalculateMissingCuit(t *testing.T) {
	f := newFakeRatingBackend()
	r := ratingRouter(f, "")

	w := postJSON(r, "/api/ratings/calculate", `{}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"success":false`) {
		t.Fatalf("expected error response, got %s", w.Body.String())
	}
}

func TestRatingCalculateRequiresAdminKey(t *testing.T) {
	f := newFakeRatingBackend()
	f.orders[1] = 1
	r := ratingRouter(f, "secret")

	w := postJSON(r, "/api/ratings/calculate", `{"cuit": 1}`, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d", w.Code)
	}

	w = postJSON(r, "/api/ratings/calculate", `{"cuit": 1}`, map[string]string{"X-Admin-Key": "secret"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with key, got %d", w.Code)
	}
}

func TestRecalculateAllReportsFailures(t *testing.T) {
	f := newFakeRatingBackend()
	f.rated = []int64{1, 2, 3}
	f.orders[1] = 1
	f.orders[3] = 1
	r := ratingRouter(f, "")

	w := postJSON(r, "/api/ratings/recalculate-all", ``, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Success bool                  `json:"success"`
		Summary service.RecalcSummary `json:"summary"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if !resp.Success {
		t.Fatal("expected success=true")
	}
	summary := resp.Summary
	if summary.Total != 3 || summary.Succeeded != 2 || len(summary.Failures) != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.Failures[0].TaxID != 2 {
		t.Fatalf("expected supplier 2 to fail, got %+v", summary.Failures[0])
	}
}
