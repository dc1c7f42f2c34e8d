package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/procura/backend/internal/models"
)

func testContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/orders", nil)
	return c, w
}

func testHandler() *Handler {
	return &Handler{Validator: validator.New(), Logger: zerolog.Nop()}
}

func TestBuildOrderPricesItems(t *testing.T) {
	h := testHandler()
	c, _ := testContext()

	o, ok := h.buildOrder(c, orderRequest{
		TaxID:      30123456789,
		EmployeeID: 7,
		OrderedOn:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:     models.OrderStatusPending,
		Items: []orderItemRequest{
			{Description: "Notebook 14\"", Quantity: 3, UnitPrice: 19.99},
			{Description: "Dock USB-C", Quantity: 2, UnitPrice: 0.1},
		},
	})
	if !ok {
		t.Fatal("expected valid order")
	}
	if o.Items[0].Subtotal != 59.97 {
		t.Fatalf("expected subtotal 59.97, got %v", o.Items[0].Subtotal)
	}
	if o.Items[1].Subtotal != 0.2 {
		t.Fatalf("expected subtotal 0.2, got %v", o.Items[1].Subtotal)
	}
}

func TestBuildOrderReceivedNeedsDate(t *testing.T) {
	h := testHandler()
	c, w := testContext()

	_, ok := h.buildOrder(c, orderRequest{
		TaxID:      1,
		EmployeeID: 1,
		OrderedOn:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:     models.OrderStatusReceived,
		Items:      []orderItemRequest{{Description: "x", Quantity: 1, UnitPrice: 1}},
	})
	if ok {
		t.Fatal("expected rejection of received order without received_on")
	}
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestBuildOrderReceivedBeforeOrdered(t *testing.T) {
	h := testHandler()
	c, w := testContext()

	received := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	_, ok := h.buildOrder(c, orderRequest{
		TaxID:      1,
		EmployeeID: 1,
		OrderedOn:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		ReceivedOn: &received,
		Status:     models.OrderStatusPending,
		Items:      []orderItemRequest{{Description: "x", Quantity: 1, UnitPrice: 1}},
	})
	if ok {
		t.Fatal("expected rejection when received_on precedes ordered_on")
	}
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestBuildOrderRejectsBadItems(t *testing.T) {
	h := testHandler()

	cases := []orderItemRequest{
		{Description: "x", Quantity: 0, UnitPrice: 1},
		{Description: "x", Quantity: 1, UnitPrice: 0},
		{Description: "", Quantity: 1, UnitPrice: 1},
	}
	for i, item := range cases {
		c, w := testContext()
		_, ok := h.buildOrder(c, orderRequest{
			TaxID:      1,
			EmployeeID: 1,
			OrderedOn:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			Status:     models.OrderStatusPending,
			Items:      []orderItemRequest{item},
		})
		if ok {
			t.Fatalf("case %d: expected rejection", i)
		}
		if w.Code != http.StatusBadRequest {
			t.Fatalf("case %d: expected 400, got %d", i, w.Code)
		}
	}
}
