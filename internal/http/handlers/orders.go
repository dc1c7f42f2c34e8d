package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/procura/backend/internal/models"
)

type orderItemRequest struct {
	Description string  `json:"description" validate:"required"`
	Quantity    int     `json:"quantity" validate:"required,gt=0"`
	UnitPrice   float64 `json:"unit_price" validate:"required,gt=0"`
	EquipmentID *int64  `json:"equipment_id"`
}

type orderRequest struct {
	TaxID      int64              `json:"cuit" validate:"required,gt=0"`
	EmployeeID int64              `json:"employee_id" validate:"required,gt=0"`
	OrderedOn  time.Time          `json:"ordered_on" validate:"required"`
	ReceivedOn *time.Time         `json:"received_on"`
	Status     string             `json:"status" validate:"required,oneof=Pendiente Confirmada Recibida Cancelada"`
	Items      []orderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// buildOrder validates cross-field rules and prices the line items. Subtotals
// are computed server side with exact decimal arithmetic, rounded to cents;
// client-supplied subtotals are ignored.
func (h *Handler) buildOrder(c *gin.Context, req orderRequest) (models.Order, bool) {
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err.Error())
		return models.Order{}, false
	}
	if req.Status == models.OrderStatusReceived && req.ReceivedOn == nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "received_on is required for received orders", nil)
		return models.Order{}, false
	}
	if req.ReceivedOn != nil && req.ReceivedOn.Before(req.OrderedOn) {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "received_on must not precede ordered_on", nil)
		return models.Order{}, false
	}

	o := models.Order{
		TaxID:      req.TaxID,
		EmployeeID: req.EmployeeID,
		OrderedOn:  req.OrderedOn,
		ReceivedOn: req.ReceivedOn,
		Status:     req.Status,
	}
	for _, it := range req.Items {
		subtotal := decimal.NewFromFloat(it.UnitPrice).
			Mul(decimal.NewFromInt(int64(it.Quantity))).
			Round(2)
		o.Items = append(o.Items, models.OrderItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    subtotal.InexactFloat64(),
			EquipmentID: it.EquipmentID,
		})
	}
	return o, true
}

func (h *Handler) OrdersList(c *gin.Context) {
	orders, err := h.Store.ListOrders(c.Request.Context())
	if err != nil {
		h.writeStoreError(c, err, "orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) OrderDetails(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	order, err := h.Store.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.writeStoreError(c, err, "order")
		return
	}
	c.JSON(http.StatusOK, order)
}

// @Summary Create purchase order
// @Tags orders
// @Accept json
// @Produce json
// @Success 201 {object} models.Order
// @Failure 400 {object} map[string]any
// @Router /api/orders [post]
func (h *Handler) OrderCreate(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err.Error())
		return
	}
	o, ok := h.buildOrder(c, req)
	if !ok {
		return
	}

	id, err := h.Store.CreateOrder(c.Request.Context(), o)
	if err != nil {
		h.writeStoreError(c, err, "order")
		return
	}
	created, err := h.Store.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.writeStoreError(c, err, "order")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// OrderUpdate rewrites the order. Confirming a pending order triggers
// placeholder equipment generation in the store; items are only replaced
// while the order is still unconfirmed.
func (h *Handler) OrderUpdate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err.Error())
		return
	}
	o, ok := h.buildOrder(c, req)
	if !ok {
		return
	}
	o.ID = id

	if err := h.Store.UpdateOrder(c.Request.Context(), o); err != nil {
		h.writeStoreError(c, err, "order")
		return
	}
	updated, err := h.Store.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.writeStoreError(c, err, "order")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) OrderDelete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Store.DeleteOrder(c.Request.Context(), id); err != nil {
		h.writeStoreError(c, err, "order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
