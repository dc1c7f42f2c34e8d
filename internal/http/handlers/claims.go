package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/procura/backend/internal/models"
)

type claimRequest struct {
	EmployeeID  int64     `json:"employee_id" validate:"required,gt=0"`
	EquipmentID *int64    `json:"equipment_id"`
	OrderID     *int64    `json:"order_id"`
	ReportedOn  time.Time `json:"reported_on" validate:"required"`
	Description *string   `json:"description"`
	Priority    string    `json:"priority" validate:"required,oneof=ALTA MEDIA BAJA"`
	Status      string    `json:"status" validate:"required,oneof=PENDIENTE EN_PROCESO RESUELTO"`
}

// validateClaim enforces that the claim points at something: either a piece
// of equipment or a purchase order.
func (h *Handler) validateClaim(c *gin.Context, req claimRequest) bool {
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err.Error())
		return false
	}
	if req.EquipmentID == nil && req.OrderID == nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "claim requires an equipment_id or an order_id", nil)
		return false
	}
	return true
}

func (h *Handler) ClaimsList(c *gin.Context) {
	claims, err := h.Store.ListClaims(c.Request.Context())
	if err != nil {
		h.writeStoreError(c, err, "claims")
		return
	}
	c.JSON(http.StatusOK, claims)
}

func (h *Handler) ClaimDetails(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	claim, err := h.Store.GetClaim(c.Request.Context(), id)
	if err != nil {
		h.writeStoreError(c, err, "claim")
		return
	}
	c.JSON(http.StatusOK, claim)
}

func (h *Handler) ClaimCreate(c *gin.Context) {
	var req claimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err.Error())
		return
	}
	if !h.validateClaim(c, req) {
		return
	}

	claim, err := h.Store.CreateClaim(c.Request.Context(), models.Claim{
		EmployeeID:  req.EmployeeID,
		EquipmentID: req.EquipmentID,
		OrderID:     req.OrderID,
		ReportedOn:  req.ReportedOn,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
	})
	if err != nil {
		h.writeStoreError(c, err, "claim")
		return
	}
	c.JSON(http.StatusCreated, claim)
}

func (h *Handler) ClaimUpdate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req claimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err.Error())
		return
	}
	if !h.validateClaim(c, req) {
		return
	}

	claim, err := h.Store.UpdateClaim(c.Request.Context(), models.Claim{
		ID:          id,
		EmployeeID:  req.EmployeeID,
		EquipmentID: req.EquipmentID,
		OrderID:     req.OrderID,
		ReportedOn:  req.ReportedOn,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
	})
	if err != nil {
		h.writeStoreError(c, err, "claim")
		return
	}
	c.JSON(http.StatusOK, claim)
}

func (h *Handler) ClaimDelete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Store.DeleteClaim(c.Request.Context(), id); err != nil {
		h.writeStoreError(c, err, "claim")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
