package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/procura/backend/internal/models"
)

type technicianRequest struct {
	TaxID int64   `json:"cuit" validate:"required,gt=0"`
	Name  string  `json:"name" validate:"required"`
	Phone *string `json:"phone"`
}

func (h *Handler) EquipmentList(c *gin.Context) {
	equipment, err := h.Store.ListOperationalEquipment(c.Request.Context())
	if err != nil {
		h.writeStoreError(c, err, "equipment")
		return
	}
	c.JSON(http.StatusOK, equipment)
}

func (h *Handler) ExpiredWarranties(c *gin.Context) {
	equipment, err := h.Store.ListExpiredWarranties(c.Request.Context())
	if err != nil {
		h.writeStoreError(c, err, "equipment")
		return
	}
	c.JSON(http.StatusOK, equipment)
}

func (h *Handler) TechniciansList(c *gin.Context) {
	technicians, err := h.Store.ListTechnicians(c.Request.Context())
	if err != nil {
		h.writeStoreError(c, err, "technicians")
		return
	}
	c.JSON(http.StatusOK, technicians)
}

func (h *Handler) TechnicianCreate(c *gin.Context) {
	var req technicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err.Error())
		return
	}

	technician, err := h.Store.CreateTechnician(c.Request.Context(), models.Technician{
		TaxID: req.TaxID,
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		h.writeStoreError(c, err, "technician")
		return
	}
	c.JSON(http.StatusCreated, technician)
}

func (h *Handler) TechnicianUpdate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req technicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err.Error())
		return
	}

	technician, err := h.Store.UpdateTechnician(c.Request.Context(), models.Technician{
		ID:    id,
		TaxID: req.TaxID,
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		h.writeStoreError(c, err, "technician")
		return
	}
	c.JSON(http.StatusOK, technician)
}

func (h *Handler) TechnicianDelete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Store.DeleteTechnician(c.Request.Context(), id); err != nil {
		h.writeStoreError(c, err, "technician")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
