package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/procura/backend/internal/models"
)

type interventionRequest struct {
	ClaimID      *int64    `json:"claim_id"`
	EquipmentID  int64     `json:"equipment_id" validate:"required,gt=0"`
	TechnicianID int64     `json:"technician_id" validate:"required,gt=0"`
	PerformedOn  time.Time `json:"performed_on" validate:"required"`
	Status       string    `json:"status" validate:"required"`
	Problem      *string   `json:"problem"`
	WorkDone     *string   `json:"work_done"`
}

func (h *Handler) InterventionsList(c *gin.Context) {
	interventions, err := h.Store.ListInterventions(c.Request.Context())
	if err != nil {
		h.writeStoreError(c, err, "interventions")
		return
	}
	c.JSON(http.StatusOK, interventions)
}

func (h *Handler) InterventionDetails(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	iv, err := h.Store.GetIntervention(c.Request.Context(), id)
	if err != nil {
		h.writeStoreError(c, err, "intervention")
		return
	}
	c.JSON(http.StatusOK, iv)
}

func (h *Handler) InterventionCreate(c *gin.Context) {
	var req interventionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err.Error())
		return
	}

	iv, err := h.Store.CreateIntervention(c.Request.Context(), models.Intervention{
		ClaimID:      req.ClaimID,
		EquipmentID:  req.EquipmentID,
		TechnicianID: req.TechnicianID,
		PerformedOn:  req.PerformedOn,
		Status:       req.Status,
		Problem:      req.Problem,
		WorkDone:     req.WorkDone,
	})
	if err != nil {
		h.writeStoreError(c, err, "intervention")
		return
	}
	c.JSON(http.StatusCreated, iv)
}

func (h *Handler) InterventionUpdate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req interventionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err.Error())
		return
	}

	iv, err := h.Store.UpdateIntervention(c.Request.Context(), models.Intervention{
		ID:           id,
		ClaimID:      req.ClaimID,
		EquipmentID:  req.EquipmentID,
		TechnicianID: req.TechnicianID,
		PerformedOn:  req.PerformedOn,
		Status:       req.Status,
		Problem:      req.Problem,
		WorkDone:     req.WorkDone,
	})
	if err != nil {
		h.writeStoreError(c, err, "intervention")
		return
	}
	c.JSON(http.StatusOK, iv)
}

func (h *Handler) InterventionDelete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Store.DeleteIntervention(c.Request.Context(), id); err != nil {
		h.writeStoreError(c, err, "intervention")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
