package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/procura/backend/internal/models"
)

type contractRequest struct {
	TaxID        int64     `json:"cuit" validate:"required,gt=0"`
	StartsOn     time.Time `json:"starts_on" validate:"required"`
	ExpiresOn    time.Time `json:"expires_on" validate:"required"`
	Description  *string   `json:"description"`
	FilePath     *string   `json:"file_path"`
	ResponseTime *string   `json:"response_time"`
	Availability *float64  `json:"availability" validate:"omitempty,min=0,max=100"`
}

func (h *Handler) ContractsList(c *gin.Context) {
	contracts, err := h.Store.ListContracts(c.Request.Context())
	if err != nil {
		h.writeStoreError(c, err, "contracts")
		return
	}
	c.JSON(http.StatusOK, contracts)
}

func (h *Handler) ContractDetails(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	contract, err := h.Store.GetContract(c.Request.Context(), id)
	if err != nil {
		h.writeStoreError(c, err, "contract")
		return
	}
	c.JSON(http.StatusOK, contract)
}

// ContractsExpiring lists contracts that run out within the alert window.
// The window defaults from configuration and can be overridden with ?days=N.
func (h *Handler) ContractsExpiring(c *gin.Context) {
	days := h.ContractAlertDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "days must be a positive integer", nil)
			return
		}
		days = parsed
	}

	contracts, err := h.Store.ListExpiringContracts(c.Request.Context(), days)
	if err != nil {
		h.writeStoreError(c, err, "contracts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days, "contracts": contracts})
}

func (h *Handler) ContractCreate(c *gin.Context) {
	var req contractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err.Error())
		return
	}
	if !req.ExpiresOn.After(req.StartsOn) {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "expires_on must follow starts_on", nil)
		return
	}

	contract, err := h.Store.CreateContract(c.Request.Context(), models.Contract{
		TaxID:        req.TaxID,
		StartsOn:     req.StartsOn,
		ExpiresOn:    req.ExpiresOn,
		Description:  req.Description,
		FilePath:     req.FilePath,
		ResponseTime: req.ResponseTime,
		Availability: req.Availability,
	})
	if err != nil {
		h.writeStoreError(c, err, "contract")
		return
	}
	c.JSON(http.StatusCreated, contract)
}

func (h *Handler) ContractUpdate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req contractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err.Error())
		return
	}

	contract, err := h.Store.UpdateContract(c.Request.Context(), models.Contract{
		ID:           id,
		TaxID:        req.TaxID,
		StartsOn:     req.StartsOn,
		ExpiresOn:    req.ExpiresOn,
		Description:  req.Description,
		FilePath:     req.FilePath,
		ResponseTime: req.ResponseTime,
		Availability: req.Availability,
	})
	if err != nil {
		h.writeStoreError(c, err, "contract")
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *Handler) ContractDelete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Store.DeleteContract(c.Request.Context(), id); err != nil {
		h.writeStoreError(c, err, "contract")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
