package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/procura/backend/internal/models"
	"github.com/procura/backend/internal/service"
)

type calculateRequest struct {
	TaxID int64 `json:"cuit" validate:"required,gt=0"`
}

type ratingRequest struct {
	TaxID             int64    `json:"cuit" validate:"required,gt=0"`
	DeliveryScore     *int     `json:"delivery_score" validate:"omitempty,min=1,max=3"`
	QualityScore      *int     `json:"quality_score" validate:"omitempty,min=1,max=3"`
	ResponseScore     *int     `json:"response_score" validate:"omitempty,min=1,max=3"`
	AvailabilityScore *int     `json:"availability_score" validate:"omitempty,min=1,max=3"`
	FinalScore        *float64 `json:"final_score" validate:"omitempty,min=1,max=3"`
	Notes             *string  `json:"notes"`
}

func (h *Handler) RatingsList(c *gin.Context) {
	ratings, err := h.Store.ListRatings(c.Request.Context())
	if err != nil {
		h.writeStoreError(c, err, "ratings")
		return
	}
	c.JSON(http.StatusOK, ratings)
}

func (h *Handler) RatingDetails(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	rating, err := h.Store.GetRating(c.Request.Context(), id)
	if err != nil {
		h.writeStoreError(c, err, "rating")
		return
	}
	c.JSON(http.StatusOK, rating)
}

// The two calculation endpoints keep the success/error shape the frontend
// already consumes, unlike the CRUD routes.
func writeRatingError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

// @Summary Calculate supplier rating
// @Description Scores delivery, response and availability from the supplier's history and upserts the rating
// @Tags ratings
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/ratings/calculate [post]
func (h *Handler) RatingCalculate(c *gin.Context) {
	var req calculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeRatingError(c, http.StatusBadRequest, "cuit es requerido")
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeRatingError(c, http.StatusBadRequest, "cuit es requerido")
		return
	}

	rating, breakdown, err := h.Calculator.Calculate(c.Request.Context(), req.TaxID)
	if err != nil {
		if errors.Is(err, service.ErrNoOrders) {
			writeRatingError(c, http.StatusBadRequest, err.Error())
			return
		}
		h.Logger.Error().Err(err).Int64("cuit", req.TaxID).Msg("rating calculation failed")
		writeRatingError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "rating": rating, "breakdown": breakdown})
}

// @Summary Recalculate all ratings
// @Description Reruns the calculation for every rated supplier; per-supplier failures are reported, not fatal
// @Tags ratings
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/ratings/recalculate-all [post]
func (h *Handler) RatingsRecalculateAll(c *gin.Context) {
	summary, err := h.Calculator.RecalculateAll(c.Request.Context())
	if err != nil {
		h.Logger.Error().Err(err).Msg("batch recalculation failed")
		writeRatingError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "summary": summary})
}

func (h *Handler) RatingCreate(c *gin.Context) {
	var req ratingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err.Error())
		return
	}

	rating, err := h.Store.CreateRating(c.Request.Context(), models.Rating{
		TaxID:             req.TaxID,
		DeliveryScore:     req.DeliveryScore,
		QualityScore:      req.QualityScore,
		ResponseScore:     req.ResponseScore,
		AvailabilityScore: req.AvailabilityScore,
		FinalScore:        req.FinalScore,
		Notes:             req.Notes,
	})
	if err != nil {
		h.writeStoreError(c, err, "rating")
		return
	}
	c.JSON(http.StatusCreated, rating)
}

func (h *Handler) RatingUpdate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req ratingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err.Error())
		return
	}

	rating, err := h.Store.UpdateRating(c.Request.Context(), models.Rating{
		ID:                id,
		TaxID:             req.TaxID,
		DeliveryScore:     req.DeliveryScore,
		QualityScore:      req.QualityScore,
		ResponseScore:     req.ResponseScore,
		AvailabilityScore: req.AvailabilityScore,
		FinalScore:        req.FinalScore,
		Notes:             req.Notes,
	})
	if err != nil {
		h.writeStoreError(c, err, "rating")
		return
	}
	c.JSON(http.StatusOK, rating)
}

func (h *Handler) RatingDelete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Store.DeleteRating(c.Request.Context(), id); err != nil {
		h.writeStoreError(c, err, "rating")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
