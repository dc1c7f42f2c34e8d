package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/procura/backend/internal/db"
	"github.com/procura/backend/internal/service"
)

type Handler struct {
	Store             *db.Store
	Calculator        *service.RatingCalculator
	Validator         *validator.Validate
	Logger            zerolog.Logger
	AdminKey          string
	ContractAlertDays int
}

func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// writeStoreError maps the store's sentinel errors onto HTTP statuses;
// anything unexpected becomes a 500 with the message kept out of the body.
func (h *Handler) writeStoreError(c *gin.Context, err error, what string) {
	if errors.Is(err, db.ErrNotFound) || errors.Is(err, pgx.ErrNoRows) {
		writeError(c, http.StatusNotFound, "NOT_FOUND", what+" not found", nil)
		return
	}
	h.Logger.Error().Err(err).Str("resource", what).Msg("store error")
	writeError(c, http.StatusInternalServerError, "DB_ERROR", "Database error", nil)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid id", nil)
		return 0, false
	}
	return id, true
}
