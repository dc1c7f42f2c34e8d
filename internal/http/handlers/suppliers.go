package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/procura/backend/internal/db"
)

type addressRequest struct {
	Kind     string `json:"kind" validate:"required"`
	Street   string `json:"street" validate:"required"`
	Number   *int   `json:"number"`
	Locality string `json:"locality" validate:"required"`
	Province string `json:"province" validate:"required"`
	Country  string `json:"country" validate:"required"`
}

type supplierCreateRequest struct {
	TaxID     int64           `json:"cuit" validate:"required,gt=0"`
	LegalName string          `json:"legal_name" validate:"required"`
	Phone     *string         `json:"phone"`
	Email     *string         `json:"email" validate:"omitempty,email"`
	Category  string          `json:"category"`
	Address   *addressRequest `json:"address"`
}

type supplierUpdateRequest struct {
	LegalName string  `json:"legal_name" validate:"required"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Category  *string `json:"category"`
}

// @Summary List suppliers
// @Tags suppliers
// @Produce json
// @Success 200 {array} models.Supplier
// @Router /api/suppliers [get]
func (h *Handler) SuppliersList(c *gin.Context) {
	suppliers, err := h.Store.ListSuppliers(c.Request.Context())
	if err != nil {
		h.writeStoreError(c, err, "suppliers")
		return
	}
	c.JSON(http.StatusOK, suppliers)
}

// SupplierOptions serves the cuit/name pairs the frontend uses to populate
// supplier dropdowns.
func (h *Handler) SupplierOptions(c *gin.Context) {
	options, err := h.Store.ListSupplierOptions(c.Request.Context())
	if err != nil {
		h.writeStoreError(c, err, "suppliers")
		return
	}
	c.JSON(http.StatusOK, options)
}

func (h *Handler) SupplierDetails(c *gin.Context) {
	taxID, ok := pathID(c)
	if !ok {
		return
	}
	supplier, err := h.Store.GetSupplier(c.Request.Context(), taxID)
	if err != nil {
		h.writeStoreError(c, err, "supplier")
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func (h *Handler) SupplierAddresses(c *gin.Context) {
	taxID, ok := pathID(c)
	if !ok {
		return
	}
	addresses, err := h.Store.ListSupplierAddresses(c.Request.Context(), taxID)
	if err != nil {
		h.writeStoreError(c, err, "addresses")
		return
	}
	c.JSON(http.StatusOK, addresses)
}

// @Summary Create supplier
// @Tags suppliers
// @Accept json
// @Produce json
// @Success 201 {object} models.Supplier
// @Failure 400 {object} map[string]any
// @Router /api/suppliers [post]
func (h *Handler) SupplierCreate(c *gin.Context) {
	var req supplierCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err.Error())
		return
	}

	n := db.NewSupplier{
		TaxID:     req.TaxID,
		LegalName: req.LegalName,
		Phone:     req.Phone,
		Email:     req.Email,
		Category:  req.Category,
	}
	if a := req.Address; a != nil {
		if err := h.Validator.Struct(a); err != nil {
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err.Error())
			return
		}
		n.Address = &db.Address{
			Kind:     a.Kind,
			Street:   a.Street,
			Number:   a.Number,
			Locality: a.Locality,
			Province: a.Province,
			Country:  a.Country,
		}
	}

	if err := h.Store.CreateSupplier(c.Request.Context(), n); err != nil {
		h.writeStoreError(c, err, "supplier")
		return
	}
	supplier, err := h.Store.GetSupplier(c.Request.Context(), req.TaxID)
	if err != nil {
		h.writeStoreError(c, err, "supplier")
		return
	}
	c.JSON(http.StatusCreated, supplier)
}

func (h *Handler) SupplierUpdate(c *gin.Context) {
	taxID, ok := pathID(c)
	if !ok {
		return
	}
	var req supplierUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err.Error())
		return
	}

	if err := h.Store.UpdateSupplier(c.Request.Context(), taxID, req.LegalName, req.Phone, req.Email, req.Category); err != nil {
		h.writeStoreError(c, err, "supplier")
		return
	}
	supplier, err := h.Store.GetSupplier(c.Request.Context(), taxID)
	if err != nil {
		h.writeStoreError(c, err, "supplier")
		return
	}
	c.JSON(http.StatusOK, supplier)
}

// @Summary Delete supplier
// @Description Removes the supplier and all of its orders, claims, contracts and ratings
// @Tags suppliers
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /api/suppliers/{id} [delete]
func (h *Handler) SupplierDelete(c *gin.Context) {
	taxID, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Store.DeleteSupplier(c.Request.Context(), taxID); err != nil {
		h.writeStoreError(c, err, "supplier")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": taxID})
}
