package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/procura/backend/internal/models"
)

const dateLayout = "2006-01-02"

// @Summary Supplier spending report
// @Description Totals received orders per supplier in a date range; ?format=xlsx downloads a spreadsheet
// @Tags reports
// @Produce json
// @Param from query string true "start date (YYYY-MM-DD)"
// @Param to query string true "end date (YYYY-MM-DD)"
// @Param format query string false "json or xlsx"
// @Success 200 {array} models.SupplierSpending
// @Failure 400 {object} map[string]any
// @Router /api/reports/supplier-spending [get]
func (h *Handler) SupplierSpendingReport(c *gin.Context) {
	from, err := time.Parse(dateLayout, c.Query("from"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "from must be a YYYY-MM-DD date", nil)
		return
	}
	to, err := time.Parse(dateLayout, c.Query("to"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "to must be a YYYY-MM-DD date", nil)
		return
	}
	if to.Before(from) {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "to must not precede from", nil)
		return
	}

	rows, err := h.Store.SupplierSpending(c.Request.Context(), from, to)
	if err != nil {
		h.writeStoreError(c, err, "report")
		return
	}

	if c.Query("format") == "xlsx" {
		h.writeSpendingXLSX(c, rows, from, to)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) writeSpendingXLSX(c *gin.Context, rows []models.SupplierSpending, from, to time.Time) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Gastos por proveedor"
	index, err := f.NewSheet(sheet)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "REPORT_ERROR", "failed to build spreadsheet", nil)
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"CUIT", "Razón social", "Órdenes", "Total"}
	for i, head := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, head)
	}
	for i, r := range rows {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", i+2), r.TaxID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", i+2), r.LegalName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", i+2), r.Orders)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", i+2), r.Total)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		writeError(c, http.StatusInternalServerError, "REPORT_ERROR", "failed to build spreadsheet", nil)
		return
	}

	filename := fmt.Sprintf("gastos_%s_%s.xlsx", from.Format(dateLayout), to.Format(dateLayout))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
