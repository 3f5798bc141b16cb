package api

import (
	"invoicing/database"
	"invoicing/service"

	"github.com/gin-gonic/gin"
)

// Summary totals invoiced lines over a date range
// @Summary Invoiced totals
// @Description Sums amount, GST and total of the lines of invoices dated in the range. Without start_date or end_date that side is open.
// @Tags statistics
// @Produce json
// @Security BearerAuth
// @Param start_date query string false "first day (YYYY-MM-DD)"
// @Param end_date query string false "last day (YYYY-MM-DD)"
// @Success 200 {object} Response{data=service.Summary} "totals"
// @Failure 400 {object} Response "invalid date"
// @Router /api/v1/statistics/summary [get]
func (h *InvoiceHandler) Summary(c *gin.Context) {
	from, err := parseDate(c.Query("start_date"))
	if err != nil {
		BadRequest(c, "start_date must be YYYY-MM-DD")
		return
	}
	to, err := parseDate(c.Query("end_date"))
	if err != nil {
		BadRequest(c, "end_date must be YYYY-MM-DD")
		return
	}

	summary, err := service.NewInvoiceService(database.DB).Summarize(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err, "could not load totals")
		return
	}
	Success(c, summary)
}
