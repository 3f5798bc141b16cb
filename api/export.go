package api

import (
	"fmt"
	"net/http"
	"time"

	"invoicing/config"
	"invoicing/database"
	"invoicing/export"
	"invoicing/metrics"
	"invoicing/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ExportHandler MYOB export endpoints
type ExportHandler struct {
	cfg   *config.Config
	email *service.EmailService
	now   func() time.Time
}

// NewExportHandler creates the export handler
func NewExportHandler(cfg *config.Config) *ExportHandler {
	return &ExportHandler{
		cfg:   cfg,
		email: service.NewEmailService(&cfg.Email),
		now:   time.Now,
	}
}

func attachment(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, contentType, data)
}

// Clients downloads all clients as a MYOB customer card import file
// @Summary Export clients for MYOB
// @Tags export
// @Produce text/tab-separated-values
// @Security BearerAuth
// @Success 200 {file} file "clients-myob-yyyyMMdd.txt"
// @Router /api/v1/export/clients [get]
func (h *ExportHandler) Clients(c *gin.Context) {
	clients, err := service.NewClientService(database.DB).List(c.Request.Context(), "")
	if err != nil {
		respondError(c, err, "could not load clients")
		return
	}

	data := export.Clients(clients)
	metrics.ExportsGenerated.WithLabelValues("clients_tsv").Inc()

	attachment(c, export.ClientsFilename(h.now()), export.ContentType+"; charset=utf-8", data)
}

// Invoices downloads the invoice lines of a month as a MYOB sales import file
// @Summary Export invoices for MYOB
// @Description One row per invoice line, invoices ordered by date. Missing year or month means the current one.
// @Tags export
// @Produce text/tab-separated-values
// @Security BearerAuth
// @Param year query int false "year"
// @Param month query int false "month 1-12"
// @Success 200 {file} file "invoices-export-yyyy-MM.txt"
// @Router /api/v1/export/invoices [get]
func (h *ExportHandler) Invoices(c *gin.Context) {
	year, month := service.ResolvePeriod(queryInt(c, "year"), queryInt(c, "month"), h.now())

	invoices, err := service.NewInvoiceService(database.DB).ListMonth(c.Request.Context(), year, month)
	if err != nil {
		respondError(c, err, "could not load invoices")
		return
	}

	data, _ := export.Invoices(invoices)
	metrics.ExportsGenerated.WithLabelValues("invoices_tsv").Inc()

	attachment(c, export.InvoicesFilename(year, month), export.ContentType+"; charset=utf-8", data)
}

// InvoicesExcel downloads the invoice lines of a month as a workbook
// @Summary Export invoices as Excel
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param year query int false "year"
// @Param month query int false "month 1-12"
// @Success 200 {file} file "invoices-yyyy-MM.xlsx"
// @Router /api/v1/export/invoices/excel [get]
func (h *ExportHandler) InvoicesExcel(c *gin.Context) {
	year, month := service.ResolvePeriod(queryInt(c, "year"), queryInt(c, "month"), h.now())

	invoices, err := service.NewInvoiceService(database.DB).ListMonth(c.Request.Context(), year, month)
	if err != nil {
		respondError(c, err, "could not load invoices")
		return
	}

	f, err := export.InvoicesWorkbook(invoices, year, month)
	if err != nil {
		respondError(c, err, "could not build workbook")
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		respondError(c, err, "could not build workbook")
		return
	}
	metrics.ExportsGenerated.WithLabelValues("invoices_xlsx").Inc()

	attachment(c, export.InvoicesExcelFilename(year, month), export.ExcelContentType, buf.Bytes())
}

// EmailInvoicesRequest email export body
type EmailInvoicesRequest struct {
	Year  int    `json:"year" example:"2024"`
	Month int    `json:"month" example:"3"`
	To    string `json:"to" binding:"omitempty,email" example:"accounts@example.com"` // defaults to email.accountant
}

// EmailInvoices emails the invoice export of a month
// @Summary Email invoices export
// @Description Sends the MYOB invoice export of the month as an attachment, to the accountant unless another recipient is given
// @Tags export
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body EmailInvoicesRequest true "period and recipient"
// @Success 200 {object} Response "sent"
// @Failure 400 {object} Response "invalid request"
// @Failure 503 {object} Response "email disabled"
// @Router /api/v1/export/invoices/email [post]
func (h *ExportHandler) EmailInvoices(c *gin.Context) {
	var req EmailInvoicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	year, month := service.ResolvePeriod(req.Year, req.Month, h.now())

	invoices, err := service.NewInvoiceService(database.DB).ListMonth(c.Request.Context(), year, month)
	if err != nil {
		respondError(c, err, "could not load invoices")
		return
	}

	data, rows := export.Invoices(invoices)
	filename := export.InvoicesFilename(year, month)
	period := fmt.Sprintf("%04d-%02d", year, int(month))

	file := service.Attachment{Filename: filename, Content: data}
	if err := h.email.SendInvoiceExport(req.To, period, file, rows); err != nil {
		respondError(c, err, "could not send email")
		return
	}
	metrics.ExportsGenerated.WithLabelValues("invoices_email").Inc()
	zap.L().Info("invoice export emailed",
		zap.String("period", period),
		zap.String("to", h.email.Recipient(req.To)),
		zap.Int("rows", rows),
	)

	SuccessWithMessage(c, "sent", gin.H{"filename": filename, "rows": rows})
}
