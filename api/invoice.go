package api

import (
	"time"

	"invoicing/config"
	"invoicing/database"
	"invoicing/models"
	"invoicing/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// InvoiceHandler invoice and invoice line endpoints
type InvoiceHandler struct {
	cfg *config.Config
	now func() time.Time
}

// NewInvoiceHandler creates the invoice handler
func NewInvoiceHandler(cfg *config.Config) *InvoiceHandler {
	return &InvoiceHandler{cfg: cfg, now: time.Now}
}

func (h *InvoiceHandler) invoices() *service.InvoiceService {
	return service.NewInvoiceService(database.DB)
}

func (h *InvoiceHandler) allocator() *service.Allocator {
	return service.NewAllocator(database.DB, h.cfg.Database.TxMaxRetries)
}

// period selected year and month from the query, defaulting to the current month
func (h *InvoiceHandler) period(c *gin.Context) (int, time.Month) {
	return service.ResolvePeriod(queryInt(c, "year"), queryInt(c, "month"), h.now())
}

// InvoiceListResponse invoices of one month
type InvoiceListResponse struct {
	Year     int              `json:"year"`
	Month    int              `json:"month"`
	Years    []int            `json:"years"`
	Invoices []models.Invoice `json:"invoices"`
}

// CreateInvoiceRequest create invoice body
type CreateInvoiceRequest struct {
	ClientID    uint   `json:"client_id" binding:"required" example:"1"`
	InvoiceDate string `json:"invoice_date" example:"2024-03-05"` // yyyy-MM-dd, defaults to today
	PONumber    string `json:"po_number" binding:"max=255"`
	Contact     string `json:"contact" binding:"max=255"`
	Notes       string `json:"notes"`
}

// UpdateInvoiceRequest update invoice body
type UpdateInvoiceRequest struct {
	ClientID      uint   `json:"client_id" binding:"required" example:"1"`
	InvoiceNumber string `json:"invoice_number" binding:"required,max=255" example:"GSL0042"`
	InvoiceDate   string `json:"invoice_date" binding:"required" example:"2024-03-05"`
	PONumber      string `json:"po_number" binding:"max=255"`
	Contact       string `json:"contact" binding:"max=255"`
	Notes         string `json:"notes"`
	Version       uint   `json:"version" example:"1"`
}

// LineRequest invoice line body
type LineRequest struct {
	Description string          `json:"description" binding:"max=2000" example:"Website design"`
	Hours       decimal.Decimal `json:"hours" swaggertype:"string" example:"1.5"`
	Rate        decimal.Decimal `json:"rate" swaggertype:"string" example:"120.00"`
}

func (r LineRequest) input() service.LineInput {
	return service.LineInput{Description: r.Description, Hours: r.Hours, Rate: r.Rate}
}

// List lists the invoices of a month
// @Summary List invoices
// @Description Invoices dated in the selected month with their client and lines. Missing year or month means the current one.
// @Tags invoices
// @Produce json
// @Security BearerAuth
// @Param year query int false "year"
// @Param month query int false "month 1-12"
// @Success 200 {object} Response{data=InvoiceListResponse} "invoices"
// @Router /api/v1/invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	year, month := h.period(c)
	ctx := c.Request.Context()

	invoices, err := h.invoices().ListMonth(ctx, year, month)
	if err != nil {
		respondError(c, err, "could not load invoices")
		return
	}

	years, err := h.invoices().AvailableYears(ctx, year)
	if err != nil {
		respondError(c, err, "could not load invoices")
		return
	}

	Success(c, InvoiceListResponse{
		Year:     year,
		Month:    int(month),
		Years:    years,
		Invoices: invoices,
	})
}

// Create creates an invoice and assigns its number
// @Summary Create invoice
// @Tags invoices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateInvoiceRequest true "invoice"
// @Success 200 {object} Response{data=models.Invoice} "created"
// @Failure 400 {object} Response "invalid request"
// @Failure 404 {object} Response "client not found"
// @Router /api/v1/invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	invoiceDate, err := parseDate(req.InvoiceDate)
	if err != nil {
		BadRequest(c, "invoice_date must be yyyy-MM-dd")
		return
	}

	today := models.DateOf(h.now())
	if time.Time(invoiceDate).IsZero() {
		invoiceDate = today
	}

	invoice := &models.Invoice{
		ClientID:    req.ClientID,
		InvoiceDate: invoiceDate,
		PONumber:    req.PONumber,
		Contact:     req.Contact,
		Notes:       req.Notes,
		DateCreated: today,
	}
	if err := h.allocator().CreateInvoice(c.Request.Context(), invoice); err != nil {
		respondError(c, err, "could not create invoice")
		return
	}

	SuccessWithMessage(c, "created", invoice)
}

// Get returns the invoice edit view
// @Summary Get invoice
// @Description Invoice with client and lines, the client's GST code and rate, and the default rate for a new line
// @Tags invoices
// @Produce json
// @Security BearerAuth
// @Param id path int true "invoice id"
// @Success 200 {object} Response{data=service.InvoiceDetail} "invoice"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	detail, err := h.invoices().Detail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "could not load invoice")
		return
	}
	Success(c, detail)
}

// Update edits the invoice header
// @Summary Update invoice
// @Description A stale version answers 409
// @Tags invoices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "invoice id"
// @Param request body UpdateInvoiceRequest true "invoice"
// @Success 200 {object} Response{data=models.Invoice} "updated"
// @Failure 400 {object} Response "invalid request"
// @Failure 404 {object} Response "not found"
// @Failure 409 {object} Response "changed by someone else"
// @Router /api/v1/invoices/{id} [put]
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	invoiceDate, err := parseDate(req.InvoiceDate)
	if err != nil {
		BadRequest(c, "invoice_date must be yyyy-MM-dd")
		return
	}

	invoice, err := h.invoices().Update(c.Request.Context(), id, service.InvoiceUpdate{
		ClientID:      req.ClientID,
		InvoiceNumber: req.InvoiceNumber,
		InvoiceDate:   invoiceDate,
		PONumber:      req.PONumber,
		Contact:       req.Contact,
		Notes:         req.Notes,
		Version:       req.Version,
	})
	if err != nil {
		respondError(c, err, "could not update invoice")
		return
	}

	SuccessWithMessage(c, "updated", invoice)
}

// Delete removes an invoice and its lines
// @Summary Delete invoice
// @Tags invoices
// @Produce json
// @Security BearerAuth
// @Param id path int true "invoice id"
// @Success 200 {object} Response "deleted"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.invoices().Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "could not delete invoice")
		return
	}

	SuccessWithMessage(c, "deleted", nil)
}

// AddItem adds a line to an invoice
// @Summary Add invoice line
// @Description Amount, GST and total are computed from hours, rate and the client's GST code
// @Tags invoices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "invoice id"
// @Param request body LineRequest true "line"
// @Success 200 {object} Response{data=models.InvoiceItem} "added"
// @Failure 400 {object} Response "invalid request"
// @Failure 404 {object} Response "invoice not found"
// @Router /api/v1/invoices/{id}/items [post]
func (h *InvoiceHandler) AddItem(c *gin.Context) {
	invoiceID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req LineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	item, err := h.invoices().AddItem(c.Request.Context(), invoiceID, req.input())
	if err != nil {
		respondError(c, err, "could not add line")
		return
	}

	SuccessWithMessage(c, "added", item)
}

// UpdateItem edits an invoice line
// @Summary Update invoice line
// @Tags invoices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "invoice id"
// @Param itemId path int true "line id"
// @Param request body LineRequest true "line"
// @Success 200 {object} Response{data=models.InvoiceItem} "updated"
// @Failure 400 {object} Response "invalid request"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/invoices/{id}/items/{itemId} [put]
func (h *InvoiceHandler) UpdateItem(c *gin.Context) {
	invoiceID, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}

	var req LineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	item, err := h.invoices().UpdateItem(c.Request.Context(), invoiceID, itemID, req.input())
	if err != nil {
		respondError(c, err, "could not update line")
		return
	}

	SuccessWithMessage(c, "updated", item)
}

// DeleteItem removes an invoice line
// @Summary Delete invoice line
// @Tags invoices
// @Produce json
// @Security BearerAuth
// @Param id path int true "invoice id"
// @Param itemId path int true "line id"
// @Success 200 {object} Response "deleted"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/invoices/{id}/items/{itemId} [delete]
func (h *InvoiceHandler) DeleteItem(c *gin.Context) {
	invoiceID, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}

	if err := h.invoices().DeleteItem(c.Request.Context(), invoiceID, itemID); err != nil {
		respondError(c, err, "could not delete line")
		return
	}

	SuccessWithMessage(c, "deleted", nil)
}
