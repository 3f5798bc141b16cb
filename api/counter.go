package api

import (
	"invoicing/config"
	"invoicing/database"
	"invoicing/service"

	"github.com/gin-gonic/gin"
)

// ConfigHandler counter settings endpoints
type ConfigHandler struct {
	cfg   *config.Config
	email *service.EmailService
}

// NewConfigHandler creates the config handler
func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{cfg: cfg, email: service.NewEmailService(&cfg.Email)}
}

func (h *ConfigHandler) allocator() *service.Allocator {
	return service.NewAllocator(database.DB, h.cfg.Database.TxMaxRetries)
}

// UpdateConfigRequest counter update body
type UpdateConfigRequest struct {
	LastInvoiceNumber string `json:"last_invoice_number" binding:"required,max=255" example:"GSL0041"`
}

// Get returns the counter record
// @Summary Get numbering settings
// @Description Last issued invoice number and card id; the record is created with defaults when missing
// @Tags config
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.Counter} "counter"
// @Router /api/v1/config [get]
func (h *ConfigHandler) Get(c *gin.Context) {
	counter, err := h.allocator().Counter(c.Request.Context())
	if err != nil {
		respondError(c, err, "could not load settings")
		return
	}
	Success(c, counter)
}

// Update sets the last issued invoice number
// @Summary Update numbering settings
// @Description The next invoice continues from the given number
// @Tags config
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateConfigRequest true "settings"
// @Success 200 {object} Response{data=models.Counter} "updated"
// @Failure 400 {object} Response "invalid request"
// @Router /api/v1/config [put]
func (h *ConfigHandler) Update(c *gin.Context) {
	var req UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	counter, err := h.allocator().SetLastInvoiceNumber(c.Request.Context(), req.LastInvoiceNumber)
	if err != nil {
		respondError(c, err, "could not update settings")
		return
	}
	SuccessWithMessage(c, "updated", counter)
}

// TestEmailRequest test email body
type TestEmailRequest struct {
	To string `json:"to" binding:"omitempty,email" example:"accounts@example.com"` // defaults to email.accountant
}

// TestEmail sends a test message with the configured SMTP settings
// @Summary Send test email
// @Tags config
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TestEmailRequest true "recipient"
// @Success 200 {object} Response "sent"
// @Failure 400 {object} Response "invalid request"
// @Failure 503 {object} Response "email disabled"
// @Router /api/v1/config/email/test [post]
func (h *ConfigHandler) TestEmail(c *gin.Context) {
	var req TestEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	if err := h.email.SendTestEmail(req.To); err != nil {
		respondError(c, err, "could not send test email")
		return
	}
	SuccessWithMessage(c, "sent", nil)
}
