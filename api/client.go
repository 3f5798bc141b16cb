package api

import (
	"invoicing/config"
	"invoicing/database"
	"invoicing/models"
	"invoicing/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ClientHandler client endpoints
type ClientHandler struct {
	cfg *config.Config
}

// NewClientHandler creates the client handler
func NewClientHandler(cfg *config.Config) *ClientHandler {
	return &ClientHandler{cfg: cfg}
}

func (h *ClientHandler) clients() *service.ClientService {
	return service.NewClientService(database.DB)
}

func (h *ClientHandler) allocator() *service.Allocator {
	return service.NewAllocator(database.DB, h.cfg.Database.TxMaxRetries)
}

// ClientRequest client create and update body.
// card_id and version are only read on update.
type ClientRequest struct {
	CardID      *string         `json:"card_id" binding:"omitempty,max=50" example:"42"`
	Name        string          `json:"name" binding:"required,max=255" example:"Acme Ltd"`
	Contact     string          `json:"contact" binding:"max=255" example:"Jo Bloggs"`
	Email       string          `json:"email" binding:"omitempty,email,max=255" example:"jo@acme.co.nz"`
	GSTCode     string          `json:"gst_code" binding:"max=50" example:"S"`
	Rate        decimal.Decimal `json:"rate" swaggertype:"string" example:"120.00"`
	Street      string          `json:"street" binding:"max=255"`
	Suburb      string          `json:"suburb" binding:"max=255"`
	City        string          `json:"city" binding:"max=255"`
	Postcode    string          `json:"postcode" binding:"max=50"`
	Country     string          `json:"country" binding:"max=255"`
	DateCreated string          `json:"date_created" example:"2024-03-05"` // yyyy-MM-dd, defaults to today
	Version     uint            `json:"version" example:"1"`
}

// List lists clients ordered by name
// @Summary List clients
// @Tags clients
// @Produce json
// @Security BearerAuth
// @Param q query string false "name contains"
// @Success 200 {object} Response{data=[]models.Client} "clients"
// @Router /api/v1/clients [get]
func (h *ClientHandler) List(c *gin.Context) {
	clients, err := h.clients().List(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err, "could not load clients")
		return
	}
	Success(c, clients)
}

// Get returns one client
// @Summary Get client
// @Tags clients
// @Produce json
// @Security BearerAuth
// @Param id path int true "client id"
// @Success 200 {object} Response{data=models.Client} "client"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/clients/{id} [get]
func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	client, err := h.clients().Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "could not load client")
		return
	}
	Success(c, client)
}

// Create creates a client and assigns its card id
// @Summary Create client
// @Description The card id is taken from the counter; card_id and version in the body are ignored
// @Tags clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ClientRequest true "client"
// @Success 200 {object} Response{data=models.Client} "created"
// @Failure 400 {object} Response "invalid request"
// @Router /api/v1/clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	dateCreated, err := parseDate(req.DateCreated)
	if err != nil {
		BadRequest(c, "date_created must be yyyy-MM-dd")
		return
	}

	client := &models.Client{
		Name:        req.Name,
		Contact:     req.Contact,
		Email:       req.Email,
		GSTCode:     req.GSTCode,
		Rate:        req.Rate,
		Street:      req.Street,
		Suburb:      req.Suburb,
		City:        req.City,
		Postcode:    req.Postcode,
		Country:     req.Country,
		DateCreated: dateCreated,
	}
	if err := h.allocator().CreateClient(c.Request.Context(), client); err != nil {
		respondError(c, err, "could not create client")
		return
	}

	SuccessWithMessage(c, "created", client)
}

// Update edits a client
// @Summary Update client
// @Description Omitting card_id keeps the assigned card id. A stale version answers 409.
// @Tags clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "client id"
// @Param request body ClientRequest true "client"
// @Success 200 {object} Response{data=models.Client} "updated"
// @Failure 400 {object} Response "invalid request"
// @Failure 404 {object} Response "not found"
// @Failure 409 {object} Response "changed by someone else"
// @Router /api/v1/clients/{id} [put]
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	dateCreated, err := parseDate(req.DateCreated)
	if err != nil {
		BadRequest(c, "date_created must be yyyy-MM-dd")
		return
	}

	client, err := h.clients().Update(c.Request.Context(), id, service.ClientUpdate{
		CardID:      req.CardID,
		Name:        req.Name,
		Contact:     req.Contact,
		Email:       req.Email,
		GSTCode:     req.GSTCode,
		Rate:        req.Rate,
		Street:      req.Street,
		Suburb:      req.Suburb,
		City:        req.City,
		Postcode:    req.Postcode,
		Country:     req.Country,
		DateCreated: dateCreated,
		Version:     req.Version,
	})
	if err != nil {
		respondError(c, err, "could not update client")
		return
	}

	SuccessWithMessage(c, "updated", client)
}

// Delete removes a client without invoices
// @Summary Delete client
// @Tags clients
// @Produce json
// @Security BearerAuth
// @Param id path int true "client id"
// @Success 200 {object} Response "deleted"
// @Failure 404 {object} Response "not found"
// @Failure 409 {object} Response "client has invoices"
// @Router /api/v1/clients/{id} [delete]
func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.clients().Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "could not delete client")
		return
	}

	SuccessWithMessage(c, "deleted", nil)
}
