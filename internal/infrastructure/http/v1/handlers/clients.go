package handlers

import (
	"github.com/gin-gonic/gin"

	"invoicedesk/internal/domain/directory"
	"invoicedesk/internal/infrastructure/http/v1/dto"
)

// ClientsHandler serves the remote client directory.
type ClientsHandler struct {
	*BaseHandler
	service *directory.Service
}

// NewClientsHandler creates a new clients handler.
func NewClientsHandler(base *BaseHandler, service *directory.Service) *ClientsHandler {
	return &ClientsHandler{BaseHandler: base, service: service}
}

// List handles GET /api/clients
func (h *ClientsHandler) List(c *gin.Context) {
	clients, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, clients)
}

// Create handles POST /api/clients
func (h *ClientsHandler) Create(c *gin.Context) {
	var req dto.CreateClientRequest
	if !h.BindJSON(c, &req) {
		return
	}

	client, err := h.service.Create(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, client)
}
