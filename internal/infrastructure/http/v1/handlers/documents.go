package handlers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"invoicedesk/internal/core/apperror"
	"invoicedesk/internal/domain/documents"
)

// DocumentsHandler exposes the untyped document collections. Records are
// stored exactly as posted.
type DocumentsHandler struct {
	*BaseHandler
	service *documents.Service
}

// NewDocumentsHandler creates a new documents handler.
func NewDocumentsHandler(base *BaseHandler, service *documents.Service) *DocumentsHandler {
	return &DocumentsHandler{BaseHandler: base, service: service}
}

// List handles GET /api/documents/:type
func (h *DocumentsHandler) List(c *gin.Context) {
	docType, err := documents.ParseType(c.Param("type"))
	if err != nil {
		h.Error(c, err)
		return
	}

	items, err := h.service.GetItems(c.Request.Context(), docType)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, items)
}

// Create handles POST /api/documents/:type
func (h *DocumentsHandler) Create(c *gin.Context) {
	docType, err := documents.ParseType(c.Param("type"))
	if err != nil {
		h.Error(c, err)
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		h.Error(c, apperror.NewValidation("cannot read request body").WithCause(err))
		return
	}
	if !json.Valid(body) {
		h.Error(c, apperror.NewValidation("request body is not valid JSON"))
		return
	}

	record := json.RawMessage(body)
	if err := h.service.SaveItem(c.Request.Context(), docType, record); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, record)
}
