package handlers

import (
	"github.com/gin-gonic/gin"

	"invoicedesk/internal/domain/documents"
)

// TypedDocumentHandler provides generic HTTP handlers for one typed document
// collection.
type TypedDocumentHandler[T documents.Document, CreateDTO any] struct {
	*BaseHandler
	service *documents.TypedService[T]

	mapCreateDTO func(dto CreateDTO) T
	mapToDTO     func(doc T) any
}

// TypedDocumentHandlerConfig configures the handler. MapToDTO defaults to
// returning the document itself.
type TypedDocumentHandlerConfig[T documents.Document, CreateDTO any] struct {
	Service      *documents.TypedService[T]
	MapCreateDTO func(dto CreateDTO) T
	MapToDTO     func(doc T) any
}

// NewTypedDocumentHandler creates a new typed document handler.
func NewTypedDocumentHandler[T documents.Document, CreateDTO any](
	base *BaseHandler,
	cfg TypedDocumentHandlerConfig[T, CreateDTO],
) *TypedDocumentHandler[T, CreateDTO] {
	mapToDTO := cfg.MapToDTO
	if mapToDTO == nil {
		mapToDTO = func(doc T) any { return doc }
	}
	return &TypedDocumentHandler[T, CreateDTO]{
		BaseHandler:  base,
		service:      cfg.Service,
		mapCreateDTO: cfg.MapCreateDTO,
		mapToDTO:     mapToDTO,
	}
}

// List handles GET /{collection}
func (h *TypedDocumentHandler[T, CreateDTO]) List(c *gin.Context) {
	docs, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(docs))
	for i, doc := range docs {
		items[i] = h.mapToDTO(doc)
	}
	h.OK(c, items)
}

// Create handles POST /{collection}
func (h *TypedDocumentHandler[T, CreateDTO]) Create(c *gin.Context) {
	var req CreateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	doc := h.mapCreateDTO(req)
	if err := h.service.Save(c.Request.Context(), doc); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, h.mapToDTO(doc))
}
