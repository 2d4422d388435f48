package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invoicedesk/internal/core/apperror"
	"invoicedesk/internal/domain/navigation"
	"invoicedesk/internal/infrastructure/http/v1/dto"
)

// PagesHandler runs the navigation guard for page routes. Allowed
// transitions answer with the page descriptor; denied ones redirect.
type PagesHandler struct {
	*BaseHandler
	navigator *navigation.Navigator
}

// NewPagesHandler creates a new pages handler.
func NewPagesHandler(base *BaseHandler, navigator *navigation.Navigator) *PagesHandler {
	return &PagesHandler{BaseHandler: base, navigator: navigator}
}

// Page returns the handler for one route of the table.
func (h *PagesHandler) Page(route navigation.Route) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision, err := h.navigator.Enter(c.Request.Context(), route)
		if err != nil {
			h.Error(c, err)
			return
		}
		if !decision.Allowed() {
			c.Redirect(http.StatusFound, decision.Target)
			return
		}
		h.OK(c, dto.PageResponse{Page: route.Component, Path: route.Path})
	}
}

// NotFound answers paths outside the route table.
func (h *PagesHandler) NotFound(c *gin.Context) {
	h.Error(c, apperror.NewRouteNotFound(c.Request.URL.Path))
}

// RegisterRoutes registers a GET handler for every route in the table.
func (h *PagesHandler) RegisterRoutes(r gin.IRoutes) {
	for _, route := range h.navigator.Table().Routes() {
		r.GET(route.Path, h.Page(route))
	}
}
