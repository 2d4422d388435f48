package handlers

import (
	"github.com/gin-gonic/gin"

	"invoicedesk/internal/domain/auth"
	"invoicedesk/internal/infrastructure/http/v1/dto"
)

// AuthHandler maintains the authentication flag.
type AuthHandler struct {
	*BaseHandler
	service *auth.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, service *auth.Service) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.Login(c.Request.Context(), req.ToCredentials()); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.AuthStatusResponse{Authenticated: true})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context()); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.AuthStatusResponse{Authenticated: false})
}

// Status handles GET /api/auth/status
func (h *AuthHandler) Status(c *gin.Context) {
	ok, err := h.service.IsAuthenticated(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.AuthStatusResponse{Authenticated: ok})
}

// RegisterRoutes registers auth endpoints.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/login", h.Login)
	rg.POST("/logout", h.Logout)
	rg.GET("/status", h.Status)
}
