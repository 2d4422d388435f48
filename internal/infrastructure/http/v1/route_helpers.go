package v1

import (
	"github.com/gin-gonic/gin"
)

// CollectionRouteHandler defines the interface for document collection
// handlers. Collections are append-only, so only list and create exist.
type CollectionRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
}

// RegisterCollectionRoutes registers the list/create pair for a collection.
//
// Usage:
//
//	handler := handlers.NewTypedDocumentHandler(baseHandler, handlers.TypedDocumentHandlerConfig[...]{...})
//	RegisterCollectionRoutes(protected.Group("/invoices"), handler)
func RegisterCollectionRoutes(group *gin.RouterGroup, handler CollectionRouteHandler) {
	group.GET("", handler.List)
	group.POST("", handler.Create)
}
