package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"invoicedesk/internal/core/apperror"
)

// AuthChecker reports whether the authentication flag is currently set.
type AuthChecker interface {
	IsAuthenticated(ctx context.Context) (bool, error)
}

// RequireAuthenticated rejects the request with 401 unless the flag is set.
// The flag is read on every request.
func RequireAuthenticated(checker AuthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := checker.IsAuthenticated(c.Request.Context())
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		if !ok {
			_ = c.Error(apperror.NewUnauthorized("authentication required"))
			c.Abort()
			return
		}
		c.Next()
	}
}
