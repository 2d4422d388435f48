package middleware

import (
	"github.com/gin-gonic/gin"

	appctx "invoicedesk/internal/core/context"
	"invoicedesk/internal/core/id"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderTraceID   = "X-Trace-ID"
)

// Trace middleware extracts or generates request and trace ids and marks the
// request context as HTTP-originated.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = id.NewRequestID()
		}

		traceID := c.GetHeader(HeaderTraceID)
		if traceID == "" {
			traceID = id.NewRequestID()
		}

		trace := &appctx.TraceContext{
			TraceID:   traceID,
			SpanID:    id.NewRequestID()[:16],
			RequestID: requestID,
		}

		ctx := appctx.WithTrace(c.Request.Context(), trace)
		ctx = appctx.WithOrigin(ctx, appctx.OriginHTTP)
		c.Request = c.Request.WithContext(ctx)

		c.Set("trace_id", traceID)
		c.Set("request_id", requestID)

		c.Header(HeaderRequestID, requestID)
		c.Header(HeaderTraceID, traceID)

		c.Next()
	}
}
