package http

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	"github.com/asthalabs/shopperai/internal/httputil"
)

// CustomLoggerMiddleware logs HTTP requests with slog, tagged with the
// request ID assigned by the requestid middleware.
func CustomLoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("http request",
			slog.String("request_id", requestid.Get(c)),
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}

// RequestIDContextMiddleware copies the request ID into the request context
// so layers below HTTP (decision recording in particular) can stamp it on
// what they write without depending on gin.
//
// MUST be used after the requestid middleware.
func RequestIDContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := requestid.Get(c); id != "" {
			ctx := httputil.ContextWithRequestID(c.Request.Context(), id)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}
