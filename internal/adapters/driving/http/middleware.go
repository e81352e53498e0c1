package http

import (
	"context"
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/sercha-audio/internal/logger"
	"github.com/custodia-labs/sercha-audio/internal/metrics"
)

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// requestIDMiddleware reuses the caller's request ID or assigns a new one.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// loggerMiddleware logs each completed request.
func loggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("%s %s %d %s request_id=%s",
			c.Request.Method, path, c.Writer.Status(), time.Since(start), c.GetString(requestIDKey))
		if errs := c.Errors.String(); errs != "" {
			logger.Debug("request_id=%s errors: %s", c.GetString(requestIDKey), errs)
		}
	}
}

// metricsMiddleware records request counts and latency by route template.
func metricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// rateLimitMiddleware applies one token bucket to all requests.
func rateLimitMiddleware(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			abortWithMessage(c, nethttp.StatusTooManyRequests, "Rate limit exceeded")
			return
		}
		c.Next()
	}
}

// bodyLimitMiddleware caps the request body at n bytes.
func bodyLimitMiddleware(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = nethttp.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}

// timeoutMiddleware bounds the request context.
func timeoutMiddleware(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
