package api

import (
	"fmt"
	"net/http"
	"time"

	"frizo/futures_grid/internal/common"
	"frizo/futures_grid/internal/logger"

	"github.com/gin-gonic/gin"
)

// RequestIDHeader is echoed back on every response
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// internalErrorMessage is the only 500 message clients see; the panic value is logged.
const internalErrorMessage = "An unexpected error occurred"

// RequestID reuses a well-formed X-Request-ID header or generates a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if !common.IsRequestID(id) {
			id = common.GenerateRequestID()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// Logger logs one line per request.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			"request_id", requestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

// ErrorHandler middleware turns panics into the JSON error envelope
func ErrorHandler(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Error("panic recovered",
			"request_id", requestID(c),
			"panic", fmt.Sprint(recovered),
		)

		respondError(c, http.StatusInternalServerError, ErrorDetail{Code: CodeInternal, Message: internalErrorMessage})
	})
}

func requestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
