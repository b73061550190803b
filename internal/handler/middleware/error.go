package middleware

import (
	"log/slog"
	"net/http"

	"rsvp-service/internal/handler/httperr"
	"rsvp-service/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		logServerErrors(c)

		if c.Writer.Written() {
			return
		}
		// Most recent public error wins.
		for i := len(c.Errors) - 1; i >= 0; i-- {
			err := c.Errors[i]

			if err.IsType(gin.ErrorTypePublic) {
				if resp, ok := err.Meta.(httperr.Response); ok {
					c.JSON(resp.Status, resp)
					return
				}
			}
		}
		if status := c.Writer.Status(); status != http.StatusOK {
			c.Status(status)
			c.Writer.WriteHeaderNow()
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Internal server error"}})
	}
}

// logServerErrors reports 5xx responses with the wrapped cause and its
// stack, keyed by request id; client errors stay out of the error log.
func logServerErrors(c *gin.Context) {
	for _, err := range c.Errors {
		resp, ok := err.Meta.(httperr.Response)
		if !ok || resp.Status < http.StatusInternalServerError {
			continue
		}
		slog.Error("request failed",
			"request_id", GetRequestID(c),
			"error", err.Err,
			"stack", errs.ExtractStackLines(err.Err, 8),
		)
	}
}

func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("recovered from panic", "error", err, "path", c.Request.URL.Path)

				resp := httperr.Response{Status: http.StatusInternalServerError}
				resp.Error.Message = "Internal server error"

				c.JSON(http.StatusInternalServerError, resp)
				c.Abort()
			}
		}()
		c.Next()
	}
}
