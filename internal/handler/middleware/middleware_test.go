//go:build unit

package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rsvp-service/internal/handler/httperr"
	"rsvp-service/internal/handler/middleware"
	"rsvp-service/internal/pkg/config"
	"rsvp-service/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func perform(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	engine.ServeHTTP(w, req)
	return w
}

func TestLoggingMiddlewareUsesProvidedLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	engine := gin.New()
	engine.Use(middleware.LoggingMiddleware(logger, config.LogConfig{Level: "info", TimeFormat: time.RFC3339}))
	engine.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := perform(engine, http.MethodGet, "/ping")

	require.Equal(t, http.StatusNoContent, w.Code)
	logged := buf.String()
	assert.Contains(t, logged, "Request started")
	assert.Contains(t, logged, "Request completed")
	assert.Contains(t, logged, `"path":"/ping"`)
	assert.Contains(t, logged, "request_id")
}

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Normal case: public error meta is written when the handler did not respond", func(t *testing.T) {
		engine := gin.New()
		engine.Use(middleware.ErrorHandler())
		engine.GET("/conflict", func(c *gin.Context) {
			resp := httperr.Response{Status: http.StatusConflict}
			resp.Error.Message = "Time span overlaps an existing reservation"
			c.Error(errs.New("overlap")).SetType(gin.ErrorTypePublic).SetMeta(resp)
		})

		w := perform(engine, http.MethodGet, "/conflict")

		require.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "Time span overlaps an existing reservation")
	})

	t.Run("Normal case: server errors are logged with request id and cause", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))
		previous := slog.Default()
		slog.SetDefault(logger)
		defer slog.SetDefault(previous)

		engine := gin.New()
		engine.Use(middleware.LoggingMiddleware(logger, config.LogConfig{Level: "info", TimeFormat: time.RFC3339}))
		engine.Use(middleware.ErrorHandler())
		engine.GET("/boom", func(c *gin.Context) {
			httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("connection reset"), "Internal server error", nil)
		})

		w := perform(engine, http.MethodGet, "/boom")

		require.Equal(t, http.StatusInternalServerError, w.Code)
		logged := buf.String()
		assert.Contains(t, logged, "request failed")
		assert.Contains(t, logged, "connection reset")
		assert.Contains(t, logged, "request_id")
	})

	t.Run("Abnormal case: client errors stay out of the error log", func(t *testing.T) {
		var buf bytes.Buffer
		previous := slog.Default()
		slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
		defer slog.SetDefault(previous)

		engine := gin.New()
		engine.Use(middleware.ErrorHandler())
		engine.GET("/missing", func(c *gin.Context) {
			httperr.AbortWithError(c, http.StatusNotFound, errs.New("no rows"), "Reservation not found", nil)
		})

		w := perform(engine, http.MethodGet, "/missing")

		require.Equal(t, http.StatusNotFound, w.Code)
		assert.NotContains(t, buf.String(), "request failed")
	})
}
