package middleware_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pod-design-backend/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	router := gin.New()
	router.Use(middleware.RequestID())
	var seen string
	router.GET("/x", func(c *gin.Context) {
		seen = middleware.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	rid := w.Header().Get(middleware.RequestIDHeader)
	assert.Len(t, rid, 36)
	assert.Equal(t, rid, seen)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(middleware.RequestIDHeader, "caller-id")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "caller-id", w.Header().Get(middleware.RequestIDHeader))
}

func TestLogger_WritesStructuredLine(t *testing.T) {
	var buf bytes.Buffer
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logger(zerolog.New(&buf)))
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusBadGateway) })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(middleware.RequestIDHeader, "rid-1")
	router.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "rid-1", line["request_id"])
	assert.Equal(t, "/boom", line["path"])
	assert.EqualValues(t, http.StatusBadGateway, line["status"])
}
