package logger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestGinRequestsAssignsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer

	router := gin.New()
	router.Use(GinRequests(zerolog.New(&buf)))
	router.GET("/ping", func(c *gin.Context) {
		zerolog.Ctx(c.Request.Context()).Info().Msg("inside handler")
		c.Status(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.Equal(t, http.StatusNoContent, rec.Code)
	requestID := rec.Header().Get(RequestIDHeader)
	require.NotEmpty(t, requestID)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[1], &entry))
	require.Equal(t, requestID, entry["request_id"])
	require.Equal(t, "/ping", entry["path"])
	require.EqualValues(t, http.StatusNoContent, entry["status"])

	var inner map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &inner))
	require.Equal(t, requestID, inner["request_id"])
}

func TestGinRequestsKeepsIncomingRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer

	router := gin.New()
	router.Use(GinRequests(zerolog.New(&buf)))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
	require.Contains(t, buf.String(), `"request_id":"req-123"`)
}
