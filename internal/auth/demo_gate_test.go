package auth

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// unsavableSession は保存に失敗するクライアント側セッションです。
type unsavableSession struct {
	sessions.Session
	values map[any]any
}

func (s *unsavableSession) Get(key any) any  { return s.values[key] }
func (s *unsavableSession) Set(key, val any) { s.values[key] = val }
func (s *unsavableSession) Delete(key any)   { delete(s.values, key) }
func (s *unsavableSession) Save() error      { return errors.New("cookie too large") }

func TestDemoGateLogsFailedCleanup(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request = req.WithContext(zerolog.New(&buf).WithContext(req.Context()))

	expired := time.Now().Add(-time.Hour).UnixMilli()
	c.Set(sessions.DefaultKey, &unsavableSession{values: map[any]any{
		StorageKeyAuthenticated: "true",
		StorageKeyExpiry:        strconv.FormatInt(expired, 10),
	}})

	gate := NewDemoGate("hlab1234", time.Hour)
	require.False(t, gate.Authenticated(c))
	require.Contains(t, buf.String(), "failed to clear expired demo login")
	require.Contains(t, buf.String(), "cookie too large")
}
