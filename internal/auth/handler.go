package auth

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type loginRequest struct {
	Password string `json:"password"`
}

// Login は POST /api/auth/login のハンドラーです。
func (m *Manager) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":  "INVALID_INPUT",
			"error": "password を JSON で送ってください",
		})
		return
	}

	ip := c.ClientIP()
	if retryAfter := m.lockedFor(ip); retryAfter > 0 {
		// Retry-After は秒数またはHTTP-Date形式が推奨されているため秒数で返す
		c.Header("Retry-After", strconv.FormatInt(int64(retryAfter.Seconds()), 10))
		c.JSON(http.StatusTooManyRequests, gin.H{
			"code":  "TOO_MANY_ATTEMPTS",
			"error": "一定時間後に再度お試しください",
		})
		return
	}

	err := m.gate.Login(c, req.Password)
	switch {
	case err == nil:
		m.forgetFailures(ip)
		c.JSON(http.StatusOK, gin.H{"success": true})
	case errors.Is(err, ErrPasswordRequired):
		c.JSON(http.StatusBadRequest, gin.H{
			"code":  "PASSWORD_REQUIRED",
			"error": "パスワードを入力してください",
		})
	case errors.Is(err, ErrInvalidPassword):
		remaining, locked := m.registerFailure(ip)
		zerolog.Ctx(c.Request.Context()).Info().Str("client_ip", ip).Int("remaining", remaining).Msg("password comparison failed")
		if locked {
			zerolog.Ctx(c.Request.Context()).Warn().Str("client_ip", ip).Dur("lock_for", m.policy.LockFor).Msg("client locked out after repeated failures")
		}
		c.JSON(http.StatusUnauthorized, gin.H{
			"code":              "INVALID_PASSWORD",
			"error":             "パスワードが正しくありません",
			"remainingAttempts": remaining,
		})
	case errors.Is(err, ErrMisconfigured):
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("authentication is misconfigured")
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":  "SERVER_MISCONFIGURATION",
			"error": "サーバーの設定に誤りがあります",
		})
	default:
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("login failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":  "INTERNAL_ERROR",
			"error": "ログイン処理に失敗しました",
		})
	}
}

// Logout は POST /api/auth/logout のハンドラーです。常に成功を返します。
func (m *Manager) Logout(c *gin.Context) {
	if err := m.gate.Logout(c); err != nil {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("failed to delete session")
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Verify は GET /api/auth/verify のハンドラーです。
func (m *Manager) Verify(c *gin.Context) {
	if !m.gate.Authenticated(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": true})
}
