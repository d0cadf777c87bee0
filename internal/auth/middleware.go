package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireLogin は API 向けにログイン状態を検証するミドルウェアを返します。
func (m *Manager) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.gate.Authenticated(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":  "UNAUTHORIZED",
				"error": "ログインが必要です",
			})
			return
		}
		c.Next()
	}
}

// RequirePage はページ向けのミドルウェアです。未ログインなら loginPath へリダイレクトします。
func (m *Manager) RequirePage(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.gate.Authenticated(c) {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RedirectIfAuthenticated はログイン済みなら target へリダイレクトします（ログイン画面用）。
func (m *Manager) RedirectIfAuthenticated(target string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.gate.Authenticated(c) {
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		c.Next()
	}
}
