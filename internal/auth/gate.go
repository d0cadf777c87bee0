// Package auth は共有パスワードによるログインとアクセス制御を提供します。
package auth

import (
	"errors"

	"github.com/gin-gonic/gin"
)

var (
	// ErrPasswordRequired はパスワードが空のときに返ります。
	ErrPasswordRequired = errors.New("password required")
	// ErrInvalidPassword はパスワードが一致しないときに返ります。
	ErrInvalidPassword = errors.New("invalid password")
	// ErrMisconfigured はサーバー側の認証情報が設定されていないか壊れているときに返ります。
	ErrMisconfigured = errors.New("server configuration error")
)

// Gate はログイン状態を管理する実装の共通インターフェースです。
//
// サーバー側セッションを使う SessionGate と、状態をクライアント側に置く
// デモ用の DemoGate があり、設定の AUTH_MODE で切り替えます。
type Gate interface {
	// Login はパスワードを検証し、成功したらログイン状態をレスポンスに書き込みます。
	Login(c *gin.Context, password string) error
	// Authenticated はリクエストがログイン済みかどうかを返します。副作用はありません。
	Authenticated(c *gin.Context) bool
	// Logout はログイン状態を破棄します。
	Logout(c *gin.Context) error
}
