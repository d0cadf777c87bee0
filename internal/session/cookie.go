package session

import (
	"net/http"
	"time"
)

// CookieName はセッショントークンを保持するクッキー名です。
// 変更すると既存のセッションがすべて無効になります。
const CookieName = "session"

// CookieOptions はセッションクッキーの属性です。
type CookieOptions struct {
	Secure bool
	MaxAge time.Duration
}

// SetCookie はセッションクッキーを発行します。
func SetCookie(w http.ResponseWriter, token string, opts CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(opts.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearCookie は即時に失効する空のクッキーで上書きします。
func ClearCookie(w http.ResponseWriter, opts CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// TokenFromRequest はリクエストのクッキーからトークンを取り出します。
func TokenFromRequest(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
