package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/hobot-roadmap/internal/session"
)

// SessionGateOptions は SessionGate の設定です。
type SessionGateOptions struct {
	PasswordHash string        // bcrypt ハッシュ
	TTL          time.Duration // セッションの有効期間
	FailureDelay time.Duration // 不一致時にレスポンスを遅らせる時間
	SecureCookie bool          // 本番では true
}

// SessionGate は bcrypt で共有パスワードを検証し、サーバー側にセッションを保存します。
type SessionGate struct {
	store session.Store
	opts  SessionGateOptions
	now   func() time.Time
}

var _ Gate = (*SessionGate)(nil)

// NewSessionGate は SessionGate を作成します。
func NewSessionGate(store session.Store, opts SessionGateOptions) *SessionGate {
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	return &SessionGate{
		store: store,
		opts:  opts,
		now:   time.Now,
	}
}

// Authenticate はパスワードを検証し、新しいセッションを発行して保存します。
func (g *SessionGate) Authenticate(ctx context.Context, password string) (*session.Session, error) {
	if password == "" {
		return nil, ErrPasswordRequired
	}
	if g.opts.PasswordHash == "" {
		return nil, fmt.Errorf("%w: PASSWORD_HASH is not set", ErrMisconfigured)
	}
	if _, err := bcrypt.Cost([]byte(g.opts.PasswordHash)); err != nil {
		return nil, fmt.Errorf("%w: invalid hash format: %v", ErrMisconfigured, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(g.opts.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			sleepContext(ctx, g.opts.FailureDelay)
			return nil, ErrInvalidPassword
		}
		return nil, fmt.Errorf("failed to compare password: %w", err)
	}

	token, err := session.NewToken()
	if err != nil {
		return nil, err
	}
	sess := session.Session{
		Token:     token,
		ExpiresAt: g.now().Add(g.opts.TTL),
	}
	if err := g.store.Set(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return &sess, nil
}

// Valid はトークンに対応する有効期限内のセッションが存在するかを返します。
func (g *SessionGate) Valid(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}
	sess, err := g.store.Get(ctx, token)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to load session")
		return false
	}
	return sess.Valid(g.now())
}

// Revoke はセッションを削除します。存在しない場合は何もしません。
func (g *SessionGate) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return g.store.Delete(ctx, token)
}

// Login は Gate の実装です。成功時にセッションクッキーを発行します。
func (g *SessionGate) Login(c *gin.Context, password string) error {
	sess, err := g.Authenticate(c.Request.Context(), password)
	if err != nil {
		return err
	}
	session.SetCookie(c.Writer, sess.Token, g.cookieOptions())
	return nil
}

// Authenticated は Gate の実装です。
func (g *SessionGate) Authenticated(c *gin.Context) bool {
	return g.Valid(c.Request.Context(), session.TokenFromRequest(c.Request))
}

// Logout は Gate の実装です。削除に失敗してもクッキーは必ず消します。
func (g *SessionGate) Logout(c *gin.Context) error {
	err := g.Revoke(c.Request.Context(), session.TokenFromRequest(c.Request))
	session.ClearCookie(c.Writer, g.cookieOptions())
	return err
}

func (g *SessionGate) cookieOptions() session.CookieOptions {
	return session.CookieOptions{
		Secure: g.opts.SecureCookie,
		MaxAge: g.opts.TTL,
	}
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
