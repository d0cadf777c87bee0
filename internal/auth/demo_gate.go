package auth

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// DemoSessionName は DemoGate がクライアント側の状態を保存するクッキー名です。
const DemoSessionName = "hobot_local"

// DemoGate は静的エクスポート版と同じ挙動をサーバー上で再現するデモ用の実装です。
//
// パスワードは平文の定数と比較し、ログイン状態は署名付きクッキーとしてクライアント側に置きます。
// サーバー側には何も保存しないため、本当のアクセス制御にはなりません。
type DemoGate struct {
	password string
	ttl      time.Duration
	now      func() time.Time
}

var _ Gate = (*DemoGate)(nil)

// NewDemoGate は DemoGate を作成します。
// ルーターには sessions.Sessions(DemoSessionName, store) を登録しておく必要があります。
func NewDemoGate(password string, ttl time.Duration) *DemoGate {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &DemoGate{
		password: password,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Login は Gate の実装です。
func (g *DemoGate) Login(c *gin.Context, password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	if g.password == "" {
		return fmt.Errorf("%w: DEMO_PASSWORD is not set", ErrMisconfigured)
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(g.password)) != 1 {
		return ErrInvalidPassword
	}

	storage := newCookieStorage(c)
	if _, err := NewGuard(storage, g.ttl).Grant(g.now()); err != nil {
		return err
	}
	return storage.flush()
}

// Authenticated は Gate の実装です。
func (g *DemoGate) Authenticated(c *gin.Context) bool {
	storage := newCookieStorage(c)
	ok := NewGuard(storage, g.ttl).Check(g.now())
	// 期限切れで消した場合のみクッキーを書き戻す
	if err := storage.flush(); err != nil {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("failed to clear expired demo login")
	}
	return ok
}

// Logout は Gate の実装です。
func (g *DemoGate) Logout(c *gin.Context) error {
	storage := newCookieStorage(c)
	if err := NewGuard(storage, g.ttl).Clear(); err != nil {
		return err
	}
	return storage.flush()
}

// cookieStorage は gin-contrib/sessions のクッキーストアを Storage として扱います。
type cookieStorage struct {
	session sessions.Session
	dirty   bool
}

func newCookieStorage(c *gin.Context) *cookieStorage {
	return &cookieStorage{session: sessions.Default(c)}
}

func (s *cookieStorage) GetItem(key string) (string, bool, error) {
	v := s.session.Get(key)
	if v == nil {
		return "", false, nil
	}
	str, ok := v.(string)
	if !ok {
		return "", false, fmt.Errorf("unexpected value type %T for %s", v, key)
	}
	return str, true, nil
}

func (s *cookieStorage) SetItem(key, value string) error {
	s.session.Set(key, value)
	s.dirty = true
	return nil
}

func (s *cookieStorage) RemoveItem(key string) error {
	s.session.Delete(key)
	s.dirty = true
	return nil
}

func (s *cookieStorage) flush() error {
	if !s.dirty {
		return nil
	}
	if err := s.session.Save(); err != nil {
		return fmt.Errorf("failed to save client state: %w", err)
	}
	s.dirty = false
	return nil
}
