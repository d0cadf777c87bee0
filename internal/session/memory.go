package session

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
)

// MemoryStore はプロセス内にセッションを保持します。
// 再起動するとすべてのセッションが失われ、再ログインが必要になります。
type MemoryStore struct {
	cache *cache.Cache
	now   func() time.Time
}

// NewMemoryStore は MemoryStore を作成します。
// sweepInterval ごとに go-cache の janitor が期限切れのセッションを削除します。
func NewMemoryStore(sweepInterval time.Duration, logger zerolog.Logger) *MemoryStore {
	c := cache.New(cache.NoExpiration, sweepInterval)
	c.OnEvicted(func(token string, _ interface{}) {
		logger.Debug().Str("token", redact(token)).Msg("session evicted")
	})
	return &MemoryStore{
		cache: c,
		now:   time.Now,
	}
}

// Set はセッションを保存します。既存のトークンは上書きされます。
func (m *MemoryStore) Set(ctx context.Context, s Session) error {
	ttl := s.ExpiresAt.Sub(m.now())
	if ttl <= 0 {
		// go-cache は 0 以下を「期限なし」と解釈するため、即時に期限切れとなる値で保存する
		ttl = time.Nanosecond
	}
	m.cache.Set(s.Token, s, ttl)
	return nil
}

// Get はセッションを取得します。
func (m *MemoryStore) Get(ctx context.Context, token string) (*Session, error) {
	v, ok := m.cache.Get(token)
	if !ok {
		return nil, nil
	}
	s := v.(Session)
	return &s, nil
}

// Delete はセッションを削除します。存在しない場合は何もしません。
func (m *MemoryStore) Delete(ctx context.Context, token string) error {
	m.cache.Delete(token)
	return nil
}

// Sweep は期限切れのセッションをすべて削除します。
func (m *MemoryStore) Sweep(ctx context.Context) error {
	m.cache.DeleteExpired()
	return nil
}

// Len は保持しているレコード数を返します（未掃除の期限切れを含む）。
func (m *MemoryStore) Len() int {
	return m.cache.ItemCount()
}

func redact(token string) string {
	if len(token) <= 8 {
		return "***"
	}
	return token[:8] + "..."
}
