package auth

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// LockoutPolicy はログイン失敗が続いたクライアントを締め出す条件です。
type LockoutPolicy struct {
	MaxAttempts int           // Window 内でこの回数失敗するとロック
	Window      time.Duration // 失敗回数を数える期間
	LockFor     time.Duration // ロックの長さ
}

// DefaultLockoutPolicy は 15 分間に 5 回失敗すると 10 分間ロックします。
func DefaultLockoutPolicy() LockoutPolicy {
	return LockoutPolicy{
		MaxAttempts: 5,
		Window:      15 * time.Minute,
		LockFor:     10 * time.Minute,
	}
}

func (p LockoutPolicy) withDefaults() LockoutPolicy {
	def := DefaultLockoutPolicy()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = def.MaxAttempts
	}
	if p.Window <= 0 {
		p.Window = def.Window
	}
	if p.LockFor <= 0 {
		p.LockFor = def.LockFor
	}
	return p
}

// failureRecord はクライアントIPごとのログイン失敗履歴です。
type failureRecord struct {
	failures    int
	windowStart time.Time
	lockedUntil time.Time
}

// Manager は Gate の前段でログイン試行を制限し、ハンドラーとミドルウェアを提供します。
type Manager struct {
	gate   Gate
	policy LockoutPolicy

	// 失敗履歴は Window + LockFor を過ぎると janitor が捨てる
	mu       sync.Mutex
	failures *cache.Cache
	now      func() time.Time
}

// NewManager は認証マネージャーを作成します。
func NewManager(gate Gate, policy LockoutPolicy) *Manager {
	policy = policy.withDefaults()
	return &Manager{
		gate:     gate,
		policy:   policy,
		failures: cache.New(policy.Window+policy.LockFor, policy.Window),
		now:      time.Now,
	}
}

func (m *Manager) record(clientIP string) (*failureRecord, bool) {
	v, ok := m.failures.Get(clientIP)
	if !ok {
		return nil, false
	}
	return v.(*failureRecord), true
}

// lockedFor はクライアントのロック残り時間を返します。ロックされていなければ 0 です。
func (m *Manager) lockedFor(clientIP string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.record(clientIP)
	if !ok {
		return 0
	}
	if remaining := rec.lockedUntil.Sub(m.now()); remaining > 0 {
		return remaining
	}
	return 0
}

// registerFailure は失敗を1回数え、ロックまでの残り回数とロックされたかを返します。
func (m *Manager) registerFailure(clientIP string) (remaining int, locked bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	rec, ok := m.record(clientIP)
	if !ok || now.Sub(rec.windowStart) > m.policy.Window {
		rec = &failureRecord{windowStart: now}
	}

	rec.failures++
	if rec.failures >= m.policy.MaxAttempts {
		rec.failures = m.policy.MaxAttempts
		rec.lockedUntil = now.Add(m.policy.LockFor)
		locked = true
	}
	m.failures.SetDefault(clientIP, rec)

	return m.policy.MaxAttempts - rec.failures, locked
}

// forgetFailures はログイン成功時に失敗履歴を消します。
func (m *Manager) forgetFailures(clientIP string) {
	m.failures.Delete(clientIP)
}
