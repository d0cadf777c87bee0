package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestManagerLockoutPolicy(t *testing.T) {
	gate, _ := newTestSessionGate(t, testHash(t))
	m := NewManager(gate, LockoutPolicy{MaxAttempts: 3, Window: time.Minute, LockFor: 5 * time.Minute})
	start := time.Now()
	m.now = func() time.Time { return start }

	remaining, locked := m.registerFailure("10.0.0.1")
	require.Equal(t, 2, remaining)
	require.False(t, locked)
	remaining, locked = m.registerFailure("10.0.0.1")
	require.Equal(t, 1, remaining)
	require.False(t, locked)

	// 別のクライアントは影響を受けない
	remaining, _ = m.registerFailure("10.0.0.2")
	require.Equal(t, 2, remaining)

	remaining, locked = m.registerFailure("10.0.0.1")
	require.Zero(t, remaining)
	require.True(t, locked)
	require.Equal(t, 5*time.Minute, m.lockedFor("10.0.0.1"))
	require.Zero(t, m.lockedFor("10.0.0.2"))

	m.now = func() time.Time { return start.Add(5*time.Minute + time.Second) }
	require.Zero(t, m.lockedFor("10.0.0.1"))
}

func TestManagerFailureWindowResets(t *testing.T) {
	gate, _ := newTestSessionGate(t, testHash(t))
	m := NewManager(gate, LockoutPolicy{MaxAttempts: 2, Window: time.Minute, LockFor: time.Minute})
	start := time.Now()
	m.now = func() time.Time { return start }

	_, locked := m.registerFailure("10.0.0.1")
	require.False(t, locked)

	// Window を過ぎた失敗は数え直し
	m.now = func() time.Time { return start.Add(2 * time.Minute) }
	remaining, locked := m.registerFailure("10.0.0.1")
	require.Equal(t, 1, remaining)
	require.False(t, locked)

	m.forgetFailures("10.0.0.1")
	remaining, _ = m.registerFailure("10.0.0.1")
	require.Equal(t, 1, remaining)
}

func TestLockoutPolicyDefaults(t *testing.T) {
	m := NewManager(NewDemoGate("x", time.Hour), LockoutPolicy{})
	require.Equal(t, DefaultLockoutPolicy(), m.policy)

	m = NewManager(NewDemoGate("x", time.Hour), LockoutPolicy{MaxAttempts: 10})
	require.Equal(t, 10, m.policy.MaxAttempts)
	require.Equal(t, 15*time.Minute, m.policy.Window)
}
