package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/hobot-roadmap/internal/session"
)

const testPassword = "correct-horse"

func testHash(t *testing.T) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newTestSessionGate(t *testing.T, hash string) (*SessionGate, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore(time.Hour, zerolog.Nop())
	gate := NewSessionGate(store, SessionGateOptions{
		PasswordHash: hash,
		TTL:          24 * time.Hour,
	})
	return gate, store
}

type failingStore struct {
	session.Store
}

func (failingStore) Get(ctx context.Context, token string) (*session.Session, error) {
	return nil, errors.New("connection refused")
}

func TestSessionGateAuthenticateSuccess(t *testing.T) {
	gate, store := newTestSessionGate(t, testHash(t))
	ctx := context.Background()

	sess, err := gate.Authenticate(ctx, testPassword)
	require.NoError(t, err)
	require.NotEmpty(t, sess.Token)
	require.WithinDuration(t, time.Now().Add(24*time.Hour), sess.ExpiresAt, time.Second)

	stored, err := store.Get(ctx, sess.Token)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.WithinDuration(t, time.Now().Add(24*time.Hour), stored.ExpiresAt, time.Second)
	require.True(t, gate.Valid(ctx, sess.Token))
}

func TestSessionGateAuthenticateWrongPassword(t *testing.T) {
	gate, store := newTestSessionGate(t, testHash(t))
	gate.opts.FailureDelay = 20 * time.Millisecond

	started := time.Now()
	sess, err := gate.Authenticate(context.Background(), "wrong")
	require.ErrorIs(t, err, ErrInvalidPassword)
	require.Nil(t, sess)
	require.GreaterOrEqual(t, time.Since(started), 20*time.Millisecond)
	require.Equal(t, 0, store.Len())
}

func TestSessionGateAuthenticateValidation(t *testing.T) {
	t.Run("empty password", func(t *testing.T) {
		gate, _ := newTestSessionGate(t, testHash(t))
		_, err := gate.Authenticate(context.Background(), "")
		require.ErrorIs(t, err, ErrPasswordRequired)
	})

	t.Run("hash not configured", func(t *testing.T) {
		gate, _ := newTestSessionGate(t, "")
		_, err := gate.Authenticate(context.Background(), testPassword)
		require.ErrorIs(t, err, ErrMisconfigured)
	})

	t.Run("malformed hash", func(t *testing.T) {
		gate, _ := newTestSessionGate(t, "not-a-bcrypt-hash")
		_, err := gate.Authenticate(context.Background(), testPassword)
		require.ErrorIs(t, err, ErrMisconfigured)
		require.NotContains(t, err.Error(), "not-a-bcrypt-hash")
	})
}

func TestSessionGateTwoLoginsProduceDistinctTokens(t *testing.T) {
	gate, _ := newTestSessionGate(t, testHash(t))
	ctx := context.Background()

	first, err := gate.Authenticate(ctx, testPassword)
	require.NoError(t, err)
	second, err := gate.Authenticate(ctx, testPassword)
	require.NoError(t, err)

	require.NotEqual(t, first.Token, second.Token)
	require.True(t, gate.Valid(ctx, first.Token))
	require.True(t, gate.Valid(ctx, second.Token))

	require.NoError(t, gate.Revoke(ctx, first.Token))
	require.False(t, gate.Valid(ctx, first.Token))
	require.True(t, gate.Valid(ctx, second.Token))
}

func TestSessionGateValid(t *testing.T) {
	gate, store := newTestSessionGate(t, testHash(t))
	ctx := context.Background()

	require.False(t, gate.Valid(ctx, ""))
	require.False(t, gate.Valid(ctx, "unknown-token"))

	// 掃除前の期限切れレコードも認証済みとして扱わない
	require.NoError(t, store.Set(ctx, session.Session{Token: "stale", ExpiresAt: time.Now().Add(time.Hour)}))
	gate.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	require.False(t, gate.Valid(ctx, "stale"))
}

func TestSessionGateStoreErrorIsUnauthenticated(t *testing.T) {
	gate := NewSessionGate(failingStore{}, SessionGateOptions{PasswordHash: testHash(t)})
	require.False(t, gate.Valid(context.Background(), "any"))
}

func TestSleepContextStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	started := time.Now()
	sleepContext(ctx, time.Minute)
	require.Less(t, time.Since(started), time.Second)
}
