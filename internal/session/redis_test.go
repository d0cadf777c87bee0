package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Redis を使うテストは SESSION_REDIS_URL が設定されている場合のみ実行する
func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	url := os.Getenv("SESSION_REDIS_URL")
	if url == "" {
		t.Skip("SESSION_REDIS_URL not set")
	}
	client, err := NewRedisClient(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	st := newTestRedisStore(t)
	ctx := context.Background()

	token, err := NewToken()
	require.NoError(t, err)
	expiry := time.Now().Add(time.Hour).Truncate(time.Millisecond)

	require.NoError(t, st.Set(ctx, Session{Token: token, ExpiresAt: expiry}))

	got, err := st.Get(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.True(t, got.ExpiresAt.Equal(expiry))

	ttl, err := st.rdb.TTL(ctx, sessionKey(token)).Result()
	require.NoError(t, err)
	require.Greater(t, ttl, 59*time.Minute)

	require.NoError(t, st.Delete(ctx, token))
	got, err = st.Get(ctx, token)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestRedisStoreSkipsExpired(t *testing.T) {
	st := newTestRedisStore(t)
	ctx := context.Background()

	token, err := NewToken()
	require.NoError(t, err)

	require.NoError(t, st.Set(ctx, Session{Token: token, ExpiresAt: time.Now().Add(-time.Second)}))
	got, err := st.Get(ctx, token)
	require.NoError(t, err)
	require.Nil(t, got)
	require.NoError(t, st.Sweep(ctx))
}

func TestRedisStoreRequiresToken(t *testing.T) {
	st := NewRedisStore(nil)
	require.Error(t, st.Set(context.Background(), Session{ExpiresAt: time.Now().Add(time.Hour)}))

	got, err := st.Get(context.Background(), "")
	require.NoError(t, err)
	require.Nil(t, got)
	require.NoError(t, st.Delete(context.Background(), ""))
}
