package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// RedisStore はセッションを Redis に保存します。
// キーの TTL をセッションの有効期限に合わせるため、掃除は Redis 側に任せます。
type RedisStore struct {
	rdb *redis.Client
	now func() time.Time
}

// NewRedisStore は RedisStore を作成します。
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{
		rdb: rdb,
		now: time.Now,
	}
}

// NewRedisClient は接続URLからクライアントを作成し、疎通を確認します。
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// Set はセッションを保存します。期限切れのセッションは既存キーごと削除します。
func (s *RedisStore) Set(ctx context.Context, sess Session) error {
	if sess.Token == "" {
		return fmt.Errorf("session: token is required")
	}
	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return s.rdb.Del(ctx, sessionKey(sess.Token)).Err()
	}

	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session: failed to marshal: %w", err)
	}
	return s.rdb.Set(ctx, sessionKey(sess.Token), payload, ttl).Err()
}

// Get はセッションを取得します。
func (s *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, nil
	}
	data, err := s.rdb.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("session: failed to unmarshal: %w", err)
	}
	return &sess, nil
}

// Delete はセッションを削除します。
func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.rdb.Del(ctx, sessionKey(token)).Err()
}

// Sweep は何もしません。期限切れのキーは Redis が削除します。
func (s *RedisStore) Sweep(ctx context.Context) error {
	return nil
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}
