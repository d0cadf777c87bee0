package auth

import (
	"strconv"
	"time"
)

// ブラウザの localStorage に保存するキー
const (
	StorageKeyAuthenticated = "authenticated"
	StorageKeyExpiry        = "expiry"
)

// Storage はクライアント側の永続キーバリューストアです（localStorage 相当）。
type Storage interface {
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
	RemoveItem(key string) error
}

// Guard はクライアント側に置いたログインフラグと有効期限を検査します。
//
// フラグはクライアントが自由に書き換えられるため、アクセス制御としての効力はありません。
// 静的ホスティング向けのデモ用途に限って使います。
type Guard struct {
	storage Storage
	ttl     time.Duration
}

// NewGuard は Guard を作成します。
func NewGuard(storage Storage, ttl time.Duration) *Guard {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Guard{storage: storage, ttl: ttl}
}

// Grant はログイン済みフラグと有効期限（ミリ秒のエポック）を書き込み、有効期限を返します。
func (g *Guard) Grant(now time.Time) (time.Time, error) {
	expiry := now.Add(g.ttl)
	if err := g.storage.SetItem(StorageKeyAuthenticated, "true"); err != nil {
		return time.Time{}, err
	}
	if err := g.storage.SetItem(StorageKeyExpiry, strconv.FormatInt(expiry.UnixMilli(), 10)); err != nil {
		return time.Time{}, err
	}
	return expiry, nil
}

// Check はフラグが有効かを返します。期限切れの場合は両方のキーを消します。
// ストレージの読み書きに失敗した場合は未ログインとして扱います。
func (g *Guard) Check(now time.Time) bool {
	flag, ok, err := g.storage.GetItem(StorageKeyAuthenticated)
	if err != nil || !ok || flag != "true" {
		return false
	}

	raw, ok, err := g.storage.GetItem(StorageKeyExpiry)
	if err != nil {
		return false
	}
	expiryMs, parseErr := strconv.ParseInt(raw, 10, 64)
	if !ok || parseErr != nil || now.UnixMilli() >= expiryMs {
		_ = g.Clear()
		return false
	}
	return true
}

// Clear は両方のキーを削除します。
func (g *Guard) Clear() error {
	if err := g.storage.RemoveItem(StorageKeyAuthenticated); err != nil {
		return err
	}
	return g.storage.RemoveItem(StorageKeyExpiry)
}
