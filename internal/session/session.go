// Package session はログインセッションの保存と払い出しを提供します。
package session

import (
	"context"
	"time"
)

// Session はログイン済みブラウザに紐づくセッションです。
// 作成後に書き換えることはなく、更新する場合は丸ごと置き換えます。
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Valid は now 時点でセッションが有効かどうかを返します。
func (s *Session) Valid(now time.Time) bool {
	return s != nil && now.Before(s.ExpiresAt)
}

// Store はセッションの保存先です。
//
// Get は期限切れのレコードを削除しません。呼び出し側で Valid を確認してください。
// 見つからない場合は (nil, nil) を返します。
type Store interface {
	Set(ctx context.Context, s Session) error
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
	Sweep(ctx context.Context) error
}
