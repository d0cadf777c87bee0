package session

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// tokenBytes は 256 ビット分のエントロピーです。
const tokenBytes = 32

// NewToken は暗号論的に安全な乱数からセッショントークンを生成します。
func NewToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("session: failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
