// Package config は環境変数から設定を読み込み、アプリケーション全体で使用する設定を提供します。
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const envFilename = ".env.local"

// 認証モード
const (
	AuthModeServer = "server" // bcrypt + サーバー側セッション
	AuthModeStatic = "static" // 平文比較 + クライアント側フラグ（デモ用途）
)

// セッションストアの種類
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// Config はアプリケーションの設定を保持する構造体です。
type Config struct {
	// 認証設定
	AuthMode          string        // server または static
	PasswordHash      string        // bcryptでハッシュ化されたパスワード
	DemoPassword      string        // static モードで平文比較する共有パスワード
	SessionSecret     string        // static モードのクッキー署名鍵
	SessionTTL        time.Duration // セッションの有効期間
	LoginFailureDelay time.Duration // パスワード不一致時の待機時間

	// ログイン試行制限
	LoginMaxAttempts   int           // LoginAttemptWindow 内の失敗許容回数
	LoginAttemptWindow time.Duration // 失敗回数を数える期間
	LoginLockDuration  time.Duration // ロックの長さ

	// セッションストア設定
	SessionStore       string        // memory または redis
	SessionRedisURL    string        // redis ストア用の接続URL
	SessionSweepPeriod time.Duration // 期限切れセッションの掃除間隔

	// サーバー設定
	Port    string // APIサーバーのポート番号
	GinMode string // Ginの実行モード (debug, release, test)

	// CORS設定
	CORSAllowedOrigins string // CORS許可オリジン（カンマ区切り）

	// 静的エクスポート設定
	BasePath string // 静的ホスティング時のパスプレフィックス
}

// Load は環境変数から設定を読み込みます。
// .env.local ファイルが存在する場合はそこから読み込みます。
func Load() (*Config, error) {
	envPath := loadEnvFile()

	config := &Config{
		// 認証設定
		AuthMode:          strings.ToLower(getEnv("AUTH_MODE", AuthModeServer)),
		PasswordHash:      loadPasswordHash(envPath),
		DemoPassword:      getEnv("DEMO_PASSWORD", "hlab1234"),
		SessionSecret:     getEnv("SESSION_SECRET", ""),
		SessionTTL:        getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		LoginFailureDelay: getEnvAsDuration("LOGIN_FAILURE_DELAY", 300*time.Millisecond),

		// ログイン試行制限
		LoginMaxAttempts:   getEnvAsInt("LOGIN_MAX_ATTEMPTS", 5),
		LoginAttemptWindow: getEnvAsDuration("LOGIN_ATTEMPT_WINDOW", 15*time.Minute),
		LoginLockDuration:  getEnvAsDuration("LOGIN_LOCK_DURATION", 10*time.Minute),

		// セッションストア設定
		SessionStore:       strings.ToLower(getEnv("SESSION_STORE", SessionStoreMemory)),
		SessionRedisURL:    getEnv("SESSION_REDIS_URL", "redis://127.0.0.1:6379/0"),
		SessionSweepPeriod: getEnvAsDuration("SESSION_SWEEP_INTERVAL", time.Hour),

		// サーバー設定
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),

		// CORS設定
		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),

		// 静的エクスポート設定
		BasePath: strings.TrimRight(getEnv("BASE_PATH", ""), "/"),
	}

	// 必須設定のバリデーション
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// loadEnvFile は .env.local を読み込み、見つかったパスを返します。
func loadEnvFile() string {
	if err := godotenv.Load(envFilename); err == nil {
		return envFilename
	}

	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	parent := filepath.Dir(cwd)
	if parent == "" || parent == cwd {
		return ""
	}

	path := filepath.Join(parent, envFilename)
	if err := godotenv.Load(path); err != nil {
		return ""
	}
	return path
}

// loadPasswordHash は PASSWORD_HASH を取得します。
// godotenv は $ を変数として展開するため、壊れている場合は .env.local の行を直接読み直します。
func loadPasswordHash(envPath string) string {
	hash := cleanHash(os.Getenv("PASSWORD_HASH"))
	if LooksLikeBcrypt(hash) || envPath == "" {
		return hash
	}

	if fromFile := readRawValue(envPath, "PASSWORD_HASH"); fromFile != "" {
		return fromFile
	}
	return hash
}

// readRawValue は変数展開を行わずに KEY=VALUE 行の値を返します。
func readRawValue(path, key string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		line = strings.TrimPrefix(line, "export ")
		name, value, ok := strings.Cut(line, "=")
		if !ok || strings.TrimSpace(name) != key {
			continue
		}
		return cleanHash(value)
	}
	return ""
}

// LooksLikeBcrypt は bcrypt ハッシュの接頭辞を持つかを判定します。
func LooksLikeBcrypt(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") || strings.HasPrefix(hash, "$2b$") || strings.HasPrefix(hash, "$2y$")
}

func cleanHash(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, `"`)
	v = strings.TrimSuffix(v, `"`)
	v = strings.TrimPrefix(v, `'`)
	v = strings.TrimSuffix(v, `'`)
	return v
}

// Validate は設定の妥当性を検証します。
func (c *Config) Validate() error {
	switch c.AuthMode {
	case AuthModeServer, AuthModeStatic:
	default:
		return fmt.Errorf("AUTH_MODE must be %q or %q, got %q", AuthModeServer, AuthModeStatic, c.AuthMode)
	}
	switch c.SessionStore {
	case SessionStoreMemory, SessionStoreRedis:
	default:
		return fmt.Errorf("SESSION_STORE must be %q or %q, got %q", SessionStoreMemory, SessionStoreRedis, c.SessionStore)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.SessionSweepPeriod <= 0 {
		return fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive")
	}
	if c.LoginMaxAttempts <= 0 || c.LoginAttemptWindow <= 0 || c.LoginLockDuration <= 0 {
		return fmt.Errorf("LOGIN_MAX_ATTEMPTS, LOGIN_ATTEMPT_WINDOW and LOGIN_LOCK_DURATION must be positive")
	}

	// ローカル開発では認証設定は任意
	// PASSWORD_HASH 未設定はログイン時に 500 として扱う
	if c.GinMode == "release" {
		if c.AuthMode == AuthModeServer && c.PasswordHash == "" {
			return fmt.Errorf("PASSWORD_HASH is required in release mode")
		}
		if c.AuthMode == AuthModeStatic && c.SessionSecret == "" {
			return fmt.Errorf("SESSION_SECRET is required in release mode")
		}
		if c.SessionStore == SessionStoreRedis && c.SessionRedisURL == "" {
			return fmt.Errorf("SESSION_REDIS_URL is required in release mode")
		}
	}

	return nil
}

// IsRelease は本番モードかどうかを返します。
func (c *Config) IsRelease() bool {
	return c.GinMode == "release"
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します。
func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt は環境変数を整数として取得します。
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration は環境変数を time.Duration として取得します。
// 単位なしの数値は秒として扱います。
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if secs := getEnvAsInt(key, -1); secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
