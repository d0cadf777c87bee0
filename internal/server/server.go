// Package server は Gin ルーターとミドルウェアの配線を行います。
package server

import (
	"context"
	"crypto/rand"
	"fmt"
	"net/http"
	"strings"
	"time"

	"filippo.io/csrf"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yourusername/hobot-roadmap/internal/auth"
	"github.com/yourusername/hobot-roadmap/internal/config"
	"github.com/yourusername/hobot-roadmap/internal/dashboard"
	"github.com/yourusername/hobot-roadmap/internal/logger"
	"github.com/yourusername/hobot-roadmap/internal/session"
)

// ServiceName はヘルスチェックで返すサービス名です。
const ServiceName = "hobot-roadmap"

// Options はルーター構築に必要な依存関係です。
type Options struct {
	Config  *config.Config
	Store   session.Store // server モードでのみ使用
	Data    *dashboard.Data
	Logger  zerolog.Logger
	Version string
}

// NewGate は設定に応じた認証ゲートを作成します。
func NewGate(cfg *config.Config, store session.Store) (auth.Gate, error) {
	switch cfg.AuthMode {
	case config.AuthModeStatic:
		return auth.NewDemoGate(cfg.DemoPassword, cfg.SessionTTL), nil
	case config.AuthModeServer:
		if store == nil {
			return nil, fmt.Errorf("session store is required in %s mode", config.AuthModeServer)
		}
		return auth.NewSessionGate(store, auth.SessionGateOptions{
			PasswordHash: cfg.PasswordHash,
			TTL:          cfg.SessionTTL,
			FailureDelay: cfg.LoginFailureDelay,
			SecureCookie: cfg.IsRelease(),
		}), nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.AuthMode)
	}
}

// NewStore は設定に応じたセッションストアを作成します。
// 戻り値の関数はストアが保持する接続を閉じます。
// static モードではサーバー側にセッションを持たないため nil を返します。
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (session.Store, func() error, error) {
	if cfg.AuthMode == config.AuthModeStatic {
		return nil, func() error { return nil }, nil
	}
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		rdb, err := session.NewRedisClient(ctx, cfg.SessionRedisURL)
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisStore(rdb), rdb.Close, nil
	default:
		return session.NewMemoryStore(cfg.SessionSweepPeriod, log), func() error { return nil }, nil
	}
}

// New は API とページのルーティングを設定したハンドラーを返します。
func New(opts Options) (http.Handler, error) {
	cfg := opts.Config

	gate, err := NewGate(cfg, opts.Store)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery(), logger.GinRequests(opts.Logger))

	// static モードはログイン状態を署名付きクッキーに保持する
	if cfg.AuthMode == config.AuthModeStatic {
		secret, err := cookieSecret(cfg.SessionSecret)
		if err != nil {
			return nil, err
		}
		if cfg.SessionSecret == "" {
			opts.Logger.Warn().Msg("SESSION_SECRET is not set; using a random key, demo logins will not survive a restart")
		}
		store := cookie.NewStore(secret)
		store.Options(sessions.Options{
			Path:     "/",
			MaxAge:   int(cfg.SessionTTL / time.Second),
			HttpOnly: true,
			Secure:   cfg.IsRelease(),
			SameSite: http.SameSiteStrictMode,
		})
		router.Use(sessions.Sessions(auth.DemoSessionName, store))
	}

	// CORSミドルウェアの設定
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = splitOrigins(cfg.CORSAllowedOrigins)
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(corsConfig))

	authManager := auth.NewManager(gate, auth.LockoutPolicy{
		MaxAttempts: cfg.LoginMaxAttempts,
		Window:      cfg.LoginAttemptWindow,
		LockFor:     cfg.LoginLockDuration,
	})
	setupRoutes(router, authManager, dashboard.NewHandler(opts.Data, cfg.BasePath), cfg.BasePath, opts.Version)

	// 状態を変更するリクエストはクロスオリジンから受け付けない
	return csrf.New().Handler(router), nil
}

// setupRoutes はヘルスチェック・API・ページのルートを登録します。
// リダイレクト先には basePath を付けます（リバースプロキシ配下での配信用）。
func setupRoutes(router *gin.Engine, authManager *auth.Manager, dash *dashboard.Handler, basePath, version string) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": ServiceName,
			"version": version,
		})
	})

	api := router.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/login", authManager.Login)
			authRoutes.POST("/logout", authManager.Logout)
			authRoutes.GET("/verify", authManager.Verify)
		}

		protected := api.Group("")
		protected.Use(authManager.RequireLogin())
		{
			protected.GET("/timeline", dash.Timeline)
			protected.GET("/products", dash.Products)
		}
	}

	router.GET("/", authManager.RequirePage(basePath+"/login"), dash.IndexPage)
	router.GET("/login", authManager.RedirectIfAuthenticated(basePath+"/"), dash.LoginPage)
}

// cookieSecret は署名鍵を返します。未設定なら 32 バイトの乱数鍵を生成します。
func cookieSecret(configured string) ([]byte, error) {
	if configured != "" {
		return []byte(configured), nil
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate session secret: %w", err)
	}
	return key, nil
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
