package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/hobot-roadmap/internal/config"
	"github.com/yourusername/hobot-roadmap/internal/dashboard"
	"github.com/yourusername/hobot-roadmap/internal/logger"
	"github.com/yourusername/hobot-roadmap/internal/server"
)

type ServeCmd struct {
	Listen          string        `help:"listen address (defaults to :$PORT)" default:""`
	ShutdownTimeout time.Duration `help:"graceful shutdown timeout" default:"10s"`
}

func (s *ServeCmd) Run(ctx context.Context, globals *Globals) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.Setup(globals.Debug || !cfg.IsRelease())
	gin.SetMode(cfg.GinMode)

	if cfg.AuthMode == config.AuthModeServer && cfg.PasswordHash == "" {
		log.Warn().Msg("PASSWORD_HASH is not set; every login will fail with SERVER_MISCONFIGURATION")
	}

	data, err := dashboard.Load()
	if err != nil {
		return err
	}

	store, closeStore, err := server.NewStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create session store: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Error().Err(err).Msg("failed to close session store")
		}
	}()

	handler, err := server.New(server.Options{
		Config:  cfg,
		Store:   store,
		Data:    data,
		Logger:  log,
		Version: globals.Version,
	})
	if err != nil {
		return err
	}

	addr := s.Listen
	if addr == "" {
		addr = ":" + cfg.Port
	}
	srv := configureHTTPServer(addr, handler)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", addr).
			Str("mode", cfg.GinMode).
			Str("auth_mode", cfg.AuthMode).
			Str("session_store", cfg.SessionStore).
			Str("version", globals.Version).
			Msg("Starting HTTP server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
