package commands

import (
	"fmt"

	"github.com/yourusername/hobot-roadmap/internal/config"
	"github.com/yourusername/hobot-roadmap/internal/dashboard"
	"github.com/yourusername/hobot-roadmap/internal/export"
	"github.com/yourusername/hobot-roadmap/internal/logger"
)

type ExportCmd struct {
	Out      string `help:"output directory" default:"dist" type:"path"`
	BasePath string `help:"path prefix for static hosting (overrides BASE_PATH)" default:""`
}

func (e *ExportCmd) Run(globals *Globals) error {
	log := logger.Setup(globals.Debug)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	basePath := cfg.BasePath
	if e.BasePath != "" {
		basePath = e.BasePath
	}

	data, err := dashboard.Load()
	if err != nil {
		return err
	}

	log.Warn().Msg("static export embeds the demo password in plain text; it provides no real protection")
	_, err = export.Write(data, export.Options{
		OutDir:       e.Out,
		BasePath:     basePath,
		DemoPassword: cfg.DemoPassword,
		TTL:          cfg.SessionTTL,
	}, log)
	return err
}
