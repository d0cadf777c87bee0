// Package export はダッシュボードを静的ホスティング用のファイルとして書き出します。
package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/yourusername/hobot-roadmap/internal/dashboard"
)

// Options は書き出しの設定です。
type Options struct {
	OutDir       string
	BasePath     string
	DemoPassword string
	TTL          time.Duration
}

// Write は index.html と login.html を OutDir に書き出し、作成したファイルのパスを返します。
func Write(data *dashboard.Data, opts Options, logger zerolog.Logger) ([]string, error) {
	if opts.OutDir == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	if opts.DemoPassword == "" {
		return nil, fmt.Errorf("demo password is required for static export")
	}
	if opts.TTL <= 0 {
		return nil, fmt.Errorf("ttl must be positive")
	}

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	page := dashboard.StaticPage(opts.BasePath, data, opts.DemoPassword, opts.TTL)

	var written []string
	for _, name := range []string{dashboard.PageIndex, dashboard.PageLogin} {
		var buf bytes.Buffer
		if err := dashboard.RenderPage(&buf, name, page); err != nil {
			return written, err
		}

		path := filepath.Join(opts.OutDir, name)
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", path, err)
		}
		logger.Info().Str("path", path).Int("bytes", buf.Len()).Msg("page exported")
		written = append(written, path)
	}

	return written, nil
}
