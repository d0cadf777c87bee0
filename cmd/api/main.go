// Package main は HOBOT Roadmap のエントリーポイントです。
package main

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/yourusername/hobot-roadmap/cmd/api/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Serve         commands.ServeCmd         `cmd:"" default:"1" help:"Start the dashboard server"`
		Export        commands.ExportCmd        `cmd:"" help:"Export the dashboard as static files (demo mode)"`
		Hash          commands.HashCmd          `cmd:"" help:"Generate a bcrypt PASSWORD_HASH line"`
		CheckPassword commands.CheckPasswordCmd `cmd:"" name:"check-password" help:"Check a password against PASSWORD_HASH"`
		Debug         bool                      `help:"Enable debug mode."`
		Version       kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("hobot-roadmap"),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
