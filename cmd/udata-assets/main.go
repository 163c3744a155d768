package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/pblayo/udata/cmd/udata-assets/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Config  commands.ConfigCmd `cmd:"" help:"Emit the bundler configuration"`
		Build   commands.BuildCmd  `cmd:"" help:"Run a development build"`
		Watch   commands.WatchCmd  `cmd:"" help:"Rebuild on source changes"`
		Serve   commands.ServeCmd  `cmd:"" help:"Serve assets and rebuild on source changes"`
		Debug   bool               `help:"Enable debug mode."`
		Version kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
