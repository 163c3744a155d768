package commands

import (
	"context"

	"github.com/pblayo/udata/internal/assets"
	"github.com/pblayo/udata/internal/logger"
)

type BuildCmd struct {
	ProjectFlags
	Minify bool `help:"Minify output (overrides the manifest)"`
}

func (c *BuildCmd) Run(ctx context.Context, globals *Globals) error {
	logger.Setup(globals.Debug)

	record, m, err := c.load()
	if err != nil {
		return err
	}

	cfg := assets.Config{
		Minify:    m.Build.Minify || c.Minify,
		SourceMap: m.Build.SourceMap,
	}
	return assets.New(record, cfg).Build()
}
