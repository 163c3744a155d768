package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pblayo/udata/internal/assets"
	"github.com/pblayo/udata/internal/devserver"
	"github.com/pblayo/udata/internal/logger"
	"github.com/pblayo/udata/internal/watcher"
)

type ServeCmd struct {
	ProjectFlags
	Listen      string        `help:"Listen address (overrides the manifest)"`
	CORSOrigins []string      `help:"Allowed CORS origins (overrides the manifest)"`
	Debounce    time.Duration `help:"Settle time before rebuilding" default:"250ms"`
}

func (c *ServeCmd) Run(ctx context.Context, globals *Globals) error {
	logger.Setup(globals.Debug)

	record, m, err := c.load()
	if err != nil {
		return err
	}
	if c.Listen != "" {
		m.Serve.Listen = c.Listen
	}
	if len(c.CORSOrigins) > 0 {
		m.Serve.CORSOrigins = c.CORSOrigins
	}

	pipeline := assets.New(record, assets.Config{
		Minify:    m.Build.Minify,
		SourceMap: m.Build.SourceMap,
	})
	if err := pipeline.Build(); err != nil {
		log.Error().Err(err).Msg("initial build failed")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := watcher.New(sourceDirs(m.Root), c.Debounce, func() {
		if err := pipeline.Build(); err != nil {
			log.Error().Err(err).Msg("rebuild failed")
		}
	})
	srv := devserver.New(devserver.Config{
		Listen:      m.Serve.Listen,
		Dir:         record.Output.Path,
		PublicPath:  record.Output.PublicPath,
		CORSOrigins: m.Serve.CORSOrigins,
	})

	errs := make(chan error, 2)
	go func() { errs <- w.Run(ctx) }()
	go func() { errs <- srv.Start(ctx) }()

	if err := <-errs; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
