package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pblayo/udata/internal/assets"
	"github.com/pblayo/udata/internal/logger"
	"github.com/pblayo/udata/internal/watcher"
)

type WatchCmd struct {
	ProjectFlags
	Debounce time.Duration `help:"Settle time before rebuilding" default:"250ms"`
}

func (c *WatchCmd) Run(ctx context.Context, globals *Globals) error {
	logger.Setup(globals.Debug)

	record, m, err := c.load()
	if err != nil {
		return err
	}

	pipeline := assets.New(record, assets.Config{
		Minify:    m.Build.Minify,
		SourceMap: m.Build.SourceMap,
	})
	if err := pipeline.Build(); err != nil {
		// Keep watching; the next change may fix the build.
		log.Error().Err(err).Msg("initial build failed")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := watcher.New(sourceDirs(m.Root), c.Debounce, func() {
		if err := pipeline.Build(); err != nil {
			log.Error().Err(err).Msg("rebuild failed")
		}
	})
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// sourceDirs lists the directory trees whose changes trigger a
// rebuild.
func sourceDirs(root string) []string {
	return []string{
		filepath.Join(root, "js"),
		filepath.Join(root, "specs"),
	}
}
