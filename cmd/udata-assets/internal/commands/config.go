package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/pblayo/udata/internal/logger"
)

type ConfigCmd struct {
	ProjectFlags
	Output  string `help:"Write the configuration to a file instead of stdout" short:"o" default:"-"`
	Compact bool   `help:"Emit compact JSON"`
}

func (c *ConfigCmd) Run(ctx context.Context, globals *Globals) error {
	logger.Setup(globals.Debug)

	record, _, err := c.load()
	if err != nil {
		return err
	}

	out := os.Stdout
	if c.Output != "-" {
		f, err := os.Create(c.Output)
		if err != nil {
			return fmt.Errorf("create %s: %w", c.Output, err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	return record.EncodeJSON(out, c.Compact)
}
