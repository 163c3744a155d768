package commands

import (
	"fmt"

	"github.com/pblayo/udata/internal/manifest"
	"github.com/pblayo/udata/internal/webpack"
)

type Globals struct {
	Debug   bool
	Version string
}

// ProjectFlags are shared by all commands that need the configuration
// record. Flags override the manifest.
type ProjectFlags struct {
	Manifest string   `help:"Path to the project manifest" default:"assets.yaml" env:"UDATA_ASSETS_MANIFEST"`
	Root     string   `help:"Project root directory (overrides the manifest)" env:"UDATA_ASSETS_ROOT"`
	Locales  []string `help:"Supported locale codes (overrides the manifest)" env:"UDATA_ASSETS_LOCALES"`
}

func (f ProjectFlags) load() (*webpack.Record, manifest.Manifest, error) {
	m, err := manifest.LoadOrDefault(f.Manifest)
	if err != nil {
		return nil, manifest.Manifest{}, err
	}
	if f.Root != "" {
		m.Root = f.Root
	}
	if len(f.Locales) > 0 {
		m.Locales = f.Locales
	}

	record, err := webpack.Build(m.Root, m.Locales)
	if err != nil {
		return nil, manifest.Manifest{}, fmt.Errorf("build configuration: %w", err)
	}
	return record, m, nil
}
