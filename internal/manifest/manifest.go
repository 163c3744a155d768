// Package manifest reads the project manifest that parameterizes the
// asset commands. The configuration builder itself takes explicit
// arguments; the manifest only feeds the CLI.
package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the on-disk assets.yaml file.
type Manifest struct {
	Project string      `yaml:"project,omitempty"`
	Root    string      `yaml:"root"`
	Locales []string    `yaml:"locales"`
	Build   BuildConfig `yaml:"build"`
	Serve   ServeConfig `yaml:"serve"`
}

// BuildConfig holds the development build toggles.
type BuildConfig struct {
	Minify    bool `yaml:"minify"`
	SourceMap bool `yaml:"source_map"`
}

// ServeConfig holds the dev server settings.
type ServeConfig struct {
	Listen      string   `yaml:"listen"`
	CORSOrigins []string `yaml:"cors_origins,omitempty"`
}

// Default returns the manifest used when no file is present.
func Default() Manifest {
	return Manifest{
		Root:    ".",
		Locales: []string{"en", "fr"},
		Build: BuildConfig{
			Minify:    false,
			SourceMap: true,
		},
		Serve: ServeConfig{
			Listen: "127.0.0.1:7000",
		},
	}
}

// Load reads the manifest at path over the defaults. Fields absent
// from the file keep their default values; unknown fields are
// rejected.
func Load(path string) (Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("open manifest: %w", err)
	}
	defer func() { _ = f.Close() }()

	m := Default()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return m, nil
}

// LoadOrDefault reads the manifest at path, falling back to the
// defaults when the file does not exist.
func LoadOrDefault(path string) (Manifest, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}
