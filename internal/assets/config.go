package assets

import "path/filepath"

type Config struct {
	// Whether to minify output
	Minify bool
	// Whether to enable source maps
	SourceMap bool
	// Path to the metafile; empty means meta.json under the output
	// directory
	MetafilePath string
}

// DefaultConfig returns the settings used for local development builds
func DefaultConfig() Config {
	return Config{
		Minify:    false,
		SourceMap: true,
	}
}

func (c Config) metafilePath(outputDir string) string {
	if c.MetafilePath != "" {
		return c.MetafilePath
	}
	return filepath.Join(outputDir, "meta.json")
}
