package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "assets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeManifest(t, `
project: udata
root: /srv/udata
locales: [en, fr, es]
build:
  minify: true
  source_map: false
serve:
  listen: 0.0.0.0:9000
  cors_origins:
    - http://localhost:5000
`)

	m, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "udata", m.Project)
	require.Equal(t, "/srv/udata", m.Root)
	require.Equal(t, []string{"en", "fr", "es"}, m.Locales)
	require.True(t, m.Build.Minify)
	require.False(t, m.Build.SourceMap)
	require.Equal(t, "0.0.0.0:9000", m.Serve.Listen)
	require.Equal(t, []string{"http://localhost:5000"}, m.Serve.CORSOrigins)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := writeManifest(t, "project: udata\n")

	m, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "udata", m.Project)
	require.Equal(t, ".", m.Root)
	require.Equal(t, []string{"en", "fr"}, m.Locales)
	require.True(t, m.Build.SourceMap)
	require.Equal(t, "127.0.0.1:7000", m.Serve.Listen)
}

func TestLoadUnknownField(t *testing.T) {
	path := writeManifest(t, "entrypoints: {}\n")

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	m, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), m)

	path := writeManifest(t, "root: /srv/udata\n")
	m, err = LoadOrDefault(path)
	require.NoError(t, err)
	require.Equal(t, "/srv/udata", m.Root)
}
