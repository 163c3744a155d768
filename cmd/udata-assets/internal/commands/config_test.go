package commands

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, dir := range []string{
		"js",
		"node_modules/jquery/dist",
		"node_modules/handlebars/dist",
		"node_modules/swagger-ui/dist",
	} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o755))
	}
	for _, file := range []string{
		"node_modules/jquery/dist/jquery.js",
		"node_modules/handlebars/dist/handlebars.js",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(root, file), []byte("// stub\n"), 0o600))
	}
	return root
}

func TestConfigCmd(t *testing.T) {
	root := newProject(t)
	output := filepath.Join(t.TempDir(), "webpack.config.json")

	cmd := &ConfigCmd{
		ProjectFlags: ProjectFlags{
			Manifest: filepath.Join(root, "assets.yaml"), // absent, defaults apply
			Root:     root,
			Locales:  []string{"en", "fr"},
		},
		Output: output,
	}
	require.NoError(t, cmd.Run(context.Background(), &Globals{}))

	data, err := os.ReadFile(output)
	require.NoError(t, err)

	var decoded struct {
		Entry   map[string]string `json:"entry"`
		Plugins []struct {
			Name string `json:"name"`
		} `json:"plugins"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, filepath.Join(root, "js/main.js"), decoded.Entry["admin"])
	require.Len(t, decoded.Plugins, 4)
}

func TestConfigCmdInvalidRoot(t *testing.T) {
	cmd := &ConfigCmd{
		ProjectFlags: ProjectFlags{
			Manifest: filepath.Join(t.TempDir(), "assets.yaml"),
			Root:     filepath.Join(t.TempDir(), "missing"),
			Locales:  []string{"en"},
		},
		Output: "-",
	}
	require.Error(t, cmd.Run(context.Background(), &Globals{}))
}
