package assets

import (
	"encoding/json"
	"errors"
	"os"
	"sort"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pblayo/udata/internal/webpack"
)

// Build runs the bundler engine over the configured entry points and
// caches the resulting metadata
func (p *Pipeline) Build() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	buildID := uuid.New().String()
	logger := log.With().Str("build_id", buildID).Logger()

	names := make([]string, 0, len(p.record.Entry))
	for name := range p.record.Entry {
		names = append(names, name)
	}
	sort.Strings(names)
	logger.Info().Strs("entrypoints", names).Msg("Building assets")

	result := api.Build(buildOptions(p.record, p.config))

	if len(result.Errors) > 0 {
		for _, msg := range result.Errors {
			logger.Error().Str("error", msg.Text).Msg("Build error")
		}
		return errors.New("bundler failed with errors")
	}

	for _, file := range result.OutputFiles {
		logger.Info().Str("file", file.Path).Msg("Built file")
	}

	if err := os.MkdirAll(p.record.Output.Path, 0o755); err != nil {
		return err
	}
	metafilePath := p.config.metafilePath(p.record.Output.Path)
	if err := os.WriteFile(metafilePath, []byte(result.Metafile), 0600); err != nil {
		return err
	}

	var metadata BuildMetadata
	if err := json.Unmarshal([]byte(result.Metafile), &metadata); err != nil {
		return err
	}

	p.metadata = &metadata
	return nil
}

// buildOptions maps the configuration record onto the bundler engine's
// native options. It is pure so the mapping can be tested without
// running a build.
func buildOptions(record *webpack.Record, config Config) api.BuildOptions {
	names := make([]string, 0, len(record.Entry))
	for name := range record.Entry {
		names = append(names, name)
	}
	sort.Strings(names)

	entryPoints := make([]api.EntryPoint, 0, len(names))
	for _, name := range names {
		entryPoints = append(entryPoints, api.EntryPoint{
			InputPath:  record.Entry[name],
			OutputPath: name,
		})
	}

	return api.BuildOptions{
		EntryPointsAdvanced: entryPoints,
		Bundle:              true,
		Write:               true,
		Outdir:              record.Output.Path,
		PublicPath:          record.Output.PublicPath,
		EntryNames:          namePattern(record.Output.Filename),
		ChunkNames:          namePattern(record.Output.ChunkFilename),
		Alias:               record.Resolve.Alias,
		NodePaths:           record.Resolve.Roots,
		Loader:              loaderMap(record),
		Format:              api.FormatESModule,
		MinifyWhitespace:    config.Minify,
		MinifyIdentifiers:   config.Minify,
		MinifySyntax:        config.Minify,
		TreeShaking:         api.TreeShakingTrue,
		Sourcemap:           cond(config.SourceMap, api.SourceMapLinked, api.SourceMapNone),
		Metafile:            true,
	}
}

// namePattern translates an output filename pattern into the engine's
// placeholder dialect: the extension is implied and [id] has no
// equivalent, so it is dropped in favor of the hash token.
func namePattern(pattern string) string {
	pattern = strings.TrimSuffix(pattern, ".js")
	pattern = strings.ReplaceAll(pattern, "[id].", "")
	pattern = strings.ReplaceAll(pattern, "[id]", "[hash]")
	return pattern
}

// loaderMap derives the per-extension loader table from the record's
// rules, honoring their first-match-wins ordering.
func loaderMap(record *webpack.Record) map[string]api.Loader {
	out := map[string]api.Loader{}
	for _, rule := range record.Rules {
		if len(rule.Use) == 0 {
			continue
		}
		loader, ok := engineLoaders[rule.Use[0].Name]
		if !ok {
			continue
		}
		for _, ext := range ruleExtensions(rule.Test) {
			if _, seen := out["."+ext]; !seen {
				out["."+ext] = loader
			}
		}
	}
	return out
}

// engineLoaders maps the first step of a rule's pipeline onto the
// engine loader class covering the same concern. Script and component
// pipelines are absent on purpose: the engine handles those natively.
var engineLoaders = map[string]api.Loader{
	"file":  api.LoaderFile,
	"url":   api.LoaderDataURL,
	"style": api.LoaderCSS,
	"json":  api.LoaderJSON,
	"html":  api.LoaderText,
}

// ruleExtensions expands an extension matcher like `\.(gif|jpe?g|png)$`
// into its literal extensions. A single trailing-optional character
// (`jpe?g`, `woff2?`) yields both variants.
func ruleExtensions(test string) []string {
	test = strings.TrimPrefix(test, `\.`)
	test = strings.TrimSuffix(test, `$`)
	test = strings.TrimSuffix(test, `(\?.*)?`)
	test = strings.TrimPrefix(test, "(")
	test = strings.TrimSuffix(test, ")")

	var exts []string
	for _, token := range strings.Split(test, "|") {
		idx := strings.IndexByte(token, '?')
		if idx <= 0 {
			exts = append(exts, token)
			continue
		}
		exts = append(exts, token[:idx-1]+token[idx+1:])
		exts = append(exts, token[:idx]+token[idx+1:])
	}
	return exts
}

// Scripts returns the ordered list of script paths needed for the
// given entrypoint and the main entrypoint file path
func (p *Pipeline) Scripts(entryPointPath string) ([]string, string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.metadata == nil {
		return nil, "", errors.New("assets not built yet, call Build() first")
	}

	scripts := []string{}
	visited := make(map[string]bool)
	var entrypoint string

	for outputPath, info := range p.metadata.Outputs {
		if info.EntryPoint == entryPointPath {
			entrypoint = "/" + outputPath
			scripts = append(scripts, entrypoint)
			visited[outputPath] = true
			p.addDependencies(info, &scripts, visited)
			return scripts, entrypoint, nil
		}
	}

	return nil, "", errors.New("entrypoint not found in metadata")
}

func (p *Pipeline) addDependencies(output OutputInfo, scripts *[]string, visited map[string]bool) {
	for _, imp := range output.Imports {
		if !visited[imp.Path] {
			visited[imp.Path] = true
			*scripts = append(*scripts, "/"+imp.Path)

			if chunkInfo, exists := p.metadata.Outputs[imp.Path]; exists {
				p.addDependencies(chunkInfo, scripts, visited)
			}
		}
	}
}

func cond[T any](condition bool, trueVal, falseVal T) T {
	if condition {
		return trueVal
	}
	return falseVal
}
