package webpack

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// Fixed layout of the frontend tree relative to the project root.
const (
	sourceDir  = "js"
	specsDir   = "specs"
	staticDir  = "udata/static"
	modulesDir = "node_modules"
	publicPath = "/static/"

	// The karma entry stub is picked up by the test runner directly
	// and must not go through the script pipeline.
	specsLoader = "specs/loader.js"
)

// defaultEntries maps bundle names to entry files relative to the
// project root.
var defaultEntries = map[string]string{
	"admin": "js/main.js",
}

// defaultAliases maps import shorthands to paths relative to the
// module directory. Targets are checked on disk at build time.
var defaultAliases = map[string]string{
	"jquery":     "jquery/dist/jquery.js",
	"handlebars": "handlebars/dist/handlebars.js",
	"swagger-ui": "swagger-ui/dist",
}

// Build assembles the full bundler configuration for the project at
// root with the given ordered locale set. It is deterministic and has
// no side effects beyond the existence checks on root and the alias
// targets. The returned record must not be mutated.
func Build(root string, locales []string) (*Record, error) {
	if err := validateLocales(locales); err != nil {
		return nil, err
	}

	root, err := validateRoot(root)
	if err != nil {
		return nil, err
	}

	alias, err := resolveAliases(root)
	if err != nil {
		return nil, err
	}

	entry := make(map[string]string, len(defaultEntries))
	for name, rel := range defaultEntries {
		entry[name] = filepath.Join(root, rel)
	}

	record := &Record{
		Entry: entry,
		Output: OutputSpec{
			Path:          filepath.Join(root, staticDir),
			PublicPath:    publicPath,
			Filename:      "[name].js",
			ChunkFilename: "[id].[hash].js",
		},
		Resolve: ResolutionSpec{
			Roots: []string{
				filepath.Join(root, sourceDir),
				filepath.Join(root, modulesDir),
			},
			Alias: alias,
		},
		Rules:   buildRules(root),
		Plugins: buildPlugins(locales),
		Locales: append([]string(nil), locales...),
	}
	return record, nil
}

func validateRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidRoot, root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidRoot, abs)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrInvalidRoot, abs)
	}
	return abs, nil
}

func validateLocales(locales []string) error {
	if len(locales) == 0 {
		return ErrEmptyLocaleSet
	}
	for _, code := range locales {
		if code == "" || code != strings.ToLower(code) {
			return fmt.Errorf("%w: %q", ErrInvalidLocale, code)
		}
		if _, err := language.Parse(code); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidLocale, code)
		}
	}
	return nil
}

// resolveAliases joins each alias target with the module directory and
// fails fast on the first missing target, checking in sorted alias
// order so the failure is stable.
func resolveAliases(root string) (map[string]string, error) {
	names := make([]string, 0, len(defaultAliases))
	for name := range defaultAliases {
		names = append(names, name)
	}
	sort.Strings(names)

	alias := make(map[string]string, len(names))
	for _, name := range names {
		target := filepath.Join(root, modulesDir, defaultAliases[name])
		if _, err := os.Stat(target); err != nil {
			return nil, fmt.Errorf("%w: %s -> %s", ErrMissingAliasTarget, name, target)
		}
		alias[name] = target
	}
	return alias, nil
}

// buildRules returns the transformation rules in their fixed
// precedence order: images, plain stylesheets, preprocessed
// stylesheets, single-file components, structured data, standalone
// templates, fonts and binary assets, and finally scripts.
func buildRules(root string) []Rule {
	styleChain := []Loader{
		{Name: "style"},
		{Name: "css"},
	}
	lessChain := []Loader{
		{Name: "style"},
		{Name: "css"},
		{Name: "less"},
	}
	scriptChain := []Loader{
		{Name: "babel", Options: map[string]string{"presets": "es2015"}},
	}

	rules := []Rule{
		{
			Test: `\.(gif|jpe?g|png|svg)$`,
			Use: []Loader{
				{Name: "file", Options: map[string]string{"name": "[name].[hash].[ext]"}},
			},
		},
		{
			Test: `\.css$`,
			Use:  styleChain,
		},
		{
			Test: `\.less$`,
			Use:  lessChain,
		},
		{
			Test: `\.vue$`,
			Use:  []Loader{{Name: "vue"}},
			// Embedded blocks reuse the standalone pipelines so a
			// style block in a component is processed exactly like a
			// standalone stylesheet.
			Loaders: map[string][]Loader{
				"css":  styleChain,
				"less": lessChain,
				"js":   scriptChain,
			},
		},
		{
			Test: `\.json$`,
			Use:  []Loader{{Name: "json"}},
		},
		{
			Test: `\.html$`,
			Use:  []Loader{{Name: "html"}},
		},
		{
			Test: `\.(woff2?|ttf|eot|otf)(\?.*)?$`,
			Use: []Loader{
				{Name: "url", Options: map[string]string{
					"limit": "10000",
					"name":  "[name].[hash].[ext]",
				}},
			},
		},
		{
			Test: `\.js$`,
			Use:  scriptChain,
			// Allow the source and spec trees, then carve out the one
			// runner stub.
			Include: []string{
				filepath.Join(root, sourceDir),
				filepath.Join(root, specsDir),
			},
			Exclude: []string{
				filepath.Join(root, specsLoader),
			},
		},
	}

	for i := range rules {
		rules[i].test = regexp.MustCompile(rules[i].Test)
	}
	return rules
}

// buildPlugins returns the fixed plugin directives. They are opaque to
// this package; the bundler interprets them.
func buildPlugins(locales []string) []PluginDirective {
	return []PluginDirective{
		{
			// Map-widget icons resolve against the vendor image
			// directory instead of the bundled path.
			Name: "module-replace",
			Options: map[string]any{
				"match":       `^\./images/(layers(-2x)?|marker-icon(-2x)?|marker-shadow)\.png$`,
				"replacement": "leaflet/dist/images/$1.png",
			},
		},
		{
			// The promise shim probes for a vertx runtime that never
			// exists in browser builds.
			Name: "ignore-optional-dependency",
			Options: map[string]any{
				"context": "es6-promise",
				"request": "vertx",
			},
		},
		{
			Name: "locale-context-trim",
			Options: map[string]any{
				"directory": "moment/locale",
				"locales":   append([]string(nil), locales...),
			},
		},
		{
			Name: "extract-text",
			Options: map[string]any{
				"filename": "[name].css",
			},
		},
	}
}
