package webpack

import (
	"encoding/json"
	"io"
	"regexp"
	"sort"
	"strings"
)

// Record is the full bundler configuration produced by Build. It is
// assembled once per invocation and must not be mutated afterwards;
// its shape mirrors the schema the external bundler expects.
type Record struct {
	// Entry maps bundle names to absolute entry point paths.
	Entry map[string]string
	// Output describes where and under what names bundles are written.
	Output OutputSpec
	// Resolve controls module resolution for bare imports.
	Resolve ResolutionSpec
	// Rules are evaluated in declaration order; the first rule whose
	// matcher and filters accept a path wins.
	Rules []Rule
	// Plugins are opaque directives passed through to the bundler.
	Plugins []PluginDirective
	// Locales is the ordered set of supported locale codes.
	Locales []string
}

// OutputSpec describes the bundler's output destination. Filename and
// ChunkFilename contain placeholder tokens ([name], [id], [hash]) that
// the bundler resolves, not this package.
type OutputSpec struct {
	Path          string `json:"path"`
	PublicPath    string `json:"publicPath"`
	Filename      string `json:"filename"`
	ChunkFilename string `json:"chunkFilename"`
}

// ResolutionSpec lists the root directories searched for bare imports
// and the alias table mapping shorthand names to absolute paths.
type ResolutionSpec struct {
	Roots []string          `json:"root"`
	Alias map[string]string `json:"alias"`
}

// Loader is a single transformation step in a rule's pipeline.
type Loader struct {
	Name    string
	Options map[string]string
}

// String renders the loader in the bundler's name?key=value query form.
// Option keys are emitted in sorted order so output is deterministic.
func (l Loader) String() string {
	if len(l.Options) == 0 {
		return l.Name
	}
	keys := make([]string, 0, len(l.Options))
	for k := range l.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(l.Name)
	sb.WriteByte('?')
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(l.Options[k])
	}
	return sb.String()
}

// chainString joins a loader pipeline with the bundler's "!" separator.
func chainString(chain []Loader) string {
	parts := make([]string, len(chain))
	for i, l := range chain {
		parts[i] = l.String()
	}
	return strings.Join(parts, "!")
}

// Rule binds a file extension matcher to an ordered loader pipeline,
// optionally restricted by include prefixes and exclude paths.
type Rule struct {
	// Test is a regular expression matched against the file path.
	Test string
	// Use is the ordered loader pipeline applied on a match.
	Use []Loader
	// Include, when non-empty, limits the rule to paths under one of
	// these directory prefixes.
	Include []string
	// Exclude lists exact paths carved out of the include set.
	Exclude []string
	// Loaders holds the sub-block pipelines of a composite rule (a
	// single-file component dispatching style and script blocks to the
	// standalone pipelines). The slices are shared with the standalone
	// rules, not copied, so embedded blocks are processed identically.
	Loaders map[string][]Loader

	test *regexp.Regexp
}

// Applies reports whether the rule's matcher and filters accept path.
func (r *Rule) Applies(path string) bool {
	re := r.test
	if re == nil {
		re = regexp.MustCompile(r.Test)
	}
	if !re.MatchString(path) {
		return false
	}
	if len(r.Include) > 0 {
		ok := false
		for _, dir := range r.Include {
			if path == dir || strings.HasPrefix(path, dir+"/") {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	for _, ex := range r.Exclude {
		if path == ex {
			return false
		}
	}
	return true
}

// RuleFor returns the first rule that applies to path, honoring the
// declaration order of the rule list. The second return is false when
// no rule matches.
func (r *Record) RuleFor(path string) (*Rule, bool) {
	for i := range r.Rules {
		if r.Rules[i].Applies(path) {
			return &r.Rules[i], true
		}
	}
	return nil, false
}

// PluginDirective is an opaque, named post-processing instruction. Its
// options are data handed through to the bundler unchanged; this
// package never interprets them.
type PluginDirective struct {
	Name    string         `json:"name"`
	Options map[string]any `json:"options,omitempty"`
}

type recordJSON struct {
	Entry   map[string]string `json:"entry"`
	Output  OutputSpec        `json:"output"`
	Resolve ResolutionSpec    `json:"resolve"`
	Module  moduleJSON        `json:"module"`
	Plugins []PluginDirective `json:"plugins"`
}

type moduleJSON struct {
	Loaders []ruleJSON `json:"loaders"`
}

type ruleJSON struct {
	Test    string            `json:"test"`
	Loader  string            `json:"loader"`
	Include []string          `json:"include,omitempty"`
	Exclude []string          `json:"exclude,omitempty"`
	Loaders map[string]string `json:"loaders,omitempty"`
}

// EncodeJSON writes the record in the external bundler's JSON schema.
// Map keys are emitted sorted, so identical records produce identical
// bytes.
func (r *Record) EncodeJSON(w io.Writer, compact bool) error {
	rules := make([]ruleJSON, len(r.Rules))
	for i, rule := range r.Rules {
		rj := ruleJSON{
			Test:    rule.Test,
			Loader:  chainString(rule.Use),
			Include: rule.Include,
			Exclude: rule.Exclude,
		}
		if len(rule.Loaders) > 0 {
			rj.Loaders = make(map[string]string, len(rule.Loaders))
			for block, chain := range rule.Loaders {
				rj.Loaders[block] = chainString(chain)
			}
		}
		rules[i] = rj
	}

	enc := json.NewEncoder(w)
	if !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(recordJSON{
		Entry:   r.Entry,
		Output:  r.Output,
		Resolve: r.Resolve,
		Module:  moduleJSON{Loaders: rules},
		Plugins: r.Plugins,
	})
}
