package domain

import "slices"

// Config is the validated project configuration loaded from swatch.yaml.
type Config struct {
	// Root is the absolute project root all patterns and paths resolve
	// against. It defaults to the directory containing the config file.
	Root string
	// Patterns are the doublestar globs selecting top-level style sheets.
	Patterns []string
	// Ignore are doublestar globs excluding files matched by Patterns.
	Ignore []string

	Output  OutputConfig
	Resolve ResolveConfig
	// Dialects maps file extensions (with leading dot) to the compiler
	// invocation normalizing that dialect to plain CSS. Extensions without
	// an entry pass through untransformed except for @import inlining.
	Dialects map[string]Dialect
}

// OutputConfig controls declaration emission.
type OutputConfig struct {
	// OutDir mirrors generated declarations into a separate tree instead of
	// placing them next to their sources. Empty means alongside.
	OutDir string
	// NamedExports emits one named constant per token instead of a single
	// default-export object literal.
	NamedExports bool
	// DeclarationMap emits a .d.ts.map next to each declaration file.
	DeclarationMap bool
}

// ResolveConfig controls specifier resolution.
type ResolveConfig struct {
	// Alias rewrites specifier prefixes; the longest matching prefix wins.
	Alias map[string]string
	// LookupDirs are extra root-relative directories bare specifiers are
	// tried in before package resolution.
	LookupDirs []string
	// IgnoreSpecifiers are regular expressions; matching specifiers resolve
	// to IgnoredIdentity without touching the filesystem.
	IgnoreSpecifiers []string
}

// Dialect is one configured dialect compiler.
type Dialect struct {
	// Command is the argv invoked with the source on stdin and plain CSS
	// expected on stdout.
	Command []string
}

// DefaultPatterns selects the conventional CSS-module naming scheme.
var DefaultPatterns = []string{"**/*.module.css"}

// Extensions returns the set of resolvable source extensions: ".css" plus
// every configured dialect extension, in deterministic probe order.
func (c *Config) Extensions() []string {
	exts := []string{".css"}
	for ext := range c.Dialects {
		if ext != ".css" {
			exts = append(exts, ext)
		}
	}
	slices.Sort(exts[1:])
	return exts
}
