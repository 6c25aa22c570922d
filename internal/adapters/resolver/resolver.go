// Package resolver maps composition specifiers to canonical file identities.
// It supports relative and absolute paths, alias tables, extra lookup
// directories and node-style package resolution through node_modules.
package resolver

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"go.trai.ch/swatch/internal/core/domain"
	"go.trai.ch/swatch/internal/core/ports"
	"go.trai.ch/zerr"
)

// Options configures a Resolver.
type Options struct {
	// Root is the project root; lookup directories and root-relative alias
	// targets resolve against it.
	Root string
	// Alias rewrites specifier prefixes before resolution; the longest
	// matching prefix wins. Targets may be absolute or root-relative.
	Alias map[string]string
	// LookupDirs are extra root-relative directories bare specifiers are
	// tried in before package resolution.
	LookupDirs []string
	// Extensions is the probe order for extension-less specifiers.
	Extensions []string
	// IgnoreSpecifiers are regexps; matching specifiers resolve to
	// domain.IgnoredIdentity without touching the filesystem.
	IgnoreSpecifiers []string
}

// FromConfig builds Options from the project configuration.
func FromConfig(cfg *domain.Config) Options {
	return Options{
		Root:             cfg.Root,
		Alias:            cfg.Resolve.Alias,
		LookupDirs:       cfg.Resolve.LookupDirs,
		Extensions:       cfg.Extensions(),
		IgnoreSpecifiers: cfg.Resolve.IgnoreSpecifiers,
	}
}

type aliasRule struct {
	prefix string
	target string
}

// Resolver implements ports.SpecifierResolver against the local filesystem.
type Resolver struct {
	root       string
	aliases    []aliasRule
	lookupDirs []string
	extensions []string
	ignored    []*regexp.Regexp
}

// New creates a Resolver. Invalid ignore patterns fail with
// domain.ErrInvalidIgnorePattern.
func New(opts Options) (*Resolver, error) {
	r := &Resolver{
		root:       opts.Root,
		lookupDirs: opts.LookupDirs,
		extensions: opts.Extensions,
	}
	if len(r.extensions) == 0 {
		r.extensions = []string{".css"}
	}

	for prefix, target := range opts.Alias {
		r.aliases = append(r.aliases, aliasRule{prefix: prefix, target: target})
	}
	// Longest prefix wins; equal lengths tie-break lexicographically so
	// resolution is deterministic regardless of map iteration order.
	sort.Slice(r.aliases, func(i, j int) bool {
		a, b := r.aliases[i], r.aliases[j]
		if len(a.prefix) != len(b.prefix) {
			return len(a.prefix) > len(b.prefix)
		}
		return a.prefix < b.prefix
	})

	for _, pattern := range opts.IgnoreSpecifiers {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrInvalidIgnorePattern, ""), "pattern", pattern), "reason", err.Error())
		}
		r.ignored = append(r.ignored, re)
	}

	return r, nil
}

// IsIgnoredSpecifier reports whether the specifier matches the ignore
// predicate. Remote URLs and data URIs are always ignored.
func (r *Resolver) IsIgnoredSpecifier(specifier string) bool {
	if strings.Contains(specifier, "://") || strings.HasPrefix(specifier, "data:") {
		return true
	}
	for _, re := range r.ignored {
		if re.MatchString(specifier) {
			return true
		}
	}
	return false
}

// Resolve maps a specifier to a file identity. It fails with
// domain.ErrNotResolvable when no file can be located.
func (r *Resolver) Resolve(specifier string, ctx ports.ResolveContext) (domain.FileIdentity, error) {
	if r.IsIgnoredSpecifier(specifier) {
		return domain.IgnoredIdentity, nil
	}

	spec := r.applyAlias(specifier)

	var path string
	var ok bool
	switch {
	case filepath.IsAbs(spec):
		path, ok = r.probe(spec)
	case strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../"):
		path, ok = r.probe(filepath.Join(ctx.RequestingFile.Dir(), spec))
	default:
		path, ok = r.resolveBare(spec, ctx.RequestingFile.Dir())
	}
	if !ok {
		err := zerr.With(zerr.Wrap(domain.ErrNotResolvable, ""), "specifier", specifier)
		return domain.FileIdentity{}, zerr.With(err, "file", ctx.RequestingFile.String())
	}

	return domain.NewFileIdentity(path), nil
}

func (r *Resolver) applyAlias(specifier string) string {
	for _, rule := range r.aliases {
		if !strings.HasPrefix(specifier, rule.prefix) {
			continue
		}
		rest := specifier[len(rule.prefix):]
		// A prefix must end at a path boundary: "@ui" must not rewrite "@uikit".
		if rest != "" && !strings.HasPrefix(rest, "/") {
			continue
		}
		target := rule.target
		if !filepath.IsAbs(target) {
			target = filepath.Join(r.root, target)
		}
		return filepath.Join(target, rest)
	}
	return specifier
}

// probe tries the path verbatim, then with each configured extension.
func (r *Resolver) probe(path string) (string, bool) {
	if isFile(path) {
		return path, true
	}
	if filepath.Ext(path) == "" {
		for _, ext := range r.extensions {
			if candidate := path + ext; isFile(candidate) {
				return candidate, true
			}
		}
	}
	return "", false
}

// resolveBare tries the extra lookup directories, then node-style package
// resolution walking node_modules upward from the requesting file.
func (r *Resolver) resolveBare(spec, fromDir string) (string, bool) {
	for _, dir := range r.lookupDirs {
		base := dir
		if !filepath.IsAbs(base) {
			base = filepath.Join(r.root, base)
		}
		if path, ok := r.probe(filepath.Join(base, spec)); ok {
			return path, true
		}
	}

	pkg, subpath := splitPackageSpecifier(spec)
	if pkg == "" {
		return "", false
	}

	for dir := fromDir; ; dir = filepath.Dir(dir) {
		pkgDir := filepath.Join(dir, "node_modules", pkg)
		if isDir(pkgDir) {
			if path, ok := r.resolveInPackage(pkgDir, subpath); ok {
				return path, true
			}
		}
		if dir == filepath.Dir(dir) {
			return "", false
		}
	}
}

// splitPackageSpecifier separates the package name (one segment, two for
// scoped packages) from the subpath.
func splitPackageSpecifier(spec string) (pkg, subpath string) {
	segments := strings.Split(spec, "/")
	nameLen := 1
	if strings.HasPrefix(spec, "@") {
		if len(segments) < 2 {
			return "", ""
		}
		nameLen = 2
	}
	pkg = strings.Join(segments[:nameLen], "/")
	subpath = strings.Join(segments[nameLen:], "/")
	return pkg, subpath
}

// packageManifest is the subset of package.json driving style resolution.
type packageManifest struct {
	Style   string          `json:"style"`
	Main    string          `json:"main"`
	Exports json.RawMessage `json:"exports"`
}

func (r *Resolver) resolveInPackage(pkgDir, subpath string) (string, bool) {
	manifest, err := readPackageManifest(filepath.Join(pkgDir, "package.json"))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", false
	}

	if manifest != nil && len(manifest.Exports) > 0 {
		if target, ok := lookupExports(manifest.Exports, subpath); ok {
			return r.probe(filepath.Join(pkgDir, target))
		}
		// An exports map is exhaustive: unlisted subpaths are not reachable.
		return "", false
	}

	if subpath != "" {
		return r.probe(filepath.Join(pkgDir, subpath))
	}
	if manifest != nil {
		for _, entry := range []string{manifest.Style, manifest.Main} {
			if entry == "" {
				continue
			}
			if path, ok := r.probe(filepath.Join(pkgDir, entry)); ok {
				return path, true
			}
		}
	}
	return r.probe(filepath.Join(pkgDir, "index.css"))
}

func readPackageManifest(path string) (*packageManifest, error) {
	// #nosec G304 -- path is derived from the resolution walk
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var manifest packageManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, zerr.With(errors.Join(domain.ErrPackageManifestInvalid, err), "path", path)
	}
	return &manifest, nil
}

// lookupExports resolves a subpath through a package.json "exports" value,
// which is either a bare target string (for the root subpath only) or a map
// of "./subpath" keys to targets. Conditional targets pick the "style" or
// "default" condition.
func lookupExports(raw json.RawMessage, subpath string) (string, bool) {
	var bare string
	if err := json.Unmarshal(raw, &bare); err == nil {
		if subpath == "" {
			return bare, true
		}
		return "", false
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return "", false
	}
	key := "."
	if subpath != "" {
		key = "./" + subpath
	}
	entry, ok := entries[key]
	if !ok {
		return "", false
	}

	var target string
	if err := json.Unmarshal(entry, &target); err == nil {
		return target, true
	}
	var conditions map[string]string
	if err := json.Unmarshal(entry, &conditions); err != nil {
		return "", false
	}
	for _, condition := range []string{"style", "default"} {
		if t, ok := conditions[condition]; ok {
			return t, true
		}
	}
	return "", false
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
