// Package emitter writes TypeScript declaration files (and their source
// maps) for loaded style sheets.
package emitter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.trai.ch/swatch/internal/core/domain"
	"go.trai.ch/swatch/internal/core/ports"
	"go.trai.ch/zerr"
)

// identifierRe matches token names usable as TypeScript identifiers.
var identifierRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Emitter writes .d.ts and .d.ts.map files.
type Emitter struct{}

// New creates an Emitter.
func New() *Emitter {
	return &Emitter{}
}

// Emit writes the declaration for file into opts.OutDir (or next to the
// source) and returns every path written.
func (e *Emitter) Emit(file domain.FileIdentity, result *domain.LoadResult, opts ports.EmitOptions) ([]string, error) {
	dtsPath, err := declarationPath(file, opts)
	if err != nil {
		return nil, err
	}
	mapName := filepath.Base(dtsPath) + ".map"

	declaration, entries := renderDeclaration(filepath.Base(file.String()), result.Tokens, opts.NamedExports)
	if opts.DeclarationMap {
		declaration += "//# sourceMappingURL=" + mapName + "\n"
	}

	if err := os.MkdirAll(filepath.Dir(dtsPath), domain.DirPerm); err != nil {
		return nil, wrapEmit(err, dtsPath)
	}
	if err := os.WriteFile(dtsPath, []byte(declaration), domain.FilePerm); err != nil {
		return nil, wrapEmit(err, dtsPath)
	}
	written := []string{dtsPath}

	if opts.DeclarationMap {
		mapPath := dtsPath + ".map"
		sourceMap, err := renderSourceMap(dtsPath, file, entries)
		if err != nil {
			return nil, wrapEmit(err, mapPath)
		}
		if err := os.WriteFile(mapPath, sourceMap, domain.FilePerm); err != nil {
			return nil, wrapEmit(err, mapPath)
		}
		written = append(written, mapPath)
	}

	return written, nil
}

func wrapEmit(err error, path string) error {
	return zerr.With(errors.Join(domain.ErrEmitFailed, err), "path", path)
}

// declarationPath computes the .d.ts path: alongside the source by default,
// mirrored under OutDir when configured.
func declarationPath(file domain.FileIdentity, opts ports.EmitOptions) (string, error) {
	name := filepath.Base(file.String()) + ".d.ts"
	if opts.OutDir == "" {
		return filepath.Join(file.Dir(), name), nil
	}

	rel, err := filepath.Rel(opts.RootDir, file.Dir())
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", zerr.With(zerr.With(zerr.Wrap(domain.ErrEmitFailed, ""), "file", file.String()), "reason", "file is outside the project root")
	}
	outDir := opts.OutDir
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(opts.RootDir, outDir)
	}
	return filepath.Join(outDir, rel, name), nil
}

// tokenEntry records where a token landed in the declaration, for mapping.
type tokenEntry struct {
	name string
	// line and column are 1-based positions of the name in the declaration.
	line, column int
	origin       domain.SourceLocation
}

// renderDeclaration builds the .d.ts content and the mapping entries for
// every emitted token. In named-exports mode token names that are not valid
// identifiers cannot be expressed and are skipped.
func renderDeclaration(sourceName string, tokens []domain.Token, namedExports bool) (string, []tokenEntry) {
	var b strings.Builder
	var entries []tokenEntry

	if namedExports {
		line := 1
		for _, token := range tokens {
			if !identifierRe.MatchString(token.Name) {
				continue
			}
			entries = append(entries, tokenEntry{
				name:   token.Name,
				line:   line,
				column: len("export const ") + 1,
				origin: firstLocation(token),
			})
			fmt.Fprintf(&b, "export const %s: string;\n", token.Name)
			line++
		}
		return b.String(), entries
	}

	b.WriteString("declare const styles: {\n")
	for i, token := range tokens {
		entries = append(entries, tokenEntry{
			name:   token.Name,
			line:   i + 2,
			column: len("  readonly ") + 1,
			origin: firstLocation(token),
		})
		fmt.Fprintf(&b, "  readonly %q: string;\n", token.Name)
	}
	b.WriteString("};\n")
	b.WriteString("export default styles;\n")
	return b.String(), entries
}

func firstLocation(token domain.Token) domain.SourceLocation {
	if len(token.OriginalLocations) == 0 {
		return domain.SourceLocation{}
	}
	return token.OriginalLocations[0]
}
