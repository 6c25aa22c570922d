// Package transformer normalizes raw style-sheet sources into plain CSS
// ahead of token extraction: the CSS transformer inlines @import statements,
// the Command transformer shells out to configured dialect compilers, and the
// Registry dispatches per file extension.
package transformer

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"go.trai.ch/swatch/internal/core/domain"
	"go.trai.ch/swatch/internal/core/ports"
	"go.trai.ch/zerr"
)

// importRe matches a whole-line plain @import statement. Imports carrying
// media queries or layer conditions stay untouched.
var importRe = regexp.MustCompile(`^\s*@import\s+(?:url\(\s*)?["']([^"']+)["']\s*\)?\s*;\s*$`)

// CSS inlines @import statements so extraction sees one flat file. Inlined
// files are recorded as pre-bundled dependencies in inline order and every
// output line keeps a mapping back to the file and line it came from.
type CSS struct{}

// NewCSS creates the plain-CSS transformer.
func NewCSS() *CSS {
	return &CSS{}
}

// lineOrigin records where one output line originated.
type lineOrigin struct {
	file domain.FileIdentity
	line int
}

// lineSourceMap implements ports.SourceMap with line granularity: inlining
// moves whole lines, never reflows within a line, so columns carry over.
type lineSourceMap struct {
	lines []lineOrigin
}

func (m *lineSourceMap) MapBack(pos domain.Position) (domain.FileIdentity, domain.Position, bool) {
	if pos.Line < 1 || pos.Line > len(m.lines) {
		return domain.FileIdentity{}, domain.Position{}, false
	}
	origin := m.lines[pos.Line-1]
	return origin.file, domain.Position{Line: origin.line, Column: pos.Column}, true
}

// Transform inlines @import statements recursively. A file inlined once is
// dropped from later occurrences so diamond-shaped import graphs collapse.
func (t *CSS) Transform(ctx context.Context, source string, tctx ports.TransformContext) (*ports.TransformResult, error) {
	visited := map[domain.FileIdentity]bool{tctx.OriginalLocation: true}

	state := &inlineState{ctx: ctx, tctx: tctx, visited: visited}
	if err := state.inline(tctx.OriginalLocation, source); err != nil {
		return nil, err
	}

	result := &ports.TransformResult{
		CSS:                    strings.Join(state.lines, "\n"),
		PreBundledDependencies: state.deps,
	}
	if state.inlined {
		result.SourceMap = &lineSourceMap{lines: state.origins}
	}
	return result, nil
}

type inlineState struct {
	ctx     context.Context
	tctx    ports.TransformContext
	visited map[domain.FileIdentity]bool

	lines   []string
	origins []lineOrigin
	deps    []domain.FileIdentity
	inlined bool
}

func (s *inlineState) inline(file domain.FileIdentity, source string) error {
	for i, line := range strings.Split(source, "\n") {
		m := importRe.FindStringSubmatch(line)
		if m == nil {
			s.lines = append(s.lines, line)
			s.origins = append(s.origins, lineOrigin{file: file, line: i + 1})
			continue
		}
		specifier := m[1]

		if s.tctx.Resolver == nil || s.tctx.Resolver.IsIgnoredSpecifier(specifier) {
			s.lines = append(s.lines, line)
			s.origins = append(s.origins, lineOrigin{file: file, line: i + 1})
			continue
		}

		resolved, err := s.tctx.Resolver.Resolve(specifier, ports.ResolveContext{RequestingFile: file})
		if err != nil {
			err = zerr.With(errors.Join(domain.ErrTransformFailed, err), "specifier", specifier)
			return zerr.With(err, "file", file.String())
		}
		if resolved.IsIgnored() {
			s.lines = append(s.lines, line)
			s.origins = append(s.origins, lineOrigin{file: file, line: i + 1})
			continue
		}
		if s.visited[resolved] {
			// Already inlined further up; drop the duplicate statement but
			// keep line accounting intact with an empty line.
			s.lines = append(s.lines, "")
			s.origins = append(s.origins, lineOrigin{file: file, line: i + 1})
			continue
		}
		s.visited[resolved] = true
		s.deps = append(s.deps, resolved)
		s.inlined = true

		content, err := s.tctx.Reader.Read(s.ctx, resolved)
		if err != nil {
			err = zerr.With(errors.Join(domain.ErrTransformFailed, err), "specifier", specifier)
			return zerr.With(err, "file", file.String())
		}
		if err := s.inline(resolved, content); err != nil {
			return err
		}
	}
	return nil
}
