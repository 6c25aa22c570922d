package loader

import (
	"go.trai.ch/swatch/internal/core/domain"
	"go.trai.ch/swatch/internal/core/ports"
)

// mergedToken accumulates a token's provenance during the merge. Composed
// locations always precede the token's own declaration locations; within the
// composed part, references contribute in document order.
type mergedToken struct {
	name     string
	composed []domain.SourceLocation
	own      []domain.SourceLocation
}

func (t *mergedToken) effective() []domain.SourceLocation {
	locs := make([]domain.SourceLocation, 0, len(t.composed)+len(t.own))
	locs = append(locs, t.composed...)
	locs = append(locs, t.own...)
	return locs
}

// merger applies composition references to the locally declared tokens,
// preserving first-declared order and propagating chained compositions.
type merger struct {
	order []*mergedToken
	index map[string]*mergedToken
}

// newMerger collapses the raw extractor occurrences into unique tokens in
// first-declared order, attributing each occurrence through the optional
// source map.
func newMerger(file domain.FileIdentity, sm ports.SourceMap, raw []domain.RawToken) *merger {
	m := &merger{index: make(map[string]*mergedToken, len(raw))}
	for _, rt := range raw {
		t, ok := m.index[rt.Name]
		if !ok {
			t = &mergedToken{name: rt.Name}
			m.index[rt.Name] = t
			m.order = append(m.order, t)
		}
		t.own = append(t.own, locate(file, sm, rt))
	}
	return m
}

// locate attributes a raw token span to its original file and position.
func locate(file domain.FileIdentity, sm ports.SourceMap, rt domain.RawToken) domain.SourceLocation {
	if sm == nil {
		return domain.SourceLocation{File: file, Start: rt.Start, End: rt.End}
	}
	origFile, origStart, ok := sm.MapBack(rt.Start)
	if !ok {
		return domain.SourceLocation{File: file, Start: rt.Start, End: rt.End}
	}
	// Token spans never cross lines, so the end shifts with the start.
	end := domain.Position{
		Line:   origStart.Line + (rt.End.Line - rt.Start.Line),
		Column: origStart.Column + (rt.End.Column - rt.Start.Column),
	}
	if rt.End.Line != rt.Start.Line {
		end.Column = rt.End.Column
	}
	return domain.SourceLocation{File: origFile, Start: origStart, End: end}
}

// composeLocal merges a same-file composition. A missing composed name is
// skipped, never an error. Lookups read the source token's current effective
// locations, so chains propagate in document order.
func (m *merger) composeLocal(ref domain.ComposesReference) {
	recipient, ok := m.index[ref.Recipient]
	if !ok {
		return
	}
	for _, name := range ref.TokenNames {
		src, ok := m.index[name]
		if !ok || src == recipient {
			continue
		}
		recipient.composed = append(recipient.composed, src.effective()...)
	}
}

// composeExternal merges a composition from another file's load result. A
// name absent from the resolved file is skipped for compatibility with
// upstream CSS-modules tooling.
func (m *merger) composeExternal(ref domain.ComposesReference, result *domain.LoadResult) {
	recipient, ok := m.index[ref.Recipient]
	if !ok || result == nil {
		return
	}
	for _, name := range ref.TokenNames {
		token, ok := result.Lookup(name)
		if !ok {
			continue
		}
		recipient.composed = append(recipient.composed, token.OriginalLocations...)
	}
}

// tokens assembles the final token list: first-declared-then-merged order,
// locations deduplicated by (file, start, end) preserving first-seen order.
func (m *merger) tokens() []domain.Token {
	out := make([]domain.Token, 0, len(m.order))
	for _, t := range m.order {
		out = append(out, domain.Token{
			Name:              t.name,
			OriginalLocations: dedupeLocations(t.effective()),
		})
	}
	return out
}

func dedupeLocations(locs []domain.SourceLocation) []domain.SourceLocation {
	seen := make(map[string]bool, len(locs))
	out := make([]domain.SourceLocation, 0, len(locs))
	for _, loc := range locs {
		key := loc.Key()
		if !seen[key] {
			seen[key] = true
			out = append(out, loc)
		}
	}
	return out
}
