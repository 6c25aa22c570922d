package domain

import "fmt"

// Position is a 1-based line/column position within a source file.
type Position struct {
	Line   int
	Column int
}

// String returns the position as "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// SourceLocation identifies a span of text in a source file.
// Start is inclusive and End is exclusive; both are 1-based.
type SourceLocation struct {
	File  FileIdentity
	Start Position
	End   Position
}

// Key returns the deduplication key of the location: two locations with the
// same file, start and end collapse into one.
func (l SourceLocation) Key() string {
	return fmt.Sprintf("%s:%s-%s", l.File.String(), l.Start, l.End)
}

// Token is an exported class token together with every source location that
// contributed to its identity, in merge order.
type Token struct {
	Name              string
	OriginalLocations []SourceLocation
}

// Clone returns a deep copy of the token.
func (t Token) Clone() Token {
	locs := make([]SourceLocation, len(t.OriginalLocations))
	copy(locs, t.OriginalLocations)
	return Token{Name: t.Name, OriginalLocations: locs}
}

// RawToken is a class token as found by the extractor: a name and the span of
// its selector in the normalized CSS. The file is not known to the extractor;
// the loader attributes the span to an identity (directly or through a source
// map).
type RawToken struct {
	Name  string
	Start Position
	End   Position
}

// ComposesReference is a single composition declaration in document order.
// Recipient names the local token whose rule carries the declaration. A rule
// whose selector defines several tokens yields one reference per recipient.
// An empty Specifier means the composed names are looked up locally.
type ComposesReference struct {
	Recipient  string
	TokenNames []string
	Specifier  string
}

// IsLocal reports whether the reference targets the current file.
func (r ComposesReference) IsLocal() bool {
	return r.Specifier == ""
}

// Extraction is the result of scanning one normalized CSS document: the local
// tokens and composition references, both in document order.
type Extraction struct {
	Tokens   []RawToken
	Composes []ComposesReference
}
