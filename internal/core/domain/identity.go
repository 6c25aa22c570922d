// Package domain contains the core domain models for the token dependency graph.
package domain

import (
	"path/filepath"
	"strings"
	"unique"
)

// FileIdentity is the canonical identity of a style-sheet file.
// It wraps a unique.Handle[string] so that identities are interned and
// comparable by value; two identities that canonicalize to the same string
// denote the same file for caching and merging purposes.
type FileIdentity struct {
	h unique.Handle[string]
}

// IgnoredIdentity is the sentinel identity returned by a resolver for
// specifiers matching the host-supplied ignore predicate. The loader treats
// it as an empty, dependency-free file and never performs I/O for it.
var IgnoredIdentity = FileIdentity{h: unique.Make("swatch:ignored")}

// NewFileIdentity canonicalizes the given absolute path or URI and returns
// its interned identity. URIs (anything carrying a scheme) are kept verbatim;
// filesystem paths are cleaned.
func NewFileIdentity(s string) FileIdentity {
	if !hasScheme(s) {
		s = filepath.Clean(s)
	}
	return FileIdentity{h: unique.Make(s)}
}

// NewFileIdentities canonicalizes and interns a slice of paths or URIs.
func NewFileIdentities(ss []string) []FileIdentity {
	ids := make([]FileIdentity, len(ss))
	for i, s := range ss {
		ids[i] = NewFileIdentity(s)
	}
	return ids
}

// String returns the canonical string of the identity.
func (id FileIdentity) String() string {
	return id.h.Value()
}

// IsZero reports whether the identity is the zero value.
func (id FileIdentity) IsZero() bool {
	return id == FileIdentity{}
}

// IsIgnored reports whether the identity is the ignored sentinel.
func (id FileIdentity) IsIgnored() bool {
	return id == IgnoredIdentity
}

// Dir returns the directory portion of a path identity.
func (id FileIdentity) Dir() string {
	return filepath.Dir(id.h.Value())
}

// Ext returns the file extension of the identity, including the dot.
func (id FileIdentity) Ext() string {
	return filepath.Ext(id.h.Value())
}

// MarshalText implements encoding.TextMarshaler.
func (id FileIdentity) MarshalText() ([]byte, error) {
	return []byte(id.h.Value()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *FileIdentity) UnmarshalText(text []byte) error {
	*id = NewFileIdentity(string(text))
	return nil
}

// hasScheme reports whether s looks like a URI rather than a filesystem path.
// A scheme is an alpha character followed by alphanumerics and a colon, per
// RFC 3986. Single-letter prefixes are excluded so Windows drive paths are
// treated as paths.
func hasScheme(s string) bool {
	i := strings.IndexByte(s, ':')
	if i < 2 {
		return false
	}
	for j, r := range s[:i] {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case j > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}
