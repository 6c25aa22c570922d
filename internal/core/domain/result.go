package domain

import "slices"

// LoadResult is the outcome of loading one file and its composition graph.
// Tokens are in first-declared-then-merged order. Dependencies is the full
// transitive closure of files the result was assembled from, excluding the
// file itself; it has set semantics and is held sorted for determinism.
type LoadResult struct {
	Tokens       []Token
	Dependencies []FileIdentity
}

// Clone returns a deep copy so callers can never mutate a cached result.
func (r *LoadResult) Clone() *LoadResult {
	if r == nil {
		return nil
	}
	out := &LoadResult{
		Tokens:       make([]Token, len(r.Tokens)),
		Dependencies: slices.Clone(r.Dependencies),
	}
	for i, t := range r.Tokens {
		out.Tokens[i] = t.Clone()
	}
	return out
}

// TokenNames returns the exported token names in result order.
func (r *LoadResult) TokenNames() []string {
	names := make([]string, len(r.Tokens))
	for i, t := range r.Tokens {
		names[i] = t.Name
	}
	return names
}

// Lookup returns the token with the given name, if present.
func (r *LoadResult) Lookup(name string) (Token, bool) {
	for _, t := range r.Tokens {
		if t.Name == name {
			return t, true
		}
	}
	return Token{}, false
}

// IdentitySet collects file identities with set semantics.
type IdentitySet map[FileIdentity]struct{}

// NewIdentitySet creates a set holding the given identities.
func NewIdentitySet(ids ...FileIdentity) IdentitySet {
	s := make(IdentitySet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts an identity. Zero and ignored identities are never recorded.
func (s IdentitySet) Add(id FileIdentity) {
	if id.IsZero() || id.IsIgnored() {
		return
	}
	s[id] = struct{}{}
}

// AddAll inserts every identity of the given slice.
func (s IdentitySet) AddAll(ids []FileIdentity) {
	for _, id := range ids {
		s.Add(id)
	}
}

// Contains reports whether the identity is in the set.
func (s IdentitySet) Contains(id FileIdentity) bool {
	_, ok := s[id]
	return ok
}

// Remove deletes an identity from the set.
func (s IdentitySet) Remove(id FileIdentity) {
	delete(s, id)
}

// Sorted returns the set as a slice sorted by canonical string.
func (s IdentitySet) Sorted() []FileIdentity {
	out := make([]FileIdentity, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.SortFunc(out, func(a, b FileIdentity) int {
		switch {
		case a.String() < b.String():
			return -1
		case a.String() > b.String():
			return 1
		default:
			return 0
		}
	})
	return out
}
