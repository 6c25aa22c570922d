// Package ports defines the core interfaces for the application.
package ports

import "go.trai.ch/swatch/internal/core/domain"

// ResolveContext carries the context of a resolution request.
type ResolveContext struct {
	// RequestingFile is the identity of the file the specifier was written in.
	RequestingFile domain.FileIdentity
}

// IgnoredPredicate reports whether a specifier must be ignored entirely
// (for example remote URLs). Resolvers short-circuit to
// domain.IgnoredIdentity for matching specifiers without performing I/O.
type IgnoredPredicate func(specifier string) bool

// SpecifierResolver resolves a specifier string to a canonical file identity.
//
//go:generate mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type SpecifierResolver interface {
	// Resolve maps a specifier to a file identity. Specifiers matching the
	// host-supplied ignore predicate resolve to domain.IgnoredIdentity
	// without touching the filesystem. It fails with domain.ErrNotResolvable
	// when no file can be located.
	Resolve(specifier string, ctx ResolveContext) (domain.FileIdentity, error)

	// IsIgnoredSpecifier reports whether the specifier matches the ignore predicate.
	IsIgnoredSpecifier(specifier string) bool
}
