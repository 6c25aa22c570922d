package ports

import "go.trai.ch/swatch/internal/core/domain"

// EmitOptions controls the shape of the emitted declaration file.
type EmitOptions struct {
	// NamedExports emits one `export const <name>: string` per token instead
	// of a single default-exported object.
	NamedExports bool
	// DeclarationMap emits a .d.ts.map alongside the declaration file.
	DeclarationMap bool
	// OutDir redirects output; empty means alongside the source file.
	OutDir string
	// RootDir is the project root OutDir is relative to.
	RootDir string
}

// Emitter writes declaration files for a load result.
//
//go:generate mockgen -source=emitter.go -destination=mocks/mock_emitter.go -package=mocks
type Emitter interface {
	// Emit writes the declaration file (and, when requested, its source map)
	// for the given top-level file. It returns the paths written, for
	// manifest bookkeeping.
	Emit(file domain.FileIdentity, result *domain.LoadResult, opts EmitOptions) ([]string, error)
}
