package ports

import (
	"context"

	"go.trai.ch/swatch/internal/core/domain"
)

// SourceMap maps positions in normalized CSS back to their original files.
// Transformers that relocate text (inlining, compilation) return one so token
// locations can be attributed to the file the text actually came from.
type SourceMap interface {
	// MapBack returns the original file and position for a generated
	// position. ok is false when the position has no mapping, in which case
	// the caller attributes it to the transformed file itself.
	MapBack(pos domain.Position) (domain.FileIdentity, domain.Position, bool)
}

// TransformContext carries the collaborators a transformer may need while
// normalizing a source file.
type TransformContext struct {
	// OriginalLocation is the identity of the file being transformed.
	OriginalLocation domain.FileIdentity
	// Resolver resolves specifiers found in dialect-native inline directives.
	Resolver SpecifierResolver
	// Reader reads files a transformer inlines itself.
	Reader FileReader
}

// TransformResult is the outcome of normalizing one source file.
type TransformResult struct {
	// CSS is the normalized CSS ready for token extraction.
	CSS string
	// SourceMap is optional; nil means positions already refer to the original file.
	SourceMap SourceMap
	// PreBundledDependencies lists files the transformer inlined, in inline
	// order. They are recorded for cache invalidation and reporting only;
	// the loader never re-parses them unless they are also composed from.
	PreBundledDependencies []domain.FileIdentity
}

// SourceTransformer normalizes a raw source file into plain CSS.
//
//go:generate mockgen -source=transformer.go -destination=mocks/mock_transformer.go -package=mocks
type SourceTransformer interface {
	// Transform compiles or normalizes the source. A dialect compiler
	// diagnostic is reported as a domain.ErrTransformFailed chain preserving
	// the underlying message and location.
	Transform(ctx context.Context, source string, tctx TransformContext) (*TransformResult, error)
}
