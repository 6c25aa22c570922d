package transformer

import (
	"context"

	"go.trai.ch/swatch/internal/core/domain"
	"go.trai.ch/swatch/internal/core/ports"
)

// Registry dispatches transformation by file extension: configured dialects
// are compiled first, then the result (like plain CSS) runs through the
// @import inliner. Unknown extensions pass through the inliner only.
type Registry struct {
	dialects map[string]ports.SourceTransformer
	css      *CSS
}

// NewRegistry creates a Registry from the configured dialect commands.
func NewRegistry(dialects map[string]domain.Dialect, logger ports.Logger) *Registry {
	r := &Registry{
		dialects: make(map[string]ports.SourceTransformer, len(dialects)),
		css:      NewCSS(),
	}
	for ext, dialect := range dialects {
		r.dialects[ext] = NewCommand(dialect.Command, logger)
	}
	return r
}

// Transform normalizes the source according to the file's extension.
func (r *Registry) Transform(ctx context.Context, source string, tctx ports.TransformContext) (*ports.TransformResult, error) {
	dialect, ok := r.dialects[tctx.OriginalLocation.Ext()]
	if !ok {
		return r.css.Transform(ctx, source, tctx)
	}

	compiled, err := dialect.Transform(ctx, source, tctx)
	if err != nil {
		return nil, err
	}

	inlined, err := r.css.Transform(ctx, compiled.CSS, tctx)
	if err != nil {
		return nil, err
	}

	// Compiled dialects lose line fidelity to the original source, so the
	// inliner's map (which would point into compiler output) is dropped;
	// locations attribute to the dialect file itself.
	return &ports.TransformResult{
		CSS:                    inlined.CSS,
		PreBundledDependencies: append(compiled.PreBundledDependencies, inlined.PreBundledDependencies...),
	}, nil
}
