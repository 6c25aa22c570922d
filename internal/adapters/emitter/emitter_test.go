package emitter_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/swatch/internal/adapters/emitter"
	"go.trai.ch/swatch/internal/core/domain"
	"go.trai.ch/swatch/internal/core/ports"
)

func token(name string, file string, line, col int) domain.Token {
	return domain.Token{
		Name: name,
		OriginalLocations: []domain.SourceLocation{{
			File:  domain.NewFileIdentity(file),
			Start: domain.Position{Line: line, Column: col},
			End:   domain.Position{Line: line, Column: col + len(name) + 1},
		}},
	}
}

func TestEmitter_Emit(t *testing.T) {
	t.Run("default export with declaration map", func(t *testing.T) {
		tmpDir := t.TempDir()
		source := filepath.Join(tmpDir, "button.module.css")
		result := &domain.LoadResult{Tokens: []domain.Token{
			token("primary", source, 1, 1),
			token("secondary", source, 2, 1),
		}}

		written, err := emitter.New().Emit(domain.NewFileIdentity(source), result, ports.EmitOptions{DeclarationMap: true})
		require.NoError(t, err)
		require.Equal(t, []string{
			filepath.Join(tmpDir, "button.module.css.d.ts"),
			filepath.Join(tmpDir, "button.module.css.d.ts.map"),
		}, written)

		g := goldie.New(t)
		declaration, err := os.ReadFile(written[0])
		require.NoError(t, err)
		g.Assert(t, "default_export", declaration)

		sourceMap, err := os.ReadFile(written[1])
		require.NoError(t, err)
		g.Assert(t, "declaration_map", sourceMap)
	})

	t.Run("named exports skip names that are not identifiers", func(t *testing.T) {
		tmpDir := t.TempDir()
		source := filepath.Join(tmpDir, "button.module.css")
		result := &domain.LoadResult{Tokens: []domain.Token{
			token("primary", source, 1, 1),
			token("with-dashes", source, 2, 1),
			token("secondary", source, 3, 1),
		}}

		written, err := emitter.New().Emit(domain.NewFileIdentity(source), result, ports.EmitOptions{NamedExports: true})
		require.NoError(t, err)
		require.Len(t, written, 1)

		declaration, err := os.ReadFile(written[0])
		require.NoError(t, err)
		goldie.New(t).Assert(t, "named_exports", declaration)
	})

	t.Run("composed tokens map back to the file they came from", func(t *testing.T) {
		tmpDir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "src"), domain.DirPerm))
		source := filepath.Join(tmpDir, "src", "button.module.css")
		shared := filepath.Join(tmpDir, "shared", "base.module.css")
		result := &domain.LoadResult{Tokens: []domain.Token{
			token("base", shared, 4, 1),
			token("primary", source, 1, 1),
		}}

		written, err := emitter.New().Emit(domain.NewFileIdentity(source), result, ports.EmitOptions{DeclarationMap: true})
		require.NoError(t, err)

		data, err := os.ReadFile(written[1])
		require.NoError(t, err)
		var m struct {
			Version  int      `json:"version"`
			File     string   `json:"file"`
			Sources  []string `json:"sources"`
			Names    []string `json:"names"`
			Mappings string   `json:"mappings"`
		}
		require.NoError(t, json.Unmarshal(data, &m))
		assert.Equal(t, 3, m.Version)
		assert.Equal(t, "button.module.css.d.ts", m.File)
		assert.Equal(t, []string{"button.module.css", "../shared/base.module.css"}, m.Sources)
		assert.Equal(t, []string{"base", "primary"}, m.Names)
		assert.NotEmpty(t, m.Mappings)
	})

	t.Run("outDir mirrors the source tree under the project root", func(t *testing.T) {
		tmpDir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "src", "components"), domain.DirPerm))
		source := filepath.Join(tmpDir, "src", "components", "card.module.css")
		result := &domain.LoadResult{Tokens: []domain.Token{token("card", source, 1, 1)}}

		written, err := emitter.New().Emit(domain.NewFileIdentity(source), result, ports.EmitOptions{
			OutDir:  "types",
			RootDir: tmpDir,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(tmpDir, "types", "src", "components", "card.module.css.d.ts"),
		}, written)
		assert.FileExists(t, written[0])
	})

	t.Run("source outside the root cannot be mirrored", func(t *testing.T) {
		tmpDir := t.TempDir()
		source := filepath.Join(tmpDir, "card.module.css")
		result := &domain.LoadResult{}

		_, err := emitter.New().Emit(domain.NewFileIdentity(source), result, ports.EmitOptions{
			OutDir:  "types",
			RootDir: filepath.Join(tmpDir, "elsewhere"),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrEmitFailed)
	})

	t.Run("empty result emits an empty declaration object", func(t *testing.T) {
		tmpDir := t.TempDir()
		source := filepath.Join(tmpDir, "empty.module.css")

		written, err := emitter.New().Emit(domain.NewFileIdentity(source), &domain.LoadResult{}, ports.EmitOptions{})
		require.NoError(t, err)

		declaration, err := os.ReadFile(written[0])
		require.NoError(t, err)
		assert.Equal(t, "declare const styles: {\n};\nexport default styles;\n", string(declaration))
	})
}
