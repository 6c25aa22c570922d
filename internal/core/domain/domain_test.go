package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/swatch/internal/core/domain"
)

func TestFileIdentity_Canonicalization(t *testing.T) {
	t.Run("cleans filesystem paths", func(t *testing.T) {
		a := domain.NewFileIdentity("/src/styles/../styles/button.module.css")
		b := domain.NewFileIdentity("/src/styles/button.module.css")
		assert.Equal(t, a, b)
		assert.Equal(t, "/src/styles/button.module.css", a.String())
	})

	t.Run("keeps URIs verbatim", func(t *testing.T) {
		id := domain.NewFileIdentity("https://example.com/a/../b.css")
		assert.Equal(t, "https://example.com/a/../b.css", id.String())
	})

	t.Run("identities are comparable by value", func(t *testing.T) {
		set := map[domain.FileIdentity]int{}
		set[domain.NewFileIdentity("/a/b.css")] = 1
		set[domain.NewFileIdentity("/a/./b.css")] = 2
		assert.Len(t, set, 1)
	})

	t.Run("ignored sentinel", func(t *testing.T) {
		assert.True(t, domain.IgnoredIdentity.IsIgnored())
		assert.False(t, domain.NewFileIdentity("/a.css").IsIgnored())
		assert.True(t, domain.FileIdentity{}.IsZero())
	})

	t.Run("dir and ext", func(t *testing.T) {
		id := domain.NewFileIdentity("/src/button.module.scss")
		assert.Equal(t, "/src", id.Dir())
		assert.Equal(t, ".scss", id.Ext())
	})
}

func TestSourceLocation_Key(t *testing.T) {
	file := domain.NewFileIdentity("/a.css")
	l1 := domain.SourceLocation{File: file, Start: domain.Position{Line: 1, Column: 1}, End: domain.Position{Line: 1, Column: 3}}
	l2 := domain.SourceLocation{File: file, Start: domain.Position{Line: 1, Column: 1}, End: domain.Position{Line: 1, Column: 3}}
	l3 := domain.SourceLocation{File: file, Start: domain.Position{Line: 2, Column: 1}, End: domain.Position{Line: 2, Column: 3}}

	assert.Equal(t, l1.Key(), l2.Key())
	assert.NotEqual(t, l1.Key(), l3.Key())
}

func TestLoadResult_Clone(t *testing.T) {
	file := domain.NewFileIdentity("/a.css")
	original := &domain.LoadResult{
		Tokens: []domain.Token{{
			Name: "a",
			OriginalLocations: []domain.SourceLocation{
				{File: file, Start: domain.Position{Line: 1, Column: 1}, End: domain.Position{Line: 1, Column: 3}},
			},
		}},
		Dependencies: []domain.FileIdentity{domain.NewFileIdentity("/b.css")},
	}

	clone := original.Clone()
	require.Equal(t, original, clone)

	// Mutating the clone must not leak into the original.
	clone.Tokens[0].OriginalLocations[0].Start.Line = 99
	clone.Dependencies[0] = domain.NewFileIdentity("/c.css")
	assert.Equal(t, 1, original.Tokens[0].OriginalLocations[0].Start.Line)
	assert.Equal(t, "/b.css", original.Dependencies[0].String())
}

func TestIdentitySet(t *testing.T) {
	set := domain.NewIdentitySet()
	set.Add(domain.NewFileIdentity("/b.css"))
	set.Add(domain.NewFileIdentity("/a.css"))
	set.Add(domain.NewFileIdentity("/a.css"))
	set.Add(domain.IgnoredIdentity)
	set.Add(domain.FileIdentity{})

	sorted := set.Sorted()
	require.Len(t, sorted, 2)
	assert.Equal(t, "/a.css", sorted[0].String())
	assert.Equal(t, "/b.css", sorted[1].String())

	assert.True(t, set.Contains(domain.NewFileIdentity("/a.css")))
	set.Remove(domain.NewFileIdentity("/a.css"))
	assert.False(t, set.Contains(domain.NewFileIdentity("/a.css")))
}

func TestComposesReference_IsLocal(t *testing.T) {
	assert.True(t, domain.ComposesReference{Recipient: "a", TokenNames: []string{"b"}}.IsLocal())
	assert.False(t, domain.ComposesReference{Recipient: "a", TokenNames: []string{"b"}, Specifier: "./x.css"}.IsLocal())
}
