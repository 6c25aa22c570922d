package fs

import (
	"io/fs"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/swatch/internal/core/domain"
	"go.trai.ch/zerr"
)

// skipDirs are directory names never descended into while locating files.
var skipDirs = map[string]bool{
	".git":         true,
	".jj":          true,
	".swatch":      true,
	"node_modules": true,
}

// Locator walks a project root and matches files against doublestar globs.
type Locator struct{}

// NewLocator creates a pattern locator.
func NewLocator() *Locator {
	return &Locator{}
}

// Locate returns every file under root matching one of the patterns and none
// of the ignore patterns, sorted by path. Patterns are matched against
// slash-separated paths relative to root.
func (l *Locator) Locate(root string, patterns, ignore []string) ([]domain.FileIdentity, error) {
	for _, pat := range append(slices.Clone(patterns), ignore...) {
		if !doublestar.ValidatePattern(pat) {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidIgnorePattern, ""), "pattern", pat)
		}
	}

	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if !matchesAny(patterns, rel) || matchesAny(ignore, rel) {
			return nil
		}
		found = append(found, path)
		return nil
	})
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "walk project root"), "root", root)
	}

	slices.Sort(found)
	return domain.NewFileIdentities(found), nil
}

func matchesAny(patterns []string, rel string) bool {
	for _, pat := range patterns {
		// Patterns were validated up front; Match cannot fail here.
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
	}
	return false
}
