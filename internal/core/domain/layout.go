package domain

import (
	"io/fs"
	"path/filepath"
	"time"
)

const (
	// DirPerm is the permission used for directories created by swatch.
	DirPerm fs.FileMode = 0o755
	// FilePerm is the permission used for files created by swatch.
	FilePerm fs.FileMode = 0o644

	// ConfigFileName is the name of the configuration file discovered upward from the cwd.
	ConfigFileName = "swatch.yaml"

	// cacheDirName is the directory under the project root holding the generation manifest.
	cacheDirName = ".swatch"
)

// DefaultManifestPath returns the manifest directory relative to the project root.
func DefaultManifestPath() string {
	return filepath.Join(cacheDirName, "manifest", "v1")
}

// GenerationRecord is one persistent manifest entry: the modification stamps
// observed when a top-level file was last generated. It is consulted before a
// run to skip whole-file regeneration; it never inspects LoadResult contents.
type GenerationRecord struct {
	File         string            `json:"file"`
	ModTime      int64             `json:"mtime"`
	Dependencies []DependencyStamp `json:"dependencies,omitempty"`
	Outputs      []string          `json:"outputs,omitempty"`
	GeneratedAt  time.Time         `json:"generatedAt"`
}

// DependencyStamp records the modification time of one dependency at generation time.
type DependencyStamp struct {
	Path    string `json:"path"`
	ModTime int64  `json:"mtime"`
}
