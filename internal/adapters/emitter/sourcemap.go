package emitter

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"go.trai.ch/swatch/internal/core/domain"
	"go.trai.ch/zerr"
)

// sourceMapV3 is the source map v3 wire format.
type sourceMapV3 struct {
	Version    int      `json:"version"`
	File       string   `json:"file"`
	SourceRoot string   `json:"sourceRoot"`
	Sources    []string `json:"sources"`
	Names      []string `json:"names"`
	Mappings   string   `json:"mappings"`
}

// renderSourceMap builds a v3 source map pointing each emitted token name at
// its first original location. Paths in sources are relative to the
// declaration file's directory.
func renderSourceMap(dtsPath string, file domain.FileIdentity, entries []tokenEntry) ([]byte, error) {
	dir := filepath.Dir(dtsPath)

	var sources []string
	sourceIdx := make(map[domain.FileIdentity]int)
	addSource := func(f domain.FileIdentity) (int, error) {
		if idx, ok := sourceIdx[f]; ok {
			return idx, nil
		}
		rel, err := filepath.Rel(dir, f.String())
		if err != nil {
			return 0, zerr.With(zerr.Wrap(err, "relativize source path"), "source", f.String())
		}
		sourceIdx[f] = len(sources)
		sources = append(sources, filepath.ToSlash(rel))
		return sourceIdx[f], nil
	}
	// The mapped file is always sources[0], even when every token was
	// composed from elsewhere.
	if _, err := addSource(file); err != nil {
		return nil, err
	}

	var names []string
	nameIdx := make(map[string]int)
	addName := func(name string) int {
		if idx, ok := nameIdx[name]; ok {
			return idx
		}
		nameIdx[name] = len(names)
		names = append(names, name)
		return nameIdx[name]
	}

	var mappings strings.Builder
	genLine := 1
	prev := [4]int{} // source, original line, original column, name (running deltas)
	for _, entry := range entries {
		if entry.origin.File.IsZero() {
			continue
		}
		for genLine < entry.line {
			mappings.WriteByte(';')
			genLine++
		}

		src, err := addSource(entry.origin.File)
		if err != nil {
			return nil, err
		}
		name := addName(entry.name)

		// One segment per line, so the generated column is absolute.
		encodeVLQ(&mappings, entry.column-1)
		encodeVLQ(&mappings, src-prev[0])
		encodeVLQ(&mappings, entry.origin.Start.Line-1-prev[1])
		encodeVLQ(&mappings, entry.origin.Start.Column-1-prev[2])
		encodeVLQ(&mappings, name-prev[3])
		prev = [4]int{src, entry.origin.Start.Line - 1, entry.origin.Start.Column - 1, name}
	}

	if names == nil {
		names = []string{}
	}
	return json.Marshal(sourceMapV3{
		Version:    3,
		File:       filepath.Base(dtsPath),
		SourceRoot: "",
		Sources:    sources,
		Names:      names,
		Mappings:   mappings.String(),
	})
}

const base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// encodeVLQ appends the base64 VLQ encoding of value.
func encodeVLQ(b *strings.Builder, value int) {
	vlq := value << 1
	if value < 0 {
		vlq = (-value << 1) | 1
	}
	for {
		digit := vlq & 0x1f
		vlq >>= 5
		if vlq != 0 {
			digit |= 0x20
		}
		b.WriteByte(base64Chars[digit])
		if vlq == 0 {
			return
		}
	}
}
