package logger_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/swatch/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func TestCollectErrorEntries(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantMessages []string
		wantMetadata []map[string]any
	}{
		{
			name:         "plain error",
			err:          errors.New("read failure"),
			wantMessages: []string{"read failure"},
			wantMetadata: []map[string]any{nil},
		},
		{
			name:         "single zerr error",
			err:          zerr.New("cannot resolve specifier"),
			wantMessages: []string{"cannot resolve specifier"},
			wantMetadata: []map[string]any{{}},
		},
		{
			name: "wrapped chain",
			err: zerr.Wrap(
				zerr.Wrap(
					errors.New("no such file or directory"),
					"read file",
				),
				"load composition graph",
			),
			wantMessages: []string{
				"load composition graph",
				"read file",
				"no such file or directory",
			},
			wantMetadata: []map[string]any{{}, {}, nil},
		},
		{
			name: "metadata merged onto one entry",
			err: zerr.With(
				zerr.With(
					zerr.New("dialect compiler failed"),
					"exit_code", 65,
				),
				"command", "sass",
			),
			wantMessages: []string{"dialect compiler failed"},
			wantMetadata: []map[string]any{
				{"exit_code": 65, "command": "sass"},
			},
		},
		{
			name: "chain with metadata at both levels",
			err: func() error {
				inner := zerr.With(zerr.New("specifier did not resolve"), "specifier", "./missing.css")
				outer := zerr.Wrap(inner, "transform source")
				return zerr.With(outer, "file", "src/button.module.css")
			}(),
			wantMessages: []string{"transform source", "specifier did not resolve"},
			wantMetadata: []map[string]any{
				{"file": "src/button.module.css"},
				{"specifier": "./missing.css"},
			},
		},
		{
			name:         "nil error",
			err:          nil,
			wantMessages: nil,
			wantMetadata: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := logger.CollectErrorEntries(tt.err)

			if tt.err == nil {
				assert.Empty(t, entries)
				return
			}

			assert.Len(t, entries, len(tt.wantMessages))
			for i, wantMsg := range tt.wantMessages {
				assert.Equal(t, wantMsg, entries[i].Message, "message at index %d", i)
				assert.Equal(t, tt.wantMetadata[i], entries[i].Metadata, "metadata at index %d", i)
			}
		})
	}
}

func TestFormatErrorEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []logger.ErrorEntry
		want    string
	}{
		{
			name:    "single entry",
			entries: []logger.ErrorEntry{{Message: "emit declaration"}},
			want:    "Error: emit declaration",
		},
		{
			name: "entry with one cause",
			entries: []logger.ErrorEntry{
				{Message: "load composition graph"},
				{Message: "file not found"},
			},
			want: "Error: load composition graph\n\n  Caused by:\n    → file not found",
		},
		{
			name: "three entries share one header",
			entries: []logger.ErrorEntry{
				{Message: "generate declarations"},
				{Message: "transform source"},
				{Message: "broken pipe"},
			},
			want: "Error: generate declarations\n\n  Caused by:\n    → transform source\n    → broken pipe",
		},
		{
			name: "metadata on the main error",
			entries: []logger.ErrorEntry{
				{
					Message:  "cannot resolve specifier",
					Metadata: map[string]any{"specifier": "@tokens/core"},
				},
			},
			want: "Error: cannot resolve specifier\n       specifier: @tokens/core",
		},
		{
			name: "metadata on a cause",
			entries: []logger.ErrorEntry{
				{Message: "transform source"},
				{
					Message:  "dialect compiler failed",
					Metadata: map[string]any{"exit_code": 65},
				},
			},
			want: "Error: transform source\n\n  Caused by:\n    → dialect compiler failed\n      exit_code: 65",
		},
		{
			name: "multiline main message",
			entries: []logger.ErrorEntry{
				{Message: "yaml: unmarshal errors:\n  line 4: cannot unmarshal !!str"},
			},
			want: "Error: yaml: unmarshal errors:\n         line 4: cannot unmarshal !!str",
		},
		{
			name: "multiline cause message",
			entries: []logger.ErrorEntry{
				{Message: "parse configuration"},
				{Message: "yaml: line 2:\nfound unexpected end of stream"},
			},
			want: "Error: parse configuration\n\n  Caused by:\n    → yaml: line 2:\n      found unexpected end of stream",
		},
		{
			name:    "no entries",
			entries: []logger.ErrorEntry{},
			want:    "",
		},
		{
			name: "metadata keys sorted",
			entries: []logger.ErrorEntry{
				{
					Message: "emit failed",
					Metadata: map[string]any{
						"out_dir": "types",
						"file":    "button.module.css",
						"root":    "/srv/app",
					},
				},
			},
			want: "Error: emit failed\n       file: button.module.css\n       out_dir: types\n       root: /srv/app",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.FormatErrorEntries(tt.entries))
		})
	}
}

func TestCollectAndFormat(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "chain with metadata at both levels",
			err: func() error {
				inner := zerr.With(zerr.New("dialect compiler failed"), "exit_code", 65)
				outer := zerr.Wrap(inner, "transform source")
				return zerr.With(outer, "file", "src/button.module.scss")
			}(),
			want: "Error: transform source\n" +
				"       file: src/button.module.scss\n\n" +
				"  Caused by:\n" +
				"    → dialect compiler failed\n" +
				"      exit_code: 65",
		},
		{
			name: "plain error",
			err:  errors.New("permission denied"),
			want: "Error: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := logger.FormatErrorEntries(logger.CollectErrorEntries(tt.err))
			assert.Equal(t, tt.want, got)
		})
	}
}
