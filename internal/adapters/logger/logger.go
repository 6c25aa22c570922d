// Package logger implements the logging port on top of log/slog, with a
// pretty handler for terminals and an optional JSON mode for tooling.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/swatch/internal/core/ports"
	"go.trai.ch/zerr"
)

// Logger implements ports.Logger using log/slog.
type Logger struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	jsonMode bool
	output   io.Writer
}

// New creates a Logger writing pretty output to stderr.
func New() ports.Logger {
	l := &Logger{output: os.Stderr}
	l.logger = slog.New(l.buildHandler())
	return l
}

// SetOutput redirects log output to w. A nil writer restores os.Stderr.
// The current JSON mode is preserved.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.logger = slog.New(l.buildHandler())
}

// SetJSON switches between JSON records and pretty output. The output
// destination is preserved.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	l.logger = slog.New(l.buildHandler())
}

// buildHandler constructs a handler for the current output and mode.
// Callers must hold l.mu.
func (l *Logger) buildHandler() slog.Handler {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if l.jsonMode {
		return slog.NewJSONHandler(l.output, opts)
	}
	return NewPrettyHandler(l.output, opts)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs an error. In pretty mode the causal chain is rendered as an
// indented tree with per-error metadata; in JSON mode the error is attached
// as a structured field.
func (l *Logger) Error(err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if err == nil {
		return
	}

	if l.jsonMode {
		l.logger.Error("run failed", "error", err)
		return
	}

	l.logger.Error(formatErrorEntries(collectErrorEntries(err)))
}

// ErrorEntry is one error in a causal chain: its own message and any
// metadata attached at that level.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// collectErrorEntries walks the error chain outermost-first. Errors built
// with zerr contribute their bare message and metadata; the first error
// without chain support contributes its full Error() text and ends the walk.
func collectErrorEntries(err error) []ErrorEntry {
	var entries []ErrorEntry

	current := err
	for current != nil {
		if zErr, ok := current.(*zerr.Error); ok {
			entries = append(entries, ErrorEntry{
				Message:  zErr.Message(),
				Metadata: zErr.Metadata(),
			})
			current = errors.Unwrap(current)
			continue
		}

		entries = append(entries, ErrorEntry{Message: current.Error()})
		break
	}

	return entries
}

// formatErrorEntries renders a chain as
//
//	Error: <outermost>
//	       <metadata key>: <value>
//
//	  Caused by:
//	    → <cause>
//	      <metadata key>: <value>
//
// Metadata keys are sorted; continuation lines of multiline messages are
// indented to align with the first line.
func formatErrorEntries(entries []ErrorEntry) string {
	if len(entries) == 0 {
		return ""
	}

	var lines []string
	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")

		if i == 0 {
			lines = append(lines, "Error: "+msgLines[0])
			for _, line := range msgLines[1:] {
				lines = append(lines, "       "+line)
			}
			lines = append(lines, metadataLines(entry.Metadata, "       ")...)
			continue
		}

		if i == 1 {
			lines = append(lines, "", "  Caused by:")
		}
		lines = append(lines, "    → "+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, "      "+line)
		}
		lines = append(lines, metadataLines(entry.Metadata, "      ")...)
	}

	return strings.Join(lines, "\n")
}

func metadataLines(metadata map[string]any, indent string) []string {
	if len(metadata) == 0 {
		return nil
	}

	lines := make([]string, 0, len(metadata))
	for _, key := range slices.Sorted(maps.Keys(metadata)) {
		lines = append(lines, fmt.Sprintf("%s%s: %v", indent, key, metadata[key]))
	}
	return lines
}
