package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/muesli/termenv"
	"go.trai.ch/swatch/internal/ui/output"
	"go.trai.ch/swatch/internal/ui/style"
)

// PrettyHandler is a slog.Handler that renders human-readable, colored
// lines instead of logfmt records.
type PrettyHandler struct {
	out   *termenv.Output
	mu    *sync.Mutex // serializes writes, shared across WithAttrs/WithGroup clones
	level slog.Leveler
	attrs []string // pre-rendered, already qualified with their group prefix
	group string
}

// NewPrettyHandler creates a PrettyHandler writing to w. A nil writer
// defaults to os.Stderr.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	level := slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level.Level()
	}

	levelVar := &slog.LevelVar{}
	levelVar.Set(level)

	return &PrettyHandler{
		out:   output.New(w),
		mu:    &sync.Mutex{},
		level: levelVar,
	}
}

// Enabled reports whether records at the given level are handled.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle renders the record as a single styled line. Warnings and errors
// carry an icon prefix; attributes follow the message as key=value pairs.
//
//nolint:gocritic // slog.Handler requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var msg string
	var color termenv.Color

	switch r.Level {
	case slog.LevelWarn:
		msg = style.Warning + " " + r.Message
		color = termenv.RGBColor(string(style.Amber))
	case slog.LevelError:
		msg = style.Cross + " " + r.Message
		color = termenv.RGBColor(string(style.Crimson))
	default:
		msg = r.Message
		color = termenv.RGBColor(string(style.Graphite))
	}

	parts := make([]string, 0, len(h.attrs)+r.NumAttrs())
	parts = append(parts, h.attrs...)

	r.Attrs(func(attr slog.Attr) bool {
		parts = flattenAttr(h.group, attr, parts)
		return true
	})

	if len(parts) > 0 {
		msg += " " + strings.Join(parts, " ")
	}

	styled := h.out.String(msg).Foreground(color)

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.WriteString(styled.String() + "\n")

	return err
}

// WithAttrs returns a handler with the attributes appended. Attributes are
// rendered eagerly so they keep the group prefix that was open when they
// were added.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	rendered := make([]string, 0, len(h.attrs)+len(attrs))
	rendered = append(rendered, h.attrs...)
	for _, attr := range attrs {
		rendered = flattenAttr(h.group, attr, rendered)
	}

	return &PrettyHandler{
		out:   h.out,
		mu:    h.mu,
		level: h.level,
		attrs: rendered,
		group: h.group,
	}
}

// WithGroup returns a handler that qualifies subsequent attribute keys
// with name. An empty name returns the receiver, per the slog contract.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	group := name
	if h.group != "" {
		group = h.group + "." + name
	}

	return &PrettyHandler{
		out:   h.out,
		mu:    h.mu,
		level: h.level,
		attrs: h.attrs,
		group: group,
	}
}

// flattenAttr renders attr as "key=value", qualifying the key with prefix.
// Group-valued attributes are expanded recursively so nested groups become
// dotted key paths.
func flattenAttr(prefix string, attr slog.Attr, into []string) []string {
	if attr.Equal(slog.Attr{}) {
		return into
	}

	key := attr.Key
	if prefix != "" && key != "" {
		key = prefix + "." + key
	}

	if attr.Value.Kind() == slog.KindGroup {
		groupPrefix := key
		if attr.Key == "" {
			// Inline group: members belong to the enclosing prefix.
			groupPrefix = prefix
		}
		for _, member := range attr.Value.Group() {
			into = flattenAttr(groupPrefix, member, into)
		}
		return into
	}

	return append(into, key+"="+attr.Value.String())
}
