package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used by the pretty handlers. Styles are bound to
// a renderer for the output writer, so colors are only emitted when the
// writer is a terminal that supports them.
type palette struct {
	key   lipgloss.Style
	str   lipgloss.Style
	num   lipgloss.Style
	yes   lipgloss.Style
	no    lipgloss.Style
	dur   lipgloss.Style
	time  lipgloss.Style
	null  lipgloss.Style
	trace lipgloss.Style
	info  lipgloss.Style
	warn  lipgloss.Style
	err   lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return palette{
		key:   fg("8"),
		str:   fg("6"),
		num:   fg("3"),
		yes:   fg("2"),
		no:    fg("1"),
		dur:   fg("5"),
		time:  fg("4"),
		null:  fg("8"),
		trace: fg("4"),
		info:  fg("2"),
		warn:  fg("3"),
		err:   fg("1").Bold(true),
	}
}

func (p palette) level(level slog.Level) lipgloss.Style {
	switch {
	case level >= slog.LevelError:
		return p.err

	case level >= slog.LevelWarn:
		return p.warn

	case level >= slog.LevelInfo:
		return p.info

	default:
		return p.trace
	}
}

// value renders v in the style for its kind. Strings are not quoted.
func (p palette) value(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return p.str.Render(v.String())

	case slog.KindInt64:
		return p.num.Render(strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		return p.num.Render(strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		return p.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			return p.yes.Render("true")
		}

		return p.no.Render("false")

	case slog.KindDuration:
		return p.dur.Render(v.Duration().String())

	case slog.KindTime:
		return p.time.Render(v.Time().String())

	default:
		if v.Any() == nil {
			return p.null.Render("null")
		}

		return p.str.Render(fmt.Sprint(v.Any()))
	}
}

// builtinAttrs returns the time, level, source, and message of r, passed
// through the configured ReplaceAttr. Attributes replaced by an empty one
// are dropped.
func builtinAttrs(opts *slog.HandlerOptions, r slog.Record) []slog.Attr {
	attrs := make([]slog.Attr, 0, 4)

	if !r.Time.IsZero() {
		attrs = append(attrs, slog.Time(slog.TimeKey, r.Time))
	}

	attrs = append(attrs, slog.Any(slog.LevelKey, r.Level))

	if opts.AddSource {
		if src := r.Source(); src != nil {
			attrs = append(attrs,
				slog.String(slog.SourceKey, src.File+":"+strconv.Itoa(src.Line)))
		}
	}

	attrs = append(attrs, slog.String(slog.MessageKey, r.Message))

	if opts.ReplaceAttr == nil {
		return attrs
	}

	out := attrs[:0]

	for _, a := range attrs {
		if a = opts.ReplaceAttr(nil, a); !a.Equal(slog.Attr{}) {
			out = append(out, a)
		}
	}

	return out
}

// prettyTextHandler writes one colorized key=value line per record.
type prettyTextHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	pal    palette
	prefix string // dotted group path applied to record attributes
	attrs  []byte // preformatted attributes from WithAttrs
}

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyTextHandler {
	return &prettyTextHandler{
		opts: *opts,
		mu:   &sync.Mutex{},
		w:    w,
		pal:  newPalette(w),
	}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	for _, a := range builtinAttrs(&h.opts, r) {
		if a.Key == slog.LevelKey {
			h.writeKey(buf, a.Key)
			buf.WriteString(h.pal.level(r.Level).Render(a.Value.String()))

			continue
		}

		h.writeAttr(buf, "", a)
	}

	buf.Write(h.attrs)

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(buf, h.prefix, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	buf := bytes.NewBuffer(bytes.Clone(h.attrs))

	for _, a := range attrs {
		h.writeAttr(buf, h.prefix, a)
	}

	dup := *h
	dup.attrs = buf.Bytes()

	return &dup
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	dup := *h
	dup.prefix = h.prefix + name + "."

	return &dup
}

func (h *prettyTextHandler) writeKey(buf *bytes.Buffer, key string) {
	buf.WriteByte(' ')
	buf.WriteString(h.pal.key.Render(key))
	buf.WriteByte('=')
}

// writeAttr writes a, flattening groups into dotted keys.
func (h *prettyTextHandler) writeAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, sub := range a.Value.Group() {
			h.writeAttr(buf, prefix, sub)
		}

		return
	}

	if a.Key == "" {
		return
	}

	h.writeKey(buf, prefix+a.Key)
	buf.WriteString(h.pal.value(a.Value))
}

// prettyJSONHandler writes each record as an indented, colorized JSON-like
// object. Groups become nested objects.
type prettyJSONHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	pal    palette
	groups []string
	attrs  []slog.Attr
}

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyJSONHandler {
	return &prettyJSONHandler{
		opts: *opts,
		mu:   &sync.Mutex{},
		w:    w,
		pal:  newPalette(w),
	}
}

func (h *prettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)
	first := true

	buf.WriteString("{")

	for _, a := range builtinAttrs(&h.opts, r) {
		if a.Key == slog.LevelKey {
			h.writeKey(buf, 1, a.Key, &first)
			buf.WriteString(h.pal.level(r.Level).Render(a.Value.String()))

			continue
		}

		h.writeAttr(buf, 1, a, &first)
	}

	// Attributes added under a group nest inside it.
	record := make([]slog.Attr, 0, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		record = append(record, a)

		return true
	})

	attrs := append(h.attrs[:len(h.attrs):len(h.attrs)], nest(h.groups, record)...)
	for _, a := range attrs {
		h.writeAttr(buf, 1, a, &first)
	}

	buf.WriteString("\n}\n")

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	dup := *h
	dup.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], nest(h.groups, attrs)...)

	return &dup
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	dup := *h
	dup.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return &dup
}

// nest wraps attrs in one group per name, innermost last.
func nest(groups []string, attrs []slog.Attr) []slog.Attr {
	if len(attrs) == 0 {
		return nil
	}

	for i := len(groups) - 1; i >= 0; i-- {
		attrs = []slog.Attr{{Key: groups[i], Value: slog.GroupValue(attrs...)}}
	}

	return attrs
}

func (h *prettyJSONHandler) writeKey(
	buf *bytes.Buffer,
	depth int,
	key string,
	first *bool,
) {
	if !*first {
		buf.WriteByte(',')
	}

	*first = false

	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat("  ", depth))
	buf.WriteString(h.pal.key.Render(key))
	buf.WriteString(": ")
}

func (h *prettyJSONHandler) writeAttr(
	buf *bytes.Buffer,
	depth int,
	a slog.Attr,
	first *bool,
) {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() != slog.KindGroup {
		if a.Key != "" {
			h.writeKey(buf, depth, a.Key, first)
			buf.WriteString(h.pal.value(a.Value))
		}

		return
	}

	group := a.Value.Group()
	if len(group) == 0 {
		return
	}

	// Groups without a key are inlined.
	if a.Key == "" {
		for _, sub := range group {
			h.writeAttr(buf, depth, sub, first)
		}

		return
	}

	h.writeKey(buf, depth, a.Key, first)
	buf.WriteString("{")

	inner := true
	for _, sub := range group {
		h.writeAttr(buf, depth+1, sub, &inner)
	}

	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat("  ", depth))
	buf.WriteString("}")
}
