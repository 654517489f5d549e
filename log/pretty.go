package log

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

type prettyStyles struct {
	time  lipgloss.Style
	key   lipgloss.Style
	str   lipgloss.Style
	num   lipgloss.Style
	msg   lipgloss.Style
	level map[slog.Level]lipgloss.Style
}

func makePrettyStyles(w io.Writer) prettyStyles {
	r := lipgloss.NewRenderer(w)
	badge := r.NewStyle().Bold(true).Width(5)

	return prettyStyles{
		time: r.NewStyle().Foreground(lipgloss.Color("8")),
		key:  r.NewStyle().Foreground(lipgloss.Color("8")),
		str:  r.NewStyle().Foreground(lipgloss.Color("6")),
		num:  r.NewStyle().Foreground(lipgloss.Color("3")),
		msg:  r.NewStyle().Bold(true),
		level: map[slog.Level]lipgloss.Style{
			slog.Level(LevelTrace): badge.Foreground(lipgloss.Color("5")),
			slog.LevelDebug:        badge.Foreground(lipgloss.Color("4")),
			slog.LevelInfo:         badge.Foreground(lipgloss.Color("2")),
			slog.LevelWarn:         badge.Foreground(lipgloss.Color("3")),
			slog.LevelError:        badge.Foreground(lipgloss.Color("1")),
		},
	}
}

// prettyTextHandler writes one colored line per record:
//
//	3:04PM INFO  message key=value group.key=value
//
// Colors are dropped when the output is not a terminal.
type prettyTextHandler struct {
	opts   slog.HandlerOptions
	styles prettyStyles
	mu     *sync.Mutex
	w      io.Writer
	layout string
	prefix string // group prefix for attributes added later
	attrs  []byte // preformatted attributes from WithAttrs
}

func newPrettyTextHandler(
	w io.Writer,
	layout string,
	opts *slog.HandlerOptions,
) *prettyTextHandler {
	return &prettyTextHandler{
		opts:   *opts,
		styles: makePrettyStyles(w),
		mu:     new(sync.Mutex),
		w:      w,
		layout: layout,
	}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	if h.layout != "" && !r.Time.IsZero() {
		buf.WriteString(h.styles.time.Render(r.Time.Format(h.layout)))
		buf.WriteByte(' ')
	}

	buf.WriteString(h.levelBadge(r.Level))
	buf.WriteByte(' ')

	if h.opts.AddSource && r.PC != 0 {
		if src := r.Source(); src != nil {
			buf.WriteString(h.styles.time.Render(
				filepath.Base(src.File) + ":" + strconv.Itoa(src.Line),
			))
			buf.WriteByte(' ')
		}
	}

	buf.WriteString(h.styles.msg.Render(r.Message))
	buf.Write(h.attrs)

	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&buf, h.prefix, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyTextHandler) levelBadge(level slog.Level) string {
	name := Level(level).label()

	style, ok := h.styles.level[level]
	if !ok {
		style = h.styles.level[slog.LevelInfo]
	}

	return style.Render(name)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var buf bytes.Buffer

	buf.Write(h.attrs)

	for _, a := range attrs {
		h.appendAttr(&buf, h.prefix, a)
	}

	c := *h
	c.attrs = buf.Bytes()

	return &c
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

func (h *prettyTextHandler) appendAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	if h.opts.ReplaceAttr != nil && a.Value.Kind() != slog.KindGroup {
		a = h.opts.ReplaceAttr(nil, a)
	}

	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, ga := range a.Value.Group() {
			h.appendAttr(buf, prefix, ga)
		}

		return
	}

	buf.WriteByte(' ')
	buf.WriteString(h.styles.key.Render(prefix + a.Key + "="))
	buf.WriteString(h.renderValue(a.Value))
}

func (h *prettyTextHandler) renderValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindInt64, slog.KindUint64, slog.KindFloat64, slog.KindBool:
		return h.styles.num.Render(v.String())

	case slog.KindDuration:
		return h.styles.num.Render(v.Duration().String())

	case slog.KindTime:
		return h.styles.str.Render(v.Time().Format(time.RFC3339))

	default:
		s := v.String()
		if s == "" || strings.ContainsAny(s, " =\"\t\n") {
			s = strconv.Quote(s)
		}

		return h.styles.str.Render(s)
	}
}

// indentHandler writes each record as indented JSON.
type indentHandler struct {
	inner slog.Handler
	mu    *sync.Mutex
	buf   *bytes.Buffer // written by inner while mu is held
	w     io.Writer
}

func newIndentHandler(w io.Writer, opts *slog.HandlerOptions) *indentHandler {
	buf := new(bytes.Buffer)

	return &indentHandler{
		inner: slog.NewJSONHandler(buf, opts),
		mu:    new(sync.Mutex),
		buf:   buf,
		w:     w,
	}
}

func (h *indentHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *indentHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.buf.Reset()

	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, bytes.TrimSpace(h.buf.Bytes()), "", "  "); err != nil {
		return err
	}

	out.WriteByte('\n')

	_, err := h.w.Write(out.Bytes())

	return err
}

func (h *indentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.inner = h.inner.WithAttrs(attrs)

	return &c
}

func (h *indentHandler) WithGroup(name string) slog.Handler {
	c := *h
	c.inner = h.inner.WithGroup(name)

	return &c
}
