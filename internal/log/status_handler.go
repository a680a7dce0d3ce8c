package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/fatih/color"
)

// Attribute keys given special placement by StatusHandler.
const (
	KeyFile   = "file"
	KeyStatus = "status"
	KeySaved  = "saved"
)

// StatusHandler is a slog.Handler writing compact, colored console lines.
// It is safe for concurrent use; handlers derived through WithAttrs and
// WithGroup share the writer lock.
type StatusHandler struct {
	w      io.Writer
	mu     *sync.Mutex
	level  slog.Leveler
	attrs  []slog.Attr
	group  string
	colors palette
}

type palette struct {
	ok, bad, info, detail *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		ok:     color.New(color.FgGreen),
		bad:    color.New(color.FgRed),
		info:   color.New(color.FgCyan),
		detail: color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{p.ok, p.bad, p.info, p.detail} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// NewStatusHandler creates a handler writing records at or above level to w.
func NewStatusHandler(w io.Writer, level slog.Leveler, colored bool) *StatusHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &StatusHandler{
		w:      w,
		mu:     &sync.Mutex{},
		level:  level,
		colors: newPalette(colored),
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *StatusHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle writes one line for the record.
func (h *StatusHandler) Handle(_ context.Context, r slog.Record) error {
	var file, status string
	var saved *slog.Value
	var rest []slog.Attr

	collect := func(a slog.Attr) bool {
		switch a.Key {
		case KeyFile:
			file = a.Value.String()
		case KeyStatus:
			status = a.Value.String()
		case KeySaved:
			v := a.Value
			saved = &v
		default:
			rest = append(rest, a)
		}
		return true
	}
	for _, a := range h.attrs {
		collect(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		return collect(h.qualify(a))
	})

	var buf bytes.Buffer
	if status != "" {
		if file != "" {
			buf.WriteString(file)
			buf.WriteByte(' ')
		}
		if status == "OK" {
			buf.WriteString(h.colors.ok.Sprint(status))
		} else {
			buf.WriteString(h.colors.bad.Sprint(status))
		}
		if saved != nil {
			buf.WriteByte(' ')
			buf.WriteString(h.colors.info.Sprint(saved.String()))
		}
		for _, a := range rest {
			buf.WriteByte(' ')
			buf.WriteString(h.colors.detail.Sprint(a.Value.String()))
		}
	} else {
		if r.Level >= slog.LevelWarn {
			buf.WriteString(h.colors.bad.Sprint(r.Level.String()))
			buf.WriteByte(' ')
		}
		buf.WriteString(r.Message)
		if file != "" {
			rest = append([]slog.Attr{slog.String(KeyFile, file)}, rest...)
		}
		if saved != nil {
			rest = append(rest, slog.Attr{Key: KeySaved, Value: *saved})
		}
		for _, a := range rest {
			fmt.Fprintf(&buf, " %s=%v", a.Key, a.Value)
		}
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

// WithAttrs returns a new handler with the given attributes added.
func (h *StatusHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.attrs = slices.Clone(h.attrs)
	for _, a := range attrs {
		nh.attrs = append(nh.attrs, h.qualify(a))
	}
	return &nh
}

// WithGroup returns a new handler that qualifies later attribute keys with name.
func (h *StatusHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	if h.group != "" {
		nh.group = h.group + "." + name
	} else {
		nh.group = name
	}
	return &nh
}

// qualify prefixes a non-status key with the current group
func (h *StatusHandler) qualify(a slog.Attr) slog.Attr {
	if h.group == "" {
		return a
	}
	switch a.Key {
	case KeyFile, KeyStatus, KeySaved:
		return a
	}
	a.Key = h.group + "." + a.Key
	return a
}

// New creates the console logger. Verbose mode logs every image at debug
// level and above; otherwise only warnings and errors are written.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(NewStatusHandler(w, level, !color.NoColor))
}
