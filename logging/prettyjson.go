package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/brensch/snekgrid/game"
)

// PrettyJSONHandler is a slog.Handler that prints one JSON object per record.
// time, level, msg (and source) always come first; attributes follow in the
// order they were added. Grid points are written as "(x,y)" so snake bodies
// stay readable in a terminal.
//
// Not optimized for throughput; a game logs a handful of lines per second.
type PrettyJSONHandler struct {
	w         io.Writer
	mu        *sync.Mutex
	level     slog.Leveler
	addSource bool
	indent    string

	attrs  []groupedAttr
	groups []string
}

// groupedAttr is an attribute bound by WithAttrs together with the group
// path that was open when it was bound.
type groupedAttr struct {
	groups []string
	attr   slog.Attr
}

// NewPrettyJSONHandler indents output by two spaces. Use NewCompactJSONHandler
// for one line per record.
func NewPrettyJSONHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyJSONHandler {
	h := NewCompactJSONHandler(w, opts)
	h.indent = "  "
	return h
}

func NewCompactJSONHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyJSONHandler {
	var level slog.Leveler = slog.LevelInfo
	addSource := false
	if opts != nil {
		if opts.Level != nil {
			level = opts.Level
		}
		addSource = opts.AddSource
	}
	return &PrettyJSONHandler{
		w:         w,
		mu:        &sync.Mutex{},
		level:     level,
		addSource: addSource,
	}
}

func (h *PrettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *PrettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	when := r.Time
	if when.IsZero() {
		when = time.Now()
	}

	obj := &orderedObject{}
	obj.set("time", when.Format(time.RFC3339Nano))
	obj.set("level", r.Level.String())
	obj.set("msg", r.Message)
	if h.addSource {
		if src := sourceFromPC(r.PC); src != "" {
			obj.set("source", src)
		}
	}

	for _, ga := range h.attrs {
		addAttr(obj.path(ga.groups), ga.attr)
	}
	dst := obj.path(h.groups)
	r.Attrs(func(a slog.Attr) bool {
		addAttr(dst, a)
		return true
	})

	var buf bytes.Buffer
	obj.encode(&buf, h.indent, 0)
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

// WithAttrs attaches attrs under the groups open at the time of the call.
func (h *PrettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.attrs = append([]groupedAttr(nil), h.attrs...)
	for _, a := range attrs {
		clone.attrs = append(clone.attrs, groupedAttr{groups: h.groups, attr: a})
	}
	return &clone
}

func (h *PrettyJSONHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}

func addAttr(dst *orderedObject, a slog.Attr) {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		attrs := v.Group()
		if len(attrs) == 0 {
			return
		}
		// Inline groups with an empty key, as slog's own handlers do.
		target := dst
		if a.Key != "" {
			target = dst.child(a.Key)
		}
		for _, ga := range attrs {
			addAttr(target, ga)
		}
		return
	}
	if a.Key == "" {
		return
	}
	dst.set(a.Key, valueToAny(v))
}

func valueToAny(v slog.Value) any {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindInt64:
		return v.Int64()
	case slog.KindUint64:
		return v.Uint64()
	case slog.KindFloat64:
		return v.Float64()
	case slog.KindBool:
		return v.Bool()
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339Nano)
	case slog.KindAny:
		switch x := v.Any().(type) {
		case game.Point:
			return pointString(x)
		case []game.Point:
			out := make([]string, len(x))
			for i, p := range x {
				out[i] = pointString(p)
			}
			return out
		case error:
			return x.Error()
		case fmt.Stringer:
			return x.String()
		default:
			return x
		}
	default:
		return v.String()
	}
}

func pointString(p game.Point) string {
	return "(" + strconv.Itoa(p.X) + "," + strconv.Itoa(p.Y) + ")"
}

type orderedField struct {
	key   string
	value any
}

// orderedObject is a JSON object that remembers insertion order.
type orderedObject struct {
	fields []orderedField
}

func (o *orderedObject) set(key string, value any) {
	for i := range o.fields {
		if o.fields[i].key == key {
			o.fields[i].value = value
			return
		}
	}
	o.fields = append(o.fields, orderedField{key: key, value: value})
}

func (o *orderedObject) child(key string) *orderedObject {
	for _, f := range o.fields {
		if c, ok := f.value.(*orderedObject); ok && f.key == key {
			return c
		}
	}
	c := &orderedObject{}
	o.set(key, c)
	return c
}

func (o *orderedObject) path(groups []string) *orderedObject {
	dst := o
	for _, g := range groups {
		dst = dst.child(g)
	}
	return dst
}

func (o *orderedObject) encode(buf *bytes.Buffer, indent string, depth int) {
	if len(o.fields) == 0 {
		buf.WriteString("{}")
		return
	}
	newline := func(d int) {
		if indent == "" {
			return
		}
		buf.WriteByte('\n')
		buf.WriteString(strings.Repeat(indent, d))
	}

	buf.WriteByte('{')
	for i, f := range o.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		newline(depth + 1)
		k, _ := json.Marshal(f.key)
		buf.Write(k)
		buf.WriteByte(':')
		if indent != "" {
			buf.WriteByte(' ')
		}
		if c, ok := f.value.(*orderedObject); ok {
			c.encode(buf, indent, depth+1)
			continue
		}
		b, err := json.Marshal(f.value)
		if err != nil {
			// As a last resort, avoid dropping the record.
			b = []byte(strconv.Quote(fmt.Sprint(f.value)))
		}
		buf.Write(b)
	}
	newline(depth)
	buf.WriteByte('}')
}

func sourceFromPC(pc uintptr) string {
	if pc == 0 {
		return ""
	}
	frames := runtime.CallersFrames([]uintptr{pc})
	f, _ := frames.Next()
	if f.File == "" {
		return ""
	}
	file := f.File
	if idx := strings.LastIndexByte(file, '/'); idx >= 0 {
		file = file[idx+1:]
	}
	return file + ":" + strconv.Itoa(f.Line)
}
