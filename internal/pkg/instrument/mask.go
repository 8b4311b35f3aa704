package instrument

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
)

const masked = "***"

// MaskKeys is a case insensitive set of field names to redact.
type MaskKeys map[string]struct{}

// NewMaskKeys builds a MaskKeys from fields, ignoring blanks.
func NewMaskKeys(fields []string) MaskKeys {
	keys := make(MaskKeys, len(fields))
	for _, f := range fields {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			keys[f] = struct{}{}
		}
	}
	return keys
}

func (k MaskKeys) has(key string) bool {
	_, ok := k[strings.ToLower(key)]
	return ok
}

// JSON redacts payload when it is a JSON object or array. Anything else is
// returned unchanged with ok=false.
func (k MaskKeys) JSON(payload []byte) (string, bool) {
	if len(payload) == 0 || (payload[0] != '{' && payload[0] != '[') {
		return "", false
	}

	var body any
	if err := json.Unmarshal(payload, &body); err != nil {
		return "", false
	}

	out, err := json.Marshal(k.data(body))
	if err != nil {
		return "", false
	}
	return string(out), true
}

func (k MaskKeys) data(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for key, inner := range val {
			if k.has(key) {
				out[key] = masked
				continue
			}
			out[key] = k.data(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = k.data(inner)
		}
		return out
	default:
		return v
	}
}

func (k MaskKeys) attr(a slog.Attr) slog.Attr {
	if k.has(a.Key) {
		return slog.String(a.Key, masked)
	}

	switch a.Value.Kind() {
	case slog.KindGroup:
		group := a.Value.Group()
		out := make([]slog.Attr, len(group))
		for i, ga := range group {
			out[i] = k.attr(ga)
		}
		a.Value = slog.GroupValue(out...)
	case slog.KindString:
		if s, ok := k.JSON([]byte(a.Value.String())); ok {
			a.Value = slog.StringValue(s)
		}
	case slog.KindAny:
		switch v := a.Value.Any().(type) {
		case map[string]any, []any:
			a.Value = slog.AnyValue(k.data(v))
		case map[string]string:
			m := make(map[string]any, len(v))
			for key, s := range v {
				m[key] = s
			}
			a.Value = slog.AnyValue(k.data(m))
		case []byte:
			if s, ok := k.JSON(v); ok {
				a.Value = slog.StringValue(s)
			}
		}
	}

	return a
}

type maskHandler struct {
	slog.Handler
	keys MaskKeys
}

func (h *maskHandler) Handle(ctx context.Context, r slog.Record) error {
	if len(h.keys) == 0 {
		return h.Handler.Handle(ctx, r)
	}

	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.keys.attr(a))
		return true
	})

	return h.Handler.Handle(ctx, out)
}

func (h *maskHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = h.keys.attr(a)
	}
	return &maskHandler{Handler: h.Handler.WithAttrs(out), keys: h.keys}
}

func (h *maskHandler) WithGroup(name string) slog.Handler {
	return &maskHandler{Handler: h.Handler.WithGroup(name), keys: h.keys}
}
