package logger

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// Everforest Dark palette (warm, muted, easy on eyes)
var palette = struct {
	fg       string
	green    string
	greenMid string
	aqua     string
	orange   string
	yellow   string
	red      string
	redBg    string
	yellowBg string
}{
	fg:       "\x1b[38;5;223m", // Soft beige (#d3c6aa)
	green:    "\x1b[38;5;108m", // Bright green (#a7c080)
	greenMid: "\x1b[38;5;107m", // Mid green (#83c092) - timestamps
	aqua:     "\x1b[38;5;109m", // Blue-green (#7fbbb3) - paths
	orange:   "\x1b[38;5;208m", // Warm orange (#e69875) - components
	yellow:   "\x1b[38;5;179m", // Soft yellow (#dbbc7f) - warnings
	red:      "\x1b[38;5;167m", // Warm red (#e67e80) - errors
	redBg:    "\x1b[48;5;52m",
	yellowBg: "\x1b[48;5;58m",
}

var bufferPool = buffer.NewPool()

// minimalEncoder implements a calm, compact console encoder
// Format: "13:04:35  batch  Converted  src/models.ts (2 enums, 3 structs) 4ms"
//
// Fields added with With are kept in the embedded map encoder and printed
// with every entry.
type minimalEncoder struct {
	*zapcore.MapObjectEncoder
	color bool
}

func newMinimalEncoder(color bool) *minimalEncoder {
	return &minimalEncoder{MapObjectEncoder: zapcore.NewMapObjectEncoder(), color: color}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	clone := newMinimalEncoder(enc.color)
	for k, v := range enc.Fields {
		clone.Fields[k] = v
	}
	return clone
}

func (enc *minimalEncoder) paint(color, s string) string {
	if !enc.color || s == "" {
		return s
	}
	return color + s + colorReset
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	final := bufferPool.Get()

	final.AppendString(enc.paint(palette.greenMid, ent.Time.Format("15:04:05")))

	// Level: only shown when it is not INFO
	if ent.Level != zapcore.InfoLevel {
		final.AppendString("  ")
		final.AppendString(enc.levelString(ent.Level))
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(enc.paint(palette.orange, abbreviateName(ent.LoggerName)))
	}

	final.AppendString("  ")
	final.AppendString(enc.paint(palette.fg, ent.Message))

	if values := enc.formatFields(fields); values != "" {
		final.AppendString("  ")
		final.AppendString(values)
	}

	final.AppendString("\n")
	return final, nil
}

func (enc *minimalEncoder) levelString(level zapcore.Level) string {
	name := level.CapitalString()
	if !enc.color {
		return name
	}
	switch level {
	case zapcore.DebugLevel:
		return palette.aqua + name + colorReset
	case zapcore.WarnLevel:
		return colorBold + palette.yellowBg + palette.yellow + name + colorReset
	default:
		return colorBold + palette.redBg + palette.red + name + colorReset
	}
}

// abbreviateName shortens component names: batch.worker -> b.worker
func abbreviateName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 1 && parts[0] != "" {
		return string(parts[0][0]) + "." + strings.Join(parts[1:], ".")
	}
	return name
}

type fieldValue struct {
	key   string
	value interface{}
}

// collectFields returns the context fields, sorted by key, followed by the
// entry fields in call order
func (enc *minimalEncoder) collectFields(fields []zapcore.Field) []fieldValue {
	keys := make([]string, 0, len(enc.Fields))
	for k := range enc.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make([]fieldValue, 0, len(keys)+len(fields))
	for _, k := range keys {
		values = append(values, fieldValue{key: k, value: enc.Fields[k]})
	}

	for _, f := range fields {
		m := zapcore.NewMapObjectEncoder()
		f.AddTo(m)
		if v, ok := m.Fields[f.Key]; ok {
			values = append(values, fieldValue{key: f.Key, value: v})
		}
	}
	return values
}

// formatFields renders every field. Paths, declaration counts and durations
// get a compact form; everything else is key=value.
// Input: {"file": "a.ts", "enums": 2, "structs": 3, "duration_ms": 4}
// Output: "a.ts (2 enums, 3 structs) 4ms"
func (enc *minimalEncoder) formatFields(fields []zapcore.Field) string {
	var parts, counts []string
	var duration string

	for _, f := range enc.collectFields(fields) {
		val := fmt.Sprint(f.value)
		switch f.key {
		case FieldFile, FieldOutput:
			parts = append(parts, enc.paint(palette.aqua, val))
		case FieldEnums, FieldStructs, FieldCount, FieldFailed:
			counts = append(counts, enc.paint(palette.green, val)+" "+f.key)
		case FieldDurationMS:
			duration = enc.paint(palette.green, val) + "ms"
		case FieldError:
			parts = append(parts, enc.paint(palette.red, "error="+val))
		default:
			parts = append(parts, f.key+"="+val)
		}
	}

	if len(counts) > 0 {
		parts = append(parts, "("+strings.Join(counts, ", ")+")")
	}
	if duration != "" {
		parts = append(parts, duration)
	}
	return strings.Join(parts, " ")
}
