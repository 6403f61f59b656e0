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

// Everforest Dark palette
const (
	colorTime      = "\x1b[38;5;107m"
	colorComponent = "\x1b[38;5;208m"
	colorKey       = "\x1b[38;5;65m"
	colorValue     = "\x1b[38;5;109m"
	colorWarn      = "\x1b[38;5;179m"
	colorWarnBg    = "\x1b[48;5;58m"
	colorError     = "\x1b[38;5;167m"
	colorErrorBg   = "\x1b[48;5;52m"
)

var bufferPool = buffer.NewPool()

// minimalEncoder implements a calm, compact console encoder.
// Format: "13:04:35  DEBUG  pipeline  merged file  path=models/User.ts bytes=42"
//
// Context added through With() lands in the embedded map encoder and is
// printed (sorted by key) before the per-entry fields.
type minimalEncoder struct {
	*zapcore.MapObjectEncoder
	color bool
}

func newMinimalEncoder(color bool) *minimalEncoder {
	return &minimalEncoder{
		MapObjectEncoder: zapcore.NewMapObjectEncoder(),
		color:            color,
	}
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

	final.AppendString(enc.paint(colorTime, ent.Time.Format("15:04:05")))

	// Level: only shown when it is not INFO
	if ent.Level != zapcore.InfoLevel {
		final.AppendString("  ")
		final.AppendString(enc.levelString(ent.Level))
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(enc.paint(colorComponent, ent.LoggerName))
	}

	final.AppendString("  ")
	final.AppendString(ent.Message)

	var parts []string
	parts = append(parts, enc.renderContext()...)
	parts = append(parts, enc.renderFields(fields)...)
	if len(parts) > 0 {
		final.AppendString("  ")
		final.AppendString(strings.Join(parts, " "))
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
	case zapcore.WarnLevel:
		return colorBold + colorWarnBg + colorWarn + name + colorReset
	case zapcore.ErrorLevel, zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return colorBold + colorErrorBg + colorError + name + colorReset
	default:
		return name
	}
}

func (enc *minimalEncoder) pair(k string, v interface{}) string {
	return enc.paint(colorKey, k) + "=" + enc.paint(colorValue, fmt.Sprintf("%v", v))
}

func (enc *minimalEncoder) renderContext() []string {
	keys := make([]string, 0, len(enc.Fields))
	for k := range enc.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, enc.pair(k, enc.Fields[k]))
	}
	return parts
}

// renderFields prints every entry field as key=value in call order.
// Fields are never dropped.
func (enc *minimalEncoder) renderFields(fields []zapcore.Field) []string {
	if len(fields) == 0 {
		return nil
	}

	m := zapcore.NewMapObjectEncoder()
	var order []string
	for _, f := range fields {
		before := len(m.Fields)
		f.AddTo(m)
		if len(m.Fields) > before {
			order = append(order, f.Key)
		}
	}

	parts := make([]string, 0, len(order))
	for _, k := range order {
		if v, ok := m.Fields[k]; ok {
			parts = append(parts, enc.pair(k, v))
		}
	}
	return parts
}
