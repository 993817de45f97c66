// Package zap adapts a *zap.Logger to trytebuffer.Logger.
package zap

import (
	"sort"

	tb "github.com/unkn0wn-root/trytebuffer"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ tb.Logger = Logger{}

// Logger writes trytebuffer events to L. A nil L discards them.
type Logger struct{ L *zap.Logger }

// New names the logger "trytebuffer" so buffer events are easy to filter.
func New(l *zap.Logger) Logger { return Logger{L: l.Named("trytebuffer")} }

func (z Logger) Debug(msg string, f tb.Fields) { z.log(zap.DebugLevel, msg, f) }
func (z Logger) Info(msg string, f tb.Fields)  { z.log(zap.InfoLevel, msg, f) }
func (z Logger) Warn(msg string, f tb.Fields)  { z.log(zap.WarnLevel, msg, f) }
func (z Logger) Error(msg string, f tb.Fields) { z.log(zap.ErrorLevel, msg, f) }

func (z Logger) log(lvl zapcore.Level, msg string, f tb.Fields) {
	if z.L == nil {
		return
	}
	if ce := z.L.Check(lvl, msg); ce != nil {
		ce.Write(fields(f)...)
	}
}

// fields emits keys in sorted order; error values use zap.NamedError.
func fields(f tb.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]zap.Field, 0, len(f))
	for _, k := range keys {
		switch v := f[k].(type) {
		case nil:
			continue
		case error:
			out = append(out, zap.NamedError(k, v))
		default:
			out = append(out, zap.Any(k, v))
		}
	}
	return out
}
