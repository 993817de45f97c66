// Package logrus adapts a *logrus.Entry to trytebuffer.Logger.
package logrus

import (
	"github.com/sirupsen/logrus"
	tb "github.com/unkn0wn-root/trytebuffer"
)

var _ tb.Logger = Logger{}

// Logger writes to E. A nil E discards everything.
type Logger struct{ E *logrus.Entry }

// New tags every entry with component=trytebuffer.
func New(l *logrus.Logger) Logger {
	return Logger{E: l.WithField("component", "trytebuffer")}
}

func (l Logger) Debug(msg string, f tb.Fields) { l.log(logrus.DebugLevel, msg, f) }
func (l Logger) Info(msg string, f tb.Fields)  { l.log(logrus.InfoLevel, msg, f) }
func (l Logger) Warn(msg string, f tb.Fields)  { l.log(logrus.WarnLevel, msg, f) }
func (l Logger) Error(msg string, f tb.Fields) { l.log(logrus.ErrorLevel, msg, f) }

func (l Logger) log(lvl logrus.Level, msg string, f tb.Fields) {
	if l.E == nil || !l.E.Logger.IsLevelEnabled(lvl) {
		return
	}
	l.E.WithFields(fields(f)).Log(lvl, msg)
}

// fields drops nil values and renders errors as strings so JSON formatters
// do not emit them as {}.
func fields(f tb.Fields) logrus.Fields {
	out := make(logrus.Fields, len(f))
	for k, v := range f {
		switch v := v.(type) {
		case nil:
		case error:
			out[k] = v.Error()
		default:
			out[k] = v
		}
	}
	return out
}
