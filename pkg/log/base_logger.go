package log

import (
	"context"

	"github.com/sirupsen/logrus"
)

// BaseLogger implements Logger on top of a logrus entry.
type BaseLogger struct {
	entry *logrus.Entry
}

func toLogrusFields(fields []Field) logrus.Fields {
	out := make(logrus.Fields, len(fields))
	for _, f := range fields {
		out[f.Key] = f.Value
	}
	return out
}

func (l *BaseLogger) withFields(fields []Field) *logrus.Entry {
	if len(fields) == 0 {
		return l.entry
	}
	return l.entry.WithFields(toLogrusFields(fields))
}

// Debug logs a message at the debug level with fields.
func (l *BaseLogger) Debug(msg string, fields ...Field) {
	l.withFields(fields).Debug(msg)
}

// Info logs a message at the info level with fields.
func (l *BaseLogger) Info(msg string, fields ...Field) {
	l.withFields(fields).Info(msg)
}

// Warn logs a message at the warn level with fields.
func (l *BaseLogger) Warn(msg string, fields ...Field) {
	l.withFields(fields).Warn(msg)
}

// Error logs a message at the error level with fields.
func (l *BaseLogger) Error(msg string, fields ...Field) {
	l.withFields(fields).Error(msg)
}

// Fatal logs a message at the fatal level with fields and then exits.
func (l *BaseLogger) Fatal(msg string, fields ...Field) {
	l.withFields(fields).Fatal(msg)
}

func (l *BaseLogger) Debugf(msg string, args ...interface{}) { l.entry.Debugf(msg, args...) }
func (l *BaseLogger) Infof(msg string, args ...interface{})  { l.entry.Infof(msg, args...) }
func (l *BaseLogger) Warnf(msg string, args ...interface{})  { l.entry.Warnf(msg, args...) }
func (l *BaseLogger) Errorf(msg string, args ...interface{}) { l.entry.Errorf(msg, args...) }

// WithField returns a new logger with the field added to it.
func (l *BaseLogger) WithField(key string, value interface{}) Logger {
	return &BaseLogger{entry: l.entry.WithField(key, value)}
}

// WithFields returns a new logger with the fields added to it.
func (l *BaseLogger) WithFields(fields Fields) Logger {
	if len(fields) == 0 {
		return l
	}
	return &BaseLogger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

// With adds fields to the logger.
func (l *BaseLogger) With(fields ...Field) Logger {
	if len(fields) == 0 {
		return l
	}
	return &BaseLogger{entry: l.withFields(fields)}
}

// WithError returns a new logger with the error added as a field.
func (l *BaseLogger) WithError(err error) Logger {
	if err == nil {
		return l
	}
	return &BaseLogger{entry: l.entry.WithError(err)}
}

// WithContext returns a new logger with fields from the context.
func (l *BaseLogger) WithContext(ctx context.Context) Logger {
	if ctx == nil {
		return l
	}
	return l.WithFields(ContextExtractor(ctx))
}

// WithComponent returns a new logger with the component field added.
func (l *BaseLogger) WithComponent(component string) Logger {
	return l.WithField(ComponentKey, component)
}

// SetLevel sets the minimum log level. The level is shared with every
// logger derived from the same root.
func (l *BaseLogger) SetLevel(level Level) {
	l.entry.Logger.SetLevel(level.logrus())
}

// GetLevel returns the current minimum log level.
func (l *BaseLogger) GetLevel() Level {
	return levelFromLogrus(l.entry.Logger.GetLevel())
}
