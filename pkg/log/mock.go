package log

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// TestEntry represents a captured log entry for testing
type TestEntry struct {
	Level   Level
	Message string
	Fields  []Field
}

type testSink struct {
	mu      sync.Mutex
	entries []TestEntry
}

// TestLogger is a Logger implementation for testing that captures logs
// without producing output. Loggers derived with With* share the captured
// entries of their parent.
type TestLogger struct {
	sink   *testSink
	fields []Field
	level  Level
}

// NewTestLogger creates a new TestLogger for use in unit tests
func NewTestLogger() *TestLogger {
	return &TestLogger{
		sink:  &testSink{},
		level: DebugLevel,
	}
}

// GetEntries returns all captured log entries
func (l *TestLogger) GetEntries() []TestEntry {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	result := make([]TestEntry, len(l.sink.entries))
	copy(result, l.sink.entries)
	return result
}

// ClearEntries clears all captured log entries
func (l *TestLogger) ClearEntries() {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.entries = nil
}

func (l *TestLogger) Debug(msg string, fields ...Field) { l.log(DebugLevel, msg, fields) }
func (l *TestLogger) Info(msg string, fields ...Field)  { l.log(InfoLevel, msg, fields) }
func (l *TestLogger) Warn(msg string, fields ...Field)  { l.log(WarnLevel, msg, fields) }
func (l *TestLogger) Error(msg string, fields ...Field) { l.log(ErrorLevel, msg, fields) }

// Fatal records a fatal entry; it does not exit.
func (l *TestLogger) Fatal(msg string, fields ...Field) { l.log(FatalLevel, msg, fields) }

func (l *TestLogger) Debugf(format string, args ...interface{}) {
	l.log(DebugLevel, fmt.Sprintf(format, args...), nil)
}

func (l *TestLogger) Infof(format string, args ...interface{}) {
	l.log(InfoLevel, fmt.Sprintf(format, args...), nil)
}

func (l *TestLogger) Warnf(format string, args ...interface{}) {
	l.log(WarnLevel, fmt.Sprintf(format, args...), nil)
}

func (l *TestLogger) Errorf(format string, args ...interface{}) {
	l.log(ErrorLevel, fmt.Sprintf(format, args...), nil)
}

func (l *TestLogger) log(level Level, msg string, fields []Field) {
	if level < l.level {
		return
	}
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	allFields := make([]Field, 0, len(l.fields)+len(fields))
	allFields = append(allFields, l.fields...)
	allFields = append(allFields, fields...)

	l.sink.entries = append(l.sink.entries, TestEntry{
		Level:   level,
		Message: msg,
		Fields:  allFields,
	})
}

// WithField returns a new logger with a field added to the context
func (l *TestLogger) WithField(key string, value interface{}) Logger {
	return l.With(Any(key, value))
}

// WithFields returns a new logger with fields added to the context
func (l *TestLogger) WithFields(fields Fields) Logger {
	extra := make([]Field, 0, len(fields))
	for k, v := range fields {
		extra = append(extra, Any(k, v))
	}
	return l.With(extra...)
}

// WithError returns a new logger with an error field
func (l *TestLogger) WithError(err error) Logger {
	return l.With(Err(err))
}

// With returns a new logger with the provided fields added to the context
func (l *TestLogger) With(fields ...Field) Logger {
	newLogger := &TestLogger{
		sink:   l.sink,
		level:  l.level,
		fields: make([]Field, 0, len(l.fields)+len(fields)),
	}
	newLogger.fields = append(newLogger.fields, l.fields...)
	newLogger.fields = append(newLogger.fields, fields...)
	return newLogger
}

// WithContext returns a new logger with context values extracted as fields
func (l *TestLogger) WithContext(ctx context.Context) Logger {
	if ctx == nil {
		return l
	}
	return l.WithFields(ContextExtractor(ctx))
}

// WithComponent returns a new logger with a component field
func (l *TestLogger) WithComponent(component string) Logger {
	return l.With(Str(ComponentKey, component))
}

// SetLevel sets the minimum log level
func (l *TestLogger) SetLevel(level Level) {
	l.level = level
}

// GetLevel returns the current minimum log level
func (l *TestLogger) GetLevel() Level {
	return l.level
}

// AssertLogged returns true if a log entry with the given level and message was captured
func (l *TestLogger) AssertLogged(level Level, containsMessage string) bool {
	for _, entry := range l.GetEntries() {
		if entry.Level == level && strings.Contains(entry.Message, containsMessage) {
			return true
		}
	}
	return false
}

// AssertLoggedWithField returns true if a log entry with the given level, message,
// and field key/value was captured
func (l *TestLogger) AssertLoggedWithField(level Level, containsMessage string, key string, value interface{}) bool {
	for _, entry := range l.GetEntries() {
		if entry.Level != level || !strings.Contains(entry.Message, containsMessage) {
			continue
		}
		for _, field := range entry.Fields {
			if field.Key == key && fmt.Sprintf("%v", field.Value) == fmt.Sprintf("%v", value) {
				return true
			}
		}
	}
	return false
}
