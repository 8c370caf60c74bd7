// Package log provides the structured logger used across botconfig. It keeps
// a small Field-based API in front of logrus so callers never import logrus
// directly.
package log

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
)

// Level represents the severity level of a log message.
type Level int

// Log levels
const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

func (l Level) logrus() logrus.Level {
	switch l {
	case DebugLevel:
		return logrus.DebugLevel
	case WarnLevel:
		return logrus.WarnLevel
	case ErrorLevel:
		return logrus.ErrorLevel
	case FatalLevel:
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}

func levelFromLogrus(l logrus.Level) Level {
	switch l {
	case logrus.TraceLevel, logrus.DebugLevel:
		return DebugLevel
	case logrus.WarnLevel:
		return WarnLevel
	case logrus.ErrorLevel:
		return ErrorLevel
	case logrus.FatalLevel, logrus.PanicLevel:
		return FatalLevel
	default:
		return InfoLevel
	}
}

// Fields is a map of field names to values.
type Fields map[string]interface{}

// Context keys for propagating logging context
const (
	ComponentKey = "component"
	OperationKey = "operation"
	BotFileKey   = "bot_file"
)

// Logger defines the core logging interface for botconfig components.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	Debugf(msg string, args ...interface{})
	Infof(msg string, args ...interface{})
	Warnf(msg string, args ...interface{})
	Errorf(msg string, args ...interface{})

	WithField(key string, value interface{}) Logger
	WithFields(fields Fields) Logger
	WithError(err error) Logger
	With(fields ...Field) Logger

	// WithContext adds fields stored in ctx by ContextInjector
	WithContext(ctx context.Context) Logger

	// WithComponent tags logs with a component name
	WithComponent(component string) Logger

	SetLevel(level Level)
	GetLevel() Level
}

// LoggerOption is a function that configures a logger.
type LoggerOption func(*logrus.Logger)

type fieldsKeyType struct{}

var fieldsKey = fieldsKeyType{}

type loggerKeyType struct{}

var loggerKey = loggerKeyType{}

// ContextInjector returns a copy of ctx carrying fields, merged with any
// fields already present.
func ContextInjector(ctx context.Context, fields Fields) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	merged := Fields{}
	for k, v := range ContextExtractor(ctx) {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return context.WithValue(ctx, fieldsKey, merged)
}

// ContextExtractor returns the fields stored in ctx by ContextInjector.
func ContextExtractor(ctx context.Context) Fields {
	if ctx == nil {
		return Fields{}
	}
	if f, ok := ctx.Value(fieldsKey).(Fields); ok {
		return f
	}
	return Fields{}
}

// WithLogger adds a logger to a context.Context.
func WithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts a logger from ctx, falling back to the default
// logger enriched with any injected fields.
func FromContext(ctx context.Context) Logger {
	if ctx == nil {
		return defaultLogger
	}
	if logger, ok := ctx.Value(loggerKey).(Logger); ok {
		return logger
	}
	return defaultLogger.WithContext(ctx)
}

var defaultLogger Logger

func init() {
	defaultLogger = NewLogger(WithLevel(InfoLevel))
}

// SetDefaultLogger sets the global default logger.
func SetDefaultLogger(logger Logger) {
	defaultLogger = logger
}

// GetDefaultLogger returns the global default logger.
func GetDefaultLogger() Logger {
	return defaultLogger
}

func Debug(msg string, fields ...Field) { defaultLogger.Debug(msg, fields...) }
func Info(msg string, fields ...Field)  { defaultLogger.Info(msg, fields...) }
func Warn(msg string, fields ...Field)  { defaultLogger.Warn(msg, fields...) }
func Error(msg string, fields ...Field) { defaultLogger.Error(msg, fields...) }

func WithComponent(component string) Logger {
	return defaultLogger.WithComponent(component)
}

// NewLogger creates a new logger with the given options. Without options it
// writes text to stderr at info level.
func NewLogger(options ...LoggerOption) Logger {
	l := logrus.New()
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	for _, option := range options {
		option(l)
	}
	return &BaseLogger{entry: logrus.NewEntry(l)}
}

// WithLevel sets the minimum log level.
func WithLevel(level Level) LoggerOption {
	return func(l *logrus.Logger) {
		l.SetLevel(level.logrus())
	}
}

// WithFormatter sets the log formatter.
func WithFormatter(formatter logrus.Formatter) LoggerOption {
	return func(l *logrus.Logger) {
		l.SetFormatter(formatter)
	}
}

// WithOutput sets the destination writer.
func WithOutput(w io.Writer) LoggerOption {
	return func(l *logrus.Logger) {
		l.SetOutput(w)
	}
}

// WithHook adds a hook to the logger.
func WithHook(hook logrus.Hook) LoggerOption {
	return func(l *logrus.Logger) {
		l.AddHook(hook)
	}
}

// WithCaller enables reporting of the calling function.
func WithCaller(enabled bool) LoggerOption {
	return func(l *logrus.Logger) {
		l.SetReportCaller(enabled)
	}
}
