package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Config defines logging configuration.
type Config struct {
	// Level sets the minimum log level
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format sets the output format (json, text)
	Format string `json:"format" yaml:"format" mapstructure:"format"`

	// Output is stderr, stdout or a file path
	Output string `json:"output" yaml:"output" mapstructure:"output"`

	// EnableCaller enables adding caller information to logs
	EnableCaller bool `json:"enable_caller" yaml:"enable_caller" mapstructure:"enable_caller"`

	// RedactedFields lists fields redacted in addition to DefaultRedactedFields
	RedactedFields []string `json:"redacted_fields" yaml:"redacted_fields" mapstructure:"redacted_fields"`
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	return &Config{
		Level:  "info",
		Format: "text",
		Output: "stderr",
	}
}

// ApplyConfig creates a logger from a configuration. The returned closer
// releases a file output and is never nil.
func ApplyConfig(config *Config) (Logger, io.Closer, error) {
	if config == nil {
		config = DefaultConfig()
	}

	level, err := ParseLevel(config.Level)
	if err != nil {
		return nil, nil, err
	}

	options := []LoggerOption{
		WithLevel(level),
		WithCaller(config.EnableCaller),
		WithHook(NewRedactionHook(append(append([]string{}, DefaultRedactedFields...), config.RedactedFields...))),
	}

	switch strings.ToLower(config.Format) {
	case "json":
		options = append(options, WithFormatter(&logrus.JSONFormatter{}))
	case "text", "":
		options = append(options, WithFormatter(&logrus.TextFormatter{FullTimestamp: true}))
	default:
		return nil, nil, fmt.Errorf("invalid log format: %s", config.Format)
	}

	var closer io.Closer = nopCloser{}
	switch out := strings.TrimSpace(config.Output); strings.ToLower(out) {
	case "", "stderr":
		options = append(options, WithOutput(os.Stderr))
	case "stdout":
		options = append(options, WithOutput(os.Stdout))
	default:
		f, err := os.OpenFile(os.ExpandEnv(out), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		options = append(options, WithOutput(f))
		closer = f
	}

	return NewLogger(options...), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// ParseLevel parses a level string into a Level.
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel, nil
	case "info", "":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "fatal":
		return FatalLevel, nil
	default:
		return InfoLevel, fmt.Errorf("unknown log level: %s", level)
	}
}
