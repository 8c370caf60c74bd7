package log

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// Redacted replaces the value of a redacted field.
const Redacted = "[REDACTED]"

// DefaultRedactedFields are always redacted: the bot secret and every
// encrypted service field.
var DefaultRedactedFields = []string{
	"secret",
	"secretKey",
	"appPassword",
	"authoringKey",
	"subscriptionKey",
	"endpointKey",
}

// RedactionHook redacts sensitive values from log entries. Field names are
// matched case-insensitively.
type RedactionHook struct {
	fields map[string]struct{}
}

// NewRedactionHook creates a new redaction hook.
func NewRedactionHook(fields []string) *RedactionHook {
	h := &RedactionHook{fields: make(map[string]struct{}, len(fields))}
	for _, f := range fields {
		h.fields[strings.ToLower(f)] = struct{}{}
	}
	return h
}

// Levels returns the levels this hook should be called for.
func (h *RedactionHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire executes the hook's logic for a log entry.
func (h *RedactionHook) Fire(entry *logrus.Entry) error {
	for k := range entry.Data {
		if _, ok := h.fields[strings.ToLower(k)]; ok {
			entry.Data[k] = Redacted
		}
	}
	return nil
}
