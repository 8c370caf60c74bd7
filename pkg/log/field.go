package log

import (
	"time"
)

// Field represents a structured log field with a key and value
type Field struct {
	Key   string
	Value interface{}
}

// Err creates an error field
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{
		Key:   "error",
		Value: err.Error(),
	}
}

// Int creates an integer field
func Int(key string, value int) Field {
	return Field{
		Key:   key,
		Value: value,
	}
}

// Str creates a string field
func Str(key, value string) Field {
	return Field{
		Key:   key,
		Value: value,
	}
}

// Bool creates a boolean field
func Bool(key string, value bool) Field {
	return Field{
		Key:   key,
		Value: value,
	}
}

// Duration creates a duration field
func Duration(key string, value time.Duration) Field {
	return Field{
		Key:   key,
		Value: value,
	}
}

// Any creates a field for any value
func Any(key string, value interface{}) Field {
	return Field{
		Key:   key,
		Value: value,
	}
}

// Component creates a component field, useful for tagging logs with a component name
func Component(value string) Field {
	return Field{
		Key:   ComponentKey,
		Value: value,
	}
}

// BotFile creates a field naming the bot file being processed
func BotFile(path string) Field {
	return Field{
		Key:   BotFileKey,
		Value: path,
	}
}
