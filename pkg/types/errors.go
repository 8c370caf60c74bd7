package types

import (
	"errors"
	"fmt"
)

// ValidationError represents an error that occurs during validation.
type ValidationError struct {
	Message string
}

// Error returns the error message.
func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a new ValidationError with the given message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		Message: message,
	}
}

// IsValidationError checks if an error is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// WrapValidationError wraps an error with additional context.
func WrapValidationError(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}

	message := fmt.Sprintf(format, args...)
	if ve, ok := err.(*ValidationError); ok {
		return &ValidationError{
			Message: fmt.Sprintf("%s: %s", message, ve.Message),
		}
	}

	return &ValidationError{
		Message: fmt.Sprintf("%s: %v", message, err),
	}
}

// FileNotFoundError is returned when a bot file does not exist.
type FileNotFoundError struct {
	Path string
	Err  error
}

func (e *FileNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bot file %q not found: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("bot file %q not found", e.Path)
}

func (e *FileNotFoundError) Unwrap() error { return e.Err }

// NewFileNotFoundError creates a FileNotFoundError for path.
func NewFileNotFoundError(path string, err error) *FileNotFoundError {
	return &FileNotFoundError{Path: path, Err: err}
}

// IsFileNotFoundError checks if an error is a FileNotFoundError.
func IsFileNotFoundError(err error) bool {
	var fe *FileNotFoundError
	return errors.As(err, &fe)
}

// ParseError is returned when bot file content is not valid structured data.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse bot file %q: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NewParseError creates a ParseError for path.
func NewParseError(path string, err error) *ParseError {
	return &ParseError{Path: path, Err: err}
}

// IsParseError checks if an error is a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// DecryptionError is returned when an encrypted field cannot be recovered,
// either because the secret is wrong or the ciphertext is corrupt.
type DecryptionError struct {
	// Service is the id (or name) of the service owning the field, empty when
	// the error is not tied to a bot file.
	Service string
	Field   string
	Err     error
}

func (e *DecryptionError) Error() string {
	if e.Service == "" && e.Field == "" {
		return fmt.Sprintf("decryption failed: %v", e.Err)
	}
	return fmt.Sprintf("failed to decrypt %s of service %q: %v", e.Field, e.Service, e.Err)
}

func (e *DecryptionError) Unwrap() error { return e.Err }

// NewDecryptionError creates a DecryptionError.
func NewDecryptionError(service, field string, err error) *DecryptionError {
	return &DecryptionError{Service: service, Field: field, Err: err}
}

// IsDecryptionError checks if an error is a DecryptionError.
func IsDecryptionError(err error) bool {
	var de *DecryptionError
	return errors.As(err, &de)
}

// NotFoundError is returned when a service lookup misses.
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

// NewNotFoundError creates a NotFoundError.
func NewNotFoundError(kind, key string) *NotFoundError {
	return &NotFoundError{Kind: kind, Key: key}
}

// IsNotFoundError checks if an error is a NotFoundError.
func IsNotFoundError(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}
