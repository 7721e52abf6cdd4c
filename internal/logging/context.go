// internal/logging/context.go
package logging

import (
	"context"
	"fmt"
	"regexp"
	"unicode/utf8"

	"go.uber.org/zap"
)

// ContextFields extracts correlation data from context.
func ContextFields(ctx context.Context) []zap.Field {
	fields := make([]zap.Field, 0, 2)

	if requestID := RequestIDFromContext(ctx); requestID != "" {
		fields = append(fields, zap.String("request.id", requestID))
	}

	if source := SourceFromContext(ctx); source != "" {
		fields = append(fields, zap.String("archive.source", source))
	}

	return fields
}

type requestCtxKey struct{}
type sourceCtxKey struct{}

const (
	maxIDLen     = 128
	maxSourceLen = 4096
)

var idPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// validateID validates a request ID.
func validateID(id, name string) error {
	if id == "" {
		return fmt.Errorf("%s cannot be empty", name)
	}
	if !utf8.ValidString(id) {
		return fmt.Errorf("%s contains invalid UTF-8", name)
	}
	if len(id) > maxIDLen {
		return fmt.Errorf("%s exceeds max length %d", name, maxIDLen)
	}
	if !idPattern.MatchString(id) {
		return fmt.Errorf("%s contains invalid characters (must be alphanumeric, hyphen, underscore)", name)
	}
	return nil
}

// RequestIDFromContext extracts request ID from context.
func RequestIDFromContext(ctx context.Context) string {
	if r, ok := ctx.Value(requestCtxKey{}).(string); ok {
		return r
	}
	return ""
}

// WithRequestID adds request ID to context.
// Panics if requestID is empty or contains invalid characters.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if err := validateID(requestID, "requestID"); err != nil {
		panic(fmt.Sprintf("logging: %v", err))
	}
	return context.WithValue(ctx, requestCtxKey{}, requestID)
}

// SourceFromContext returns the archive source (path or upload label).
func SourceFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(sourceCtxKey{}).(string); ok {
		return s
	}
	return ""
}

// WithSource records which archive an operation works on. Overlong values
// are truncated rather than rejected.
func WithSource(ctx context.Context, source string) context.Context {
	if len(source) > maxSourceLen {
		source = source[:maxSourceLen]
	}
	return context.WithValue(ctx, sourceCtxKey{}, source)
}

type loggerCtxKey struct{}

// WithLogger stores logger in context.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, logger)
}

// FromContext retrieves logger from context.
// Returns a nop logger if not found.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerCtxKey{}).(*Logger); ok {
		return l
	}
	return NewNop()
}

// ValidRequestID reports whether id can be passed to WithRequestID.
func ValidRequestID(id string) bool {
	return validateID(id, "requestID") == nil
}
