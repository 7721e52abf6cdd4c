package logging

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestContextFields_Empty(t *testing.T) {
	assert.Empty(t, ContextFields(context.Background()))
}

func TestContextFields_RequestAndSource(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req_456")
	ctx = WithSource(ctx, "/data/conversations.json")

	fields := ContextFields(ctx)

	assert.Len(t, fields, 2)
	assertFieldExists(t, fields, "request.id", "req_456")
	assertFieldExists(t, fields, "archive.source", "/data/conversations.json")
}

func TestWithRequestID_InvalidPanics(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want string
	}{
		{"empty", "", "logging: requestID cannot be empty"},
		{"spaces", "req 1", "logging: requestID contains invalid characters (must be alphanumeric, hyphen, underscore)"},
		{"too long", strings.Repeat("a", maxIDLen+1), "logging: requestID exceeds max length 128"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.PanicsWithValue(t, tt.want, func() {
				WithRequestID(context.Background(), tt.id)
			})
		})
	}
}

func TestValidRequestID(t *testing.T) {
	assert.True(t, ValidRequestID("3f2c1a9e-7b1d-4c55-9a0e-2b8d6f1e4c00"))
	assert.False(t, ValidRequestID(""))
	assert.False(t, ValidRequestID("a/b"))
}

func TestWithSource_Truncates(t *testing.T) {
	ctx := WithSource(context.Background(), strings.Repeat("x", maxSourceLen+10))
	assert.Len(t, SourceFromContext(ctx), maxSourceLen)
}

func TestLogger_InContext(t *testing.T) {
	logger := NewNop()
	ctx := WithLogger(context.Background(), logger)

	assert.Same(t, logger, FromContext(ctx))
	assert.NotNil(t, FromContext(context.Background()))
}

func assertFieldExists(t *testing.T, fields []zap.Field, key, expected string) {
	t.Helper()
	for _, field := range fields {
		if field.Key == key && field.String == expected {
			return
		}
	}
	t.Errorf("field %q with value %q not found", key, expected)
}
