package logging

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestLogger is a Logger that records every entry, down to debug, for
// assertions in tests.
type TestLogger struct {
	*Logger
	observed *observer.ObservedLogs
}

// NewTestLogger creates an observing logger.
func NewTestLogger() *TestLogger {
	core, observed := observer.New(zapcore.DebugLevel)
	return &TestLogger{
		Logger: &Logger{
			zap:    zap.New(core),
			config: NewDefaultConfig(),
		},
		observed: observed,
	}
}

// All returns all logged entries.
func (t *TestLogger) All() []observer.LoggedEntry {
	return t.observed.All()
}

// FilterMessage returns entries whose message contains msg.
func (t *TestLogger) FilterMessage(msg string) *observer.ObservedLogs {
	return t.observed.FilterMessageSnippet(msg)
}

// Reset clears all logged entries.
func (t *TestLogger) Reset() {
	t.observed.TakeAll()
}

// AssertLogged fails unless an entry at level contains msgContains.
func (t *TestLogger) AssertLogged(tb testing.TB, level zapcore.Level, msgContains string) {
	tb.Helper()
	if t.observed.FilterLevelExact(level).FilterMessageSnippet(msgContains).Len() == 0 {
		tb.Errorf("expected log at %v containing %q, logs: %+v", level, msgContains, t.observed.All())
	}
}

// AssertNotLogged fails if an entry at level contains msgContains.
func (t *TestLogger) AssertNotLogged(tb testing.TB, level zapcore.Level, msgContains string) {
	tb.Helper()
	if t.observed.FilterLevelExact(level).FilterMessageSnippet(msgContains).Len() > 0 {
		tb.Errorf("unexpected log at %v containing %q", level, msgContains)
	}
}

// AssertField fails unless an entry whose message contains msg carries
// key with the expected value.
func (t *TestLogger) AssertField(tb testing.TB, msg, key string, expected interface{}) {
	tb.Helper()
	for _, entry := range t.observed.FilterMessageSnippet(msg).All() {
		if v, ok := entry.ContextMap()[key]; ok && reflect.DeepEqual(v, expected) {
			return
		}
	}
	tb.Errorf("field %q=%v not found in message %q", key, expected, msg)
}

// AssertNotLeaked fails if text appears in any message or field value.
// Archive content (titles, message text, queries) must never reach logs.
func (t *TestLogger) AssertNotLeaked(tb testing.TB, text string) {
	tb.Helper()
	for _, entry := range t.observed.All() {
		if strings.Contains(entry.Message, text) {
			tb.Errorf("%q leaked into log message %q", text, entry.Message)
		}
		for key, v := range entry.ContextMap() {
			if strings.Contains(fmt.Sprint(v), text) {
				tb.Errorf("%q leaked into field %q of %q", text, key, entry.Message)
			}
		}
	}
}
