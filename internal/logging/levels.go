package logging

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

// LevelFromString parses a level name, accepting "warning" in addition to
// zap's own names. Matching is case-insensitive.
func LevelFromString(level string) (zapcore.Level, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		return zapcore.WarnLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel, err
	}
	return l, nil
}
