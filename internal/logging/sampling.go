package logging

import (
	"go.uber.org/zap/zapcore"
)

// newSampledCore samples entries below Error at one shared rate. Error and
// above always pass.
func newSampledCore(core zapcore.Core, cfg SamplingConfig) zapcore.Core {
	if !cfg.Enabled {
		return core
	}
	return zapcore.NewTee(
		zapcore.NewSamplerWithOptions(
			&severityCore{Core: core},
			cfg.Tick.Duration(),
			cfg.Initial,
			cfg.Thereafter,
		),
		&severityCore{Core: core, errors: true},
	)
}

// severityCore passes either entries below Error or, with errors set, only
// Error and above.
type severityCore struct {
	zapcore.Core
	errors bool
}

func (c *severityCore) Enabled(lvl zapcore.Level) bool {
	return (lvl >= zapcore.ErrorLevel) == c.errors && c.Core.Enabled(lvl)
}

func (c *severityCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(e.Level) {
		return ce
	}
	return c.Core.Check(e, ce)
}

func (c *severityCore) With(fields []zapcore.Field) zapcore.Core {
	return &severityCore{Core: c.Core.With(fields), errors: c.errors}
}
