// Package logging provides structured logging for convsplit.
//
// # Overview
//
// Logging package wraps Zap with:
//   - Output to stderr by default so command output on stdout stays clean
//   - Automatic context field injection (request.id, archive.source)
//   - Encoder-level secret redaction
//   - Sampling of repeated entries below Error
//
// # Usage
//
//	cfg := logging.NewDefaultConfig()
//	logger, err := logging.NewLogger(cfg)
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
//	ctx = logging.WithSource(ctx, "conversations.json")
//	logger.Info(ctx, "archive loaded", zap.Int("conversations", n))
//
// # Configuration Precedence
//
//  1. Defaults (NewDefaultConfig)
//  2. logging section of config.yaml (level, format)
//  3. Environment variables (CONVSPLIT_LOGGING_LEVEL, CONVSPLIT_LOGGING_FORMAT)
//  4. The --log-level flag
//
// # Testing
//
//	tl := logging.NewTestLogger()
//	tl.Info(ctx, "test message", zap.String("key", "value"))
//	tl.AssertLogged(t, zapcore.InfoLevel, "test message")
//	tl.AssertField(t, "test message", "key", "value")
//
// Logger is safe for concurrent use. Child loggers (With, Named) are
// independent and do not affect parent or siblings.
package logging
