// Package logging provides structured logging for iocx.
//
// # Overview
//
// Logging package wraps Zap with:
//   - Custom Trace level (-2, below Debug)
//   - JSON or console output to any writer (the CLI uses stderr)
//   - Automatic context field injection (request.id, source)
//   - Indicator defanging, so logged URLs and hosts are never clickable
//   - Level-aware sampling (errors never sampled)
//
// # Usage
//
// Create logger from config:
//
//	cfg := logging.NewDefaultConfig()
//	logger, err := logging.NewLogger(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Sync()
//
// Log with context:
//
//	ctx = logging.WithRequestID(ctx, "req_123")
//	logger.Info(ctx, "extraction finished", zap.Int("indicators", n))
//
// # Defanging
//
// Indicator values are rewritten before they reach the encoder:
//
//	https://evil.example.com/x -> hxxps[://]evil[.]example[.]com/x
//	johndoe@example.com        -> johndoe[@]example[.]com
//
// Use the Logger.Indicator field helper, or list field names under
// Config.Defang.Fields to defang them at the encoder. Config.Defang.Enabled
// set to false turns off both.
//
// # Testing
//
// Use TestLogger for test assertions:
//
//	tl := logging.NewTestLogger()
//	tl.Info(ctx, "test message", zap.String("key", "value"))
//	tl.AssertLogged(t, zapcore.InfoLevel, "test message")
//	tl.AssertField(t, "test message", "key", "value")
//	tl.AssertNoLiveIndicators(t)
//
// # Concurrency Safety
//
// Logger is safe for concurrent use. Child loggers (With, Named) are
// independent and do not affect parent or siblings.
package logging
