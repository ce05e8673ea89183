// Package logging provides the small logging facade used by the wallet
// adapter.
//
// Logger wraps the context-aware subset of log/slog. The default
// implementation is slog-backed; NewZap adapts a *zap.Logger for hosts that
// already run zap, and Discard drops everything.
//
//	logger := logging.New(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
//	logger.Info(ctx, "wallet opened", "session_id", id)
//
// Passwords, key material and raw storage contents must never be logged. Use
// Redacted to record that a value was deliberately left out:
//
//	logger.Debug(ctx, "open", "storage_path", path, logging.Redacted("password"))
//	// password="[redacted]"
package logging
