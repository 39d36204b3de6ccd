// Package logger builds slog loggers for the service and provides attribute
// helpers so that log keys stay consistent across packages.
//
// New returns a logger whose handler is wrapped by a context decorator: any
// registered ContextExtractor runs on every record, which is how request ids
// reach log lines without being passed around explicitly.
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.Env, cfg.Name),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "login succeeded", logger.UserID(id), logger.Role(role))
//
// Discard returns a logger that drops everything. Services use it as their
// default so a missing logger option never causes a nil dereference.
package logger
