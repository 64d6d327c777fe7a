// Package logger builds log/slog loggers and provides attribute helpers used
// across the router for consistent, structured diagnostics.
//
// # Basic Usage
//
//	log := logger.New(
//		logger.WithDevelopment("commandserver"),
//		logger.WithLevel(slog.LevelDebug),
//	)
//
//	log.Info("queue drained",
//		logger.Component("dispatcher"),
//		logger.Count("delivered", 3),
//	)
//
// # Environment Configurations
//
//	logger.New(logger.WithDevelopment("app")) // text, debug
//	logger.New(logger.WithStaging("app"))     // json, info
//	logger.New(logger.WithProduction("app"))  // json, info
//
// # Context-Aware Logging
//
// Extractors pull attributes out of the context passed to the *Context
// logging methods:
//
//	log := logger.New(
//		logger.WithJSONFormatter(),
//		logger.WithContextExtractors(command.CommandIDExtractor),
//	)
//	log.InfoContext(ctx, "delivered") // carries command_id when ctx has one
//
// # Attribute Helpers
//
// Helpers return an empty slog.Attr for nil or empty input, so they can be
// passed unconditionally:
//
//	log.Warn("command dropped",
//		logger.Component("dispatcher"),
//		logger.Reason("unknown_identifier"),
//		logger.Error(err), // no-op when err is nil
//	)
package logger
