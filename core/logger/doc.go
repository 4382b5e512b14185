// Package logger provides structured logging utilities built on Go's standard slog package.
//
// Every component in this module accepts a *slog.Logger through a With*Logger option
// and falls back to Nop when none is given. This package builds those loggers and
// keeps attribute keys consistent across packages.
//
// # Basic Usage
//
//	import "github.com/dmitrymomot/fanout/core/logger"
//
//	// Development: text format, debug level, stdout
//	log := logger.New(logger.WithDevelopment("fanout"))
//
//	// Production: JSON format, info level, stdout
//	log := logger.New(logger.WithProduction("fanout"))
//
//	// Custom
//	log := logger.New(
//		logger.WithLevel(slog.LevelWarn),
//		logger.WithJSONFormatter(),
//		logger.WithOutput(os.Stderr),
//		logger.WithAttr(slog.String("region", "eu-1")),
//	)
//
// # Environment Configuration
//
// Config is tagged for caarlos0/env and is usually loaded with core/config:
//
//	var cfg logger.Config
//	config.MustLoad(&cfg) // LOG_LEVEL, LOG_FORMAT, LOG_SERVICE
//	log := logger.NewFromConfig(cfg)
//
// # Attribute Helpers
//
//	log.Warn("delivery failed",
//		logger.SubscriberID(id),
//		logger.Error(err),
//	)
//
// Helpers return an empty attribute for nil or zero input, which slog drops,
// so they can be passed without guarding.
package logger
