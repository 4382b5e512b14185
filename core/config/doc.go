// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package automatically loads .env files on first use and uses the
// caarlos0/env library for parsing environment variables into struct fields.
//
// Basic usage:
//
//	import "github.com/dmitrymomot/fanout/core/config"
//
//	func main() {
//		var cfg broadcast.Config
//
//		// Load with error handling
//		if err := config.Load(&cfg); err != nil {
//			log.Fatal(err)
//		}
//
//		// Or panic on failure (useful for startup)
//		config.MustLoad(&cfg)
//
//		b := broadcast.NewFromConfig[event.Event](cfg)
//	}
//
// # Caching Behavior
//
// Each configuration type is loaded only once per application lifetime:
//
//	var cfg1 broadcast.Config
//	config.Load(&cfg1) // Loads from environment
//
//	var cfg2 broadcast.Config
//	config.Load(&cfg2) // Returns cached value, cfg1 == cfg2
//
// Different types are cached independently:
//
//	config.MustLoad(&broadcast.Config{})
//	config.MustLoad(&logger.Config{})
//
// # Explicit Variables
//
// LoadFrom parses a given map instead of the process environment and bypasses
// the cache, which keeps tests independent of os.Environ:
//
//	var cfg broadcast.Config
//	err := config.LoadFrom(&cfg, map[string]string{
//		"BROADCAST_WAIT_MODE": "poll",
//	})
package config
