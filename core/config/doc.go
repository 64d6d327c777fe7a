// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// A .env file is loaded on first use (github.com/joho/godotenv) and struct
// fields are populated by github.com/caarlos0/env.
//
//	type RouterConfig struct {
//		SimpleLink string        `env:"ROUTER_SIMPLE_LINK" envDefault:"UART0"`
//		Timeout    time.Duration `env:"ROUTER_ACQUIRE_TIMEOUT" envDefault:"100ms"`
//	}
//
//	var cfg RouterConfig
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
//	// Or panic on failure during startup
//	config.MustLoad(&cfg)
//
// # Caching Behavior
//
// Different types are cached independently. Use Parse to bypass the cache
// and Reset to clear it in tests.
package config
