package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrNilConfig is returned when Load is given a nil pointer.
var ErrNilConfig = errors.New("config: nil config pointer")

var (
	cache      sync.Map // reflect.Type -> T
	dotenvOnce sync.Once
)

// Load fills cfg from the process environment. The first call for a type parses
// the environment (after loading .env, if present); later calls for the same type
// return the cached value.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return ErrNilConfig
	}

	typ := reflect.TypeFor[T]()
	if v, ok := cache.Load(typ); ok {
		*cfg = v.(T)
		return nil
	}

	dotenvOnce.Do(func() {
		// A missing .env file is normal outside local development.
		_ = godotenv.Load()
	})

	var fresh T
	if err := env.Parse(&fresh); err != nil {
		return fmt.Errorf("config: parse %s: %w", typ, err)
	}

	actual, _ := cache.LoadOrStore(typ, fresh)
	*cfg = actual.(T)
	return nil
}

// MustLoad is Load that panics on failure. Intended for process startup.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

// LoadFrom fills cfg from the given variables instead of the process environment.
// Defaults from envDefault tags still apply. The result is not cached.
func LoadFrom[T any](cfg *T, vars map[string]string) error {
	if cfg == nil {
		return ErrNilConfig
	}

	var fresh T
	if err := env.ParseWithOptions(&fresh, env.Options{Environment: vars}); err != nil {
		return fmt.Errorf("config: parse %s: %w", reflect.TypeFor[T](), err)
	}

	*cfg = fresh
	return nil
}
