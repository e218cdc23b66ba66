// Package logger provides structured logging using Zap.
package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	base *zap.Logger
	once sync.Once
)

// Init initializes the global logger for the given environment.
// For "production", it uses a JSON encoder. For all other environments,
// it uses a human-readable console encoder.
func Init(env string) {
	once.Do(func() {
		var err error
		if env == "production" {
			base, err = zap.NewProduction()
		} else {
			base, err = zap.NewDevelopment()
		}

		if err != nil {
			// Fallback to nop logger if initialization fails.
			base = zap.NewNop()
		}
	})
}

// L returns the global logger.
// If Init has not been called, it initializes a development logger.
func L() *zap.Logger {
	if base == nil {
		Init("development")
	}
	return base
}

// Get returns the global sugared logger.
func Get() *zap.SugaredLogger {
	return L().Sugar()
}

// Named returns a child logger for one component.
func Named(component string) *zap.Logger {
	return L().Named(component)
}

// Sync flushes any buffered log entries. Call this before application exit.
func Sync() {
	if base != nil {
		_ = base.Sync()
	}
}
