package config

import (
	"go.uber.org/zap"
)

// NewLogger builds the process logger. Development mode gets the console
// encoder, production gets JSON.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
