package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the suite logger. Verbose switches the level to debug and
// uses the human-readable console encoder.
func New(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	config.EncoderConfig.TimeKey = "ts"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// Masked replaces a secret with asterisks of the same length so log lines
// still show whether a value was provided.
func Masked(key, secret string) zap.Field {
	masked := make([]byte, len(secret))
	for i := range masked {
		masked[i] = '*'
	}
	return zap.String(key, string(masked))
}
