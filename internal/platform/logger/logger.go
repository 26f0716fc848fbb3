package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap with service-wide defaults. Level and format come from
// the environment (LOG_LEVEL, LOG_FORMAT).
type Logger struct {
	*zap.Logger
}

var (
	globalLogger *Logger
	once         sync.Once
)

// NewLogger initializes the global logger. It is designed to be called once;
// subsequent calls return the existing instance.
func NewLogger() *Logger {
	once.Do(func() {
		level := strings.ToLower(getEnv("LOG_LEVEL", "info"))
		format := strings.ToLower(getEnv("LOG_FORMAT", "json"))

		var zapConfig zap.Config
		if level == "debug" {
			zapConfig = zap.NewDevelopmentConfig()
			zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		} else {
			zapConfig = zap.NewProductionConfig()
			zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		}

		if err := zapConfig.Level.UnmarshalText([]byte(level)); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: invalid LOG_LEVEL %q, defaulting to info: %v\n", level, err)
			zapConfig.Level.SetLevel(zapcore.InfoLevel)
		}

		if format == "console" || format == "text" {
			zapConfig.Encoding = "console"
			zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		} else {
			zapConfig.Encoding = "json"
		}

		built, err := zapConfig.Build(zap.AddCallerSkip(1))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing zap logger: %v. Falling back to production defaults.\n", err)
			built, _ = zap.NewProduction()
		}

		globalLogger = &Logger{Logger: built}
		globalLogger.Info("Logger initialized", zap.String("level", level), zap.String("format", format))
	})
	return globalLogger
}

// Named adds a new path segment to the logger's name, for contextual logging
// within different parts of the application.
func (l *Logger) Named(name string) *Logger {
	return &Logger{Logger: l.Logger.Named(name)}
}

// With adds structured context to the logger.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{Logger: l.Logger.With(fields...)}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
