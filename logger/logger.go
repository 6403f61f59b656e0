package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global logger instance
	Logger *zap.SugaredLogger
	// Flag to track if JSON output is enabled
	JSONOutput bool
)

func init() {
	// Safe no-op logger until Initialize is called, so library use and tests never hit nil
	Logger = zap.NewNop().Sugar()
}

// Initialize sets up the global logger.
// Human-readable output goes to stderr so stdout stays reserved for results.
func Initialize(jsonOutput bool, verbosity int) error {
	l, err := New(zapcore.AddSync(os.Stderr), jsonOutput, verbosity)
	if err != nil {
		return err
	}
	JSONOutput = jsonOutput
	Logger = l
	return nil
}

// New builds a sugared logger writing to w at the level implied by verbosity.
func New(w zapcore.WriteSyncer, jsonOutput bool, verbosity int) (*zap.SugaredLogger, error) {
	level := VerbosityToLevel(verbosity)

	if jsonOutput {
		// JSON structured output for machine consumption
		core := zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			w,
			level,
		)
		return zap.New(core).Sugar(), nil
	}

	core := zapcore.NewCore(newMinimalEncoder(colorEnabled()), w, level)
	return zap.New(core).Sugar(), nil
}

// colorEnabled honours the NO_COLOR convention
func colorEnabled() bool {
	_, set := os.LookupEnv("NO_COLOR")
	return !set
}

// Cleanup flushes any buffered log entries
func Cleanup() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

// Named returns a child of the global logger for a component
func Named(component string) *zap.SugaredLogger {
	return Logger.Named(component)
}

// Infow logs an info message with structured fields
func Infow(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Infow(msg, keysAndValues...)
	}
}

// Warnw logs a warning message with structured fields
func Warnw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Warnw(msg, keysAndValues...)
	}
}

// Errorw logs an error message with structured fields
func Errorw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Errorw(msg, keysAndValues...)
	}
}

// Debugw logs a debug message with structured fields
func Debugw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Debugw(msg, keysAndValues...)
	}
}
