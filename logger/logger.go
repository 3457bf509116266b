package logger

import (
	"io"
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
	// No-op until Initialize so packages can log before the CLI sets up output
	Logger = zap.NewNop().Sugar()
}

// Options configure the global logger
type Options struct {
	// JSON selects zap's production JSON encoder instead of the console one
	JSON bool
	// Verbosity is the count of -v flags
	Verbosity int
	// NoColor disables ANSI colors in console output
	NoColor bool
	// Output defaults to stderr
	Output io.Writer
}

// Initialize sets up the global logger
func Initialize(opts Options) error {
	JSONOutput = opts.JSON

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	level := VerbosityToLevel(opts.Verbosity)

	var encoder zapcore.Encoder
	if opts.JSON {
		// JSON structured output for machine consumption
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		// Human-readable console output with minimal, calm formatting
		encoder = newMinimalEncoder(!opts.NoColor)
	}

	Logger = zap.New(zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(out)), level)).Sugar()
	return nil
}

// Cleanup flushes any buffered log entries
func Cleanup() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

// Infow logs an info message with structured fields
func Infow(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Infow(msg, keysAndValues...)
	}
}

// Errorw logs an error message with structured fields
func Errorw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Errorw(msg, keysAndValues...)
	}
}

// Warnw logs a warning message with structured fields
func Warnw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Warnw(msg, keysAndValues...)
	}
}

// Debugw logs a debug message with structured fields
func Debugw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Debugw(msg, keysAndValues...)
	}
}
