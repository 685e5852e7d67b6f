package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/teranos/schemagen/errors"
)

var (
	// Global logger instance
	Logger *zap.SugaredLogger
	// Flag to track if JSON output is enabled
	JSONOutput bool
)

func init() {
	// Safe no-op logger until Initialize is called, so library use never panics
	Logger = zap.NewNop().Sugar()
}

// Initialize sets up the global logger on stderr. Stdout is reserved for
// the generated dump, so nothing is ever logged there.
// Verbosity is the CLI -v count; see VerbosityToLevel for the mapping.
func Initialize(jsonOutput bool, verbosity int) error {
	return InitializeWith(zapcore.Lock(os.Stderr), jsonOutput, verbosity)
}

// InitializeWith sets up the global logger writing to sink.
func InitializeWith(sink zapcore.WriteSyncer, jsonOutput bool, verbosity int) error {
	if sink == nil {
		return errors.New("logger: nil sink")
	}
	JSONOutput = jsonOutput

	encoder := consoleEncoder()
	if jsonOutput {
		encoder = jsonEncoder()
	}

	var opts []zap.Option
	if ShouldLogTrace(verbosity) {
		// -vvv: show where warnings were raised from
		opts = append(opts, zap.AddStacktrace(zapcore.WarnLevel))
	}

	core := zapcore.NewCore(encoder, sink, VerbosityToLevel(verbosity))
	Logger = zap.New(core, opts...).Sugar()
	return nil
}

// consoleEncoder prints "WARN  typegen  message  {fields}" without timestamps
func consoleEncoder() zapcore.Encoder {
	cfg := zapcore.EncoderConfig{
		LevelKey:         "level",
		NameKey:          FieldComponent,
		MessageKey:       "msg",
		StacktraceKey:    "stack",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalColorLevelEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: "  ",
	}
	return zapcore.NewConsoleEncoder(cfg)
}

// jsonEncoder emits one object per line with the component as a field
func jsonEncoder() zapcore.Encoder {
	cfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        FieldComponent,
		MessageKey:     "msg",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeName:     zapcore.FullNameEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
	}
	return zapcore.NewJSONEncoder(cfg)
}

// Cleanup flushes any buffered log entries
func Cleanup() {
	if Logger != nil {
		Logger.Sync()
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
