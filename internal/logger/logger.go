package logger

import (
	"os"
	"sync"

	"github.com/zerodha/logf"
)

var (
	globalLogger logf.Logger
	once         sync.Once
	defaultOpts  = logf.Opts{
		EnableCaller:    true,
		TimestampFormat: "15:04:05",
		EnableColor:     false,
		Level:           logf.InfoLevel,
	}
)

// GetDefaultOpts returns a copy of the default logger options.
// This is useful for tests that need to modify options for a specific logger instance.
func GetDefaultOpts() logf.Opts {
	return defaultOpts
}

// GetLogger returns the singleton instance of the logger, writing to
// stdout. The 'level' parameter is only effective on the first call that
// initializes the logger.
func GetLogger(level string) *logf.Logger {
	once.Do(func() {
		currentOpts := GetDefaultOpts()
		var logLevel logf.Level
		switch level {
		case "debug":
			logLevel = logf.DebugLevel
		case "info":
			logLevel = logf.InfoLevel
		case "warn":
			logLevel = logf.WarnLevel
		case "error":
			logLevel = logf.ErrorLevel
		case "fatal":
			logLevel = logf.FatalLevel
		default:
			logLevel = currentOpts.Level // Use default if level string is unrecognized
		}
		currentOpts.Level = logLevel
		currentOpts.Writer = os.Stdout
		globalLogger = logf.New(currentOpts)
	})
	return &globalLogger
}

// Reset is for testing so that we can reset the logger singleton
func Reset() {
	once = sync.Once{}
	globalLogger = logf.Logger{}
}
