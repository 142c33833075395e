package logger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zerodha/logf"

	"github.com/bxrne/focalplan/internal/logger"
)

// TEST: GIVEN GetLogger is called THEN a non-nil logger is returned
func TestGetLogger(t *testing.T) {
	logger.Reset()
	log := logger.GetLogger("info")
	if log == nil {
		t.Error("Expected logger to be non-nil")
	}
}

// TEST: GIVEN GetLogger is called multiple times THEN the logger is a singleton
func TestGetLoggerSingleton(t *testing.T) {
	logger.Reset()
	log1 := logger.GetLogger("info")
	log2 := logger.GetLogger("debug")

	if log1 != log2 {
		t.Error("Expected logger to be a singleton")
	}
}

// TEST: GIVEN GetLogger is called with different levels THEN each fresh instance accepts the level
func TestGetLoggerDifferentLevels(t *testing.T) {
	levels := []string{"debug", "info", "warn", "error", "fatal"}

	for _, level := range levels {
		logger.Reset() // Reset the logger to ensure a fresh instance
		log := logger.GetLogger(level)
		assert.NotNil(t, log)
	}
}

// TEST: GIVEN an unrecognized level THEN a logger is still returned
func TestGetLoggerUnknownLevel(t *testing.T) {
	logger.Reset()
	log := logger.GetLogger("verbose")
	assert.NotNil(t, log)
}

// TEST: GIVEN the default options THEN the caller flag and timestamp format are set
func TestGetDefaultOpts(t *testing.T) {
	opts := logger.GetDefaultOpts()
	assert.True(t, opts.EnableCaller)
	assert.Equal(t, "15:04:05", opts.TimestampFormat)
	assert.Equal(t, logf.InfoLevel, opts.Level)
}
