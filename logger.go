package rowangate

import (
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
)

// Logger is the minimal structured logging interface used for debug output.
// Key-value pairs alternate keys and values, slog style.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// SimpleLogger is a console logger suitable for development and examples.
type SimpleLogger struct {
	logger *log.Logger
}

// NewSimpleLogger creates a logger writing to stderr.
func NewSimpleLogger() *SimpleLogger {
	return &SimpleLogger{
		logger: log.New(os.Stderr, "rowangate ", log.LstdFlags|log.Lmicroseconds),
	}
}

func (l *SimpleLogger) logf(level, msg string, keysAndValues ...interface{}) {
	line := level + " " + msg
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		line += fmt.Sprintf(" %v=%v", keysAndValues[i], keysAndValues[i+1])
	}
	if len(keysAndValues)%2 != 0 {
		line += fmt.Sprintf(" %v", keysAndValues[len(keysAndValues)-1])
	}
	l.logger.Println(line)
}

// Debug logs at debug level.
func (l *SimpleLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logf("DEBUG", msg, keysAndValues...)
}

// Info logs at info level.
func (l *SimpleLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logf("INFO", msg, keysAndValues...)
}

// Warn logs at warn level.
func (l *SimpleLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logf("WARN", msg, keysAndValues...)
}

// Error logs at error level.
func (l *SimpleLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logf("ERROR", msg, keysAndValues...)
}

// DebugConfig controls which reliability layers emit debug logs and how
// request IDs are generated.
type DebugConfig struct {
	Enabled      bool
	LogRequests  bool
	LogRetries   bool
	LogCircuit   bool
	LogRateLimit bool
	LogCache     bool
	LogQueue     bool
	LogMonitor   bool
	RequestIDGen func() string
}

// DefaultDebugConfig enables all layers and uses UUIDs for request IDs.
func DefaultDebugConfig() *DebugConfig {
	return &DebugConfig{
		Enabled:      false,
		LogRequests:  true,
		LogRetries:   true,
		LogCircuit:   true,
		LogRateLimit: true,
		LogCache:     true,
		LogQueue:     true,
		LogMonitor:   true,
		RequestIDGen: uuid.NewString,
	}
}
