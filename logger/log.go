package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger *zap.Logger
	sugar  *zap.SugaredLogger
	mu     sync.Mutex
)

// Init initializes the global logger. Production uses JSON output, every
// other environment the human readable development encoder.
func Init(env string) {
	mu.Lock()
	defer mu.Unlock()
	initLocked(env)
}

func initLocked(env string) {
	var (
		l   *zap.Logger
		err error
	)
	if env == "production" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	logger = l
	sugar = l.Sugar()
}

// current returns both loggers, initializing them on first use. All access
// goes through mu.
func current() (*zap.Logger, *zap.SugaredLogger) {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		initLocked("development")
	}
	return logger, sugar
}

// L returns the global logger instance
func L() *zap.Logger {
	l, _ := current()
	return l
}

func s() *zap.SugaredLogger {
	_, sl := current()
	return sl
}

// Close flushes buffered log entries.
func Close() {
	mu.Lock()
	l := logger
	mu.Unlock()
	if l != nil {
		_ = l.Sync()
	}
}

// Info logs msg with alternating key/value pairs.
func Info(msg string, keysAndValues ...any) {
	s().Infow(msg, keysAndValues...)
}

// Warn logs msg with alternating key/value pairs.
func Warn(msg string, keysAndValues ...any) {
	s().Warnw(msg, keysAndValues...)
}

// Error logs msg with alternating key/value pairs.
func Error(msg string, keysAndValues ...any) {
	s().Errorw(msg, keysAndValues...)
}

// Debug logs msg with alternating key/value pairs.
func Debug(msg string, keysAndValues ...any) {
	s().Debugw(msg, keysAndValues...)
}
