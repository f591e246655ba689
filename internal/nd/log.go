package nd

import (
	"sync"

	"go.uber.org/zap"
)

var (
	log     *zap.Logger
	logOnce sync.Once
	logMu   sync.RWMutex
)

// logger returns the package logger. It uses a no-op logger by default.
func logger() *zap.Logger {
	logOnce.Do(func() {
		logMu.Lock()
		if log == nil {
			log = zap.NewNop()
		}
		logMu.Unlock()
	})
	logMu.RLock()
	defer logMu.RUnlock()
	return log
}

// SetLogger configures the package logger. Passing nil restores the no-op
// logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logOnce.Do(func() {})
	logMu.Lock()
	log = l
	logMu.Unlock()
}
