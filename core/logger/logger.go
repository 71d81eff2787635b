package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu    sync.RWMutex
	sugar = zap.NewNop().Sugar()
)

// Init builds the process logger. Production uses the JSON encoder, anything
// else the colored console encoder.
func Init(env string) error {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		// odd key/value lists must not panic in development
		config.Development = false
	}

	config.OutputPaths = []string{"stdout"}

	built, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}

	mu.Lock()
	sugar = built.Sugar()
	mu.Unlock()
	return nil
}

func get() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

func Debug(msg string, keysAndValues ...any) {
	get().Debugw(msg, keysAndValues...)
}

func Info(msg string, keysAndValues ...any) {
	get().Infow(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...any) {
	get().Warnw(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...any) {
	get().Errorw(msg, keysAndValues...)
}

// Sync flushes buffered entries; call before exit.
func Sync() {
	_ = get().Sync()
}
