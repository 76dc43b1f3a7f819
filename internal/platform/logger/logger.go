package logger

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	timeKey   = "time"
	levelKey  = "level"
	sourceKey = "source"
	msgKey    = "msg"
)

var (
	mu          sync.Mutex
	sugarLogger *zap.SugaredLogger
)

// Init builds the process logger. An empty logFile logs to stdout only.
// Calling Init again replaces the logger for loggers created afterwards.
func Init(level, logFile string) {
	mu.Lock()
	defer mu.Unlock()
	sugarLogger = build(level, logFile)
}

func build(level, logFile string) *zap.SugaredLogger {
	var lvl zapcore.Level
	if err := lvl.Set(level); err != nil {
		lvl = zap.InfoLevel
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        timeKey,
		LevelKey:       levelKey,
		NameKey:        sourceKey,
		MessageKey:     msgKey,
		CallerKey:      "caller",
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig),
			zapcore.AddSync(os.Stdout),
			lvl,
		),
	}

	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err == nil {
			w := zapcore.AddSync(&lumberjack.Logger{
				Filename:   logFile,
				MaxSize:    50,
				MaxBackups: 10,
				MaxAge:     28,
				Compress:   true,
				LocalTime:  true,
			})
			cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), w, lvl))
		}
	}

	log := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return log.Sugar()
}

// NewNamedLogger creates a new named SugaredLogger for a given component.
func NewNamedLogger(name string) *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	if sugarLogger == nil {
		sugarLogger = build("info", "")
	}
	return sugarLogger.Named(name)
}
