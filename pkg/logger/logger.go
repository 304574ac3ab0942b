package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger — общий интерфейс логирования для всех слоёв приложения.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(err error, format string, args ...any)
}

// ZapLogger реализует Logger поверх zap.SugaredLogger.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

func NewZapLogger() *ZapLogger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	log, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// Фолбэк на no-op, чтобы приложение не падало из-за логгера
		log = zap.NewNop()
	}

	return &ZapLogger{sugar: log.Sugar()}
}

func (l *ZapLogger) Debugf(format string, args ...any) {
	l.sugar.Debugf(format, args...)
}

func (l *ZapLogger) Infof(format string, args ...any) {
	l.sugar.Infof(format, args...)
}

func (l *ZapLogger) Warnf(format string, args ...any) {
	l.sugar.Warnf(format, args...)
}

func (l *ZapLogger) Errorf(err error, format string, args ...any) {
	l.sugar.With(zap.Error(err)).Errorf(format, args...)
}

// Sync сбрасывает буферизированные записи. Вызывается при завершении приложения.
func (l *ZapLogger) Sync() {
	_ = l.sugar.Sync()
}
