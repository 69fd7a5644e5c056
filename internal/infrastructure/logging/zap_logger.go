package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const logFileName = "plugbot.log"

type zapLogger struct {
	logger *zap.Logger
}

func levelOf(s string) (zapcore.Level, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("logging: unknown level %q", s)
	}
	return lvl, nil
}

func encoderOf(encoding string) zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	if encoding == "json" {
		return zapcore.NewJSONEncoder(ec)
	}
	ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(ec)
}

// newZapLogger writes to stderr and, when FilePath is set, to a rotating
// JSON file in that directory.
func newZapLogger(cfg *LoggerConfig) (*zapLogger, error) {
	lvl, err := levelOf(cfg.Level)
	if err != nil {
		return nil, err
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoderOf(cfg.Encoding), zapcore.Lock(os.Stderr), lvl),
	}
	if cfg.FilePath != "" {
		rotator := &lumberjack.Logger{
			Filename:   filepath.Join(cfg.FilePath, logFileName),
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(encoderOf("json"), zapcore.AddSync(rotator), lvl))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))
	if cfg.AppName != "" {
		logger = logger.With(zap.String(string(AppName), cfg.AppName))
	}
	return &zapLogger{logger: logger}, nil
}

func (l *zapLogger) with(cat Category, sub SubCategory, extra map[ExtraKey]any) []zap.Field {
	fields := logParamsToZapParams(extra)
	return append(fields,
		zap.String("Category", string(cat)),
		zap.String("SubCategory", string(sub)),
	)
}

func (l *zapLogger) Debug(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {
	l.logger.Debug(msg, l.with(cat, sub, extra)...)
}

func (l *zapLogger) Debugf(template string, args ...any) {
	l.logger.Sugar().Debugf(template, args...)
}

func (l *zapLogger) Info(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {
	l.logger.Info(msg, l.with(cat, sub, extra)...)
}

func (l *zapLogger) Infof(template string, args ...any) {
	l.logger.Sugar().Infof(template, args...)
}

func (l *zapLogger) Warn(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {
	l.logger.Warn(msg, l.with(cat, sub, extra)...)
}

func (l *zapLogger) Warnf(template string, args ...any) {
	l.logger.Sugar().Warnf(template, args...)
}

func (l *zapLogger) Error(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {
	l.logger.Error(msg, l.with(cat, sub, extra)...)
}

func (l *zapLogger) Errorf(template string, args ...any) {
	l.logger.Sugar().Errorf(template, args...)
}

func (l *zapLogger) Zap() *zap.Logger {
	return l.logger.WithOptions(zap.AddCallerSkip(-1))
}

func (l *zapLogger) Sync() error {
	return l.logger.Sync()
}
