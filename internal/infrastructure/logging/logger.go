// Package logging builds the zap logger of the bot and wraps it in the
// category-tagged Logger used by the bot and the status server.
package logging

import (
	"github.com/hilthontt/plugdj/internal/infrastructure/env"
	"go.uber.org/zap"
)

type Logger interface {
	Debug(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Debugf(template string, args ...any)

	Info(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Infof(template string, args ...any)

	Warn(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Warnf(template string, args ...any)

	Error(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Errorf(template string, args ...any)

	// Zap exposes the underlying logger for packages that take a *zap.Logger.
	Zap() *zap.Logger
	Sync() error
}

type LoggerConfig struct {
	FilePath string
	Encoding string
	Level    string
	AppName  string
}

func NewDefaultConfig() *LoggerConfig {
	return &LoggerConfig{
		FilePath: env.GetString("LOGGER_FILE_PATH", ""),
		Encoding: env.GetString("LOGGER_ENCODING", "console"),
		Level:    env.GetString("LOGGER_LEVEL", "info"),
		AppName:  "plugbot",
	}
}

func NewLogger(cfg *LoggerConfig) (Logger, error) {
	l, err := newZapLogger(cfg)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Wrap adapts an existing zap logger, mostly for tests.
func Wrap(l *zap.Logger) Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return &zapLogger{logger: l}
}
