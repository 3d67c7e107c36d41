package xlog

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	ErrXLoggerUnknownWriter  = errors.New("[XLogger] unknown writer")
	ErrXLoggerUnknownEncoder = errors.New("[XLogger] unknown encoder")
	ErrXLoggerNilWriter      = errors.New("[XLogger] nil write syncer")
)

type xLogger struct {
	logger              atomic.Pointer[zap.Logger]
	dynamicLevelEnabler zap.AtomicLevel
}

// Zap drops the caller skip of the wrapper methods, so callAt points at
// the direct caller.
func (l *xLogger) Zap() *zap.Logger {
	return l.logger.Load().WithOptions(zap.AddCallerSkip(-1))
}

// IncreaseLogLevel changes the level of this logger and every logger
// derived from it, concurrently safe.
func (l *xLogger) IncreaseLogLevel(level zapcore.Level) {
	l.dynamicLevelEnabler.SetLevel(level)
}

func (l *xLogger) Sync() error {
	return l.logger.Load().Sync()
}

func (l *xLogger) Named(name string) XLogger {
	named := &xLogger{
		dynamicLevelEnabler: l.dynamicLevelEnabler,
	}
	named.logger.Store(l.logger.Load().Named(name))
	return named
}

func (l *xLogger) Debug(msg string, fields ...zap.Field) {
	l.logger.Load().Debug(msg, fields...)
}

func (l *xLogger) Info(msg string, fields ...zap.Field) {
	l.logger.Load().Info(msg, fields...)
}

func (l *xLogger) Warn(msg string, fields ...zap.Field) {
	l.logger.Load().Warn(msg, fields...)
}

func (l *xLogger) Error(err error, msg string, fields ...zap.Field) {
	newFields := make([]zap.Field, 0, len(fields)+1)
	if err != nil {
		newFields = append(newFields, zap.String("error", err.Error()))
	}
	newFields = append(newFields, fields...)
	l.logger.Load().Error(msg, newFields...)
}

func (l *xLogger) Logf(lvl zapcore.Level, format string, args ...any) {
	if ce := l.logger.Load().Check(lvl, fmt.Sprintf(format, args...)); ce != nil {
		ce.Write()
	}
}

type loggerCfg struct {
	level       *zapcore.Level
	encoderType *LogEncoderType
	writerType  *LogOutWriterType
	ws          zapcore.WriteSyncer
	lvlEncoder  zapcore.LevelEncoder
	tsEncoder   zapcore.TimeEncoder
	core        xLogCore
}

func (cfg *loggerCfg) apply() {
	if cfg.level == nil {
		lvl := ParseLogLevel(os.Getenv("XLOG_LVL")).zapLevel()
		cfg.level = &lvl
	}
	if cfg.encoderType == nil {
		enc := JSON
		cfg.encoderType = &enc
	}
	if cfg.ws == nil {
		w := StdOut
		if cfg.writerType != nil {
			w = *cfg.writerType
		}
		cfg.ws = getOutWriterByType(w)
	}
	if cfg.lvlEncoder == nil {
		cfg.lvlEncoder = zapcore.CapitalLevelEncoder
	}
	if cfg.tsEncoder == nil {
		cfg.tsEncoder = zapcore.ISO8601TimeEncoder
	}
	if cfg.core == nil {
		cfg.core = &consoleCore{}
	}
}

type XLoggerOption func(*loggerCfg) error

// NewXLogger panics on an invalid option.
func NewXLogger(opts ...XLoggerOption) XLogger {
	cfg := &loggerCfg{}
	for _, o := range opts {
		if err := o(cfg); err != nil {
			panic(err)
		}
	}
	cfg.apply()

	xl := &xLogger{
		dynamicLevelEnabler: zap.NewAtomicLevelAt(*cfg.level),
	}
	core := cfg.core.build(
		xl.dynamicLevelEnabler,
		getEncoderByType(*cfg.encoderType),
		cfg.ws,
		cfg.lvlEncoder,
		cfg.tsEncoder,
	)
	// Disable zap logger error stack.
	l := zap.New(
		core,
		zap.AddCallerSkip(1), // Use caller filename as service
		zap.AddCaller(),
	)
	xl.logger.Store(l)
	return xl
}

func WithXLoggerWriter(w LogOutWriterType) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if w >= _writerMax {
			return ErrXLoggerUnknownWriter
		}
		cfg.writerType = &w
		return nil
	}
}

// WithXLoggerWriteSyncer overrides the writer type.
func WithXLoggerWriteSyncer(ws zapcore.WriteSyncer) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if ws == nil {
			return ErrXLoggerNilWriter
		}
		cfg.ws = ws
		return nil
	}
}

func WithXLoggerEncoder(logEnc LogEncoderType) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if logEnc >= _encMax {
			return ErrXLoggerUnknownEncoder
		}
		cfg.encoderType = &logEnc
		return nil
	}
}

func WithXLoggerLevel(lvl LogLevel) XLoggerOption {
	return func(cfg *loggerCfg) error {
		_lvl := lvl.zapLevel()
		cfg.level = &_lvl
		return nil
	}
}

func WithXLoggerLevelEncoder(lvlEnc zapcore.LevelEncoder) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if lvlEnc == nil {
			lvlEnc = zapcore.CapitalColorLevelEncoder
		}
		cfg.lvlEncoder = lvlEnc
		return nil
	}
}

func WithXLoggerTimeEncoder(tsEnc zapcore.TimeEncoder) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if tsEnc == nil {
			tsEnc = zapcore.ISO8601TimeEncoder
		}
		cfg.tsEncoder = tsEnc
		return nil
	}
}

func WithXLoggerConsoleCore() XLoggerOption {
	return func(cfg *loggerCfg) error {
		cfg.core = &consoleCore{}
		return nil
	}
}
