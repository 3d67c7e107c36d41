package xlog

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
)

func (lvl LogLevel) zapLevel() zapcore.Level {
	switch lvl {
	case LogLevelDebug:
		return zapcore.DebugLevel
	case LogLevelInfo:
		return zapcore.InfoLevel
	case LogLevelWarn:
		return zapcore.WarnLevel
	case LogLevelError:
		return zapcore.ErrorLevel
	default:
	}
	return zapcore.DebugLevel
}

func (lvl LogLevel) String() string {
	return string(lvl)
}

// ParseLogLevel is case-insensitive. Unknown or empty levels are DEBUG.
func ParseLogLevel(level string) LogLevel {
	switch lvl := LogLevel(strings.ToUpper(strings.TrimSpace(level))); lvl {
	case LogLevelInfo, LogLevelWarn, LogLevelError:
		return lvl
	default:
	}
	return LogLevelDebug
}

type LogEncoderType uint8

const (
	JSON LogEncoderType = iota
	PlainText
	_encMax
)

type LogOutWriterType uint8

const (
	StdOut LogOutWriterType = iota
	StdErr
	_writerMax
)

const coreKeyIgnored = ""

var (
	writerMap = map[LogOutWriterType]zapcore.WriteSyncer{
		StdOut: zapcore.Lock(os.Stdout),
		StdErr: zapcore.Lock(os.Stderr),
	}
	encoderMap = map[LogEncoderType]func(cfg zapcore.EncoderConfig) zapcore.Encoder{
		JSON:      zapcore.NewJSONEncoder,
		PlainText: zapcore.NewConsoleEncoder,
	}
)

func getEncoderByType(typ LogEncoderType) func(cfg zapcore.EncoderConfig) zapcore.Encoder {
	enc, ok := encoderMap[typ]
	if !ok {
		return zapcore.NewJSONEncoder
	}
	return enc
}

func getOutWriterByType(typ LogOutWriterType) zapcore.WriteSyncer {
	out, ok := writerMap[typ]
	if !ok {
		return zapcore.Lock(os.Stdout)
	}
	return out
}

type xLogCore interface {
	build(
		lvlEnabler zapcore.LevelEnabler,
		enc func(cfg zapcore.EncoderConfig) zapcore.Encoder,
		ws zapcore.WriteSyncer,
		lvlEnc zapcore.LevelEncoder,
		tsEnc zapcore.TimeEncoder,
	) zapcore.Core
}

type XLogger interface {
	IncreaseLogLevel(level zapcore.Level)
	Sync() error
	// Zap exposes the underlying logger for libraries that accept *zap.Logger.
	Zap() *zap.Logger
	Named(name string) XLogger

	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(err error, msg string, fields ...zap.Field)

	Logf(lvl zapcore.Level, format string, args ...any)
}
