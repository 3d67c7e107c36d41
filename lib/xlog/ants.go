package xlog

import (
	"fmt"

	"github.com/panjf2000/ants/v2"
)

var _ ants.Logger = (*AntsXLogger)(nil)

type AntsXLogger struct {
	logger XLogger
}

func (l *AntsXLogger) Printf(format string, args ...any) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func NewAntsXLogger(logger XLogger) *AntsXLogger {
	if logger == nil {
		return &AntsXLogger{}
	}
	return &AntsXLogger{logger: logger.Named("Ants")}
}
