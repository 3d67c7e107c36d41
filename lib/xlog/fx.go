package xlog

import (
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

var _ fxevent.Logger = (*FxXLogger)(nil)

// FxXLogger reports the fx application lifecycle. Dependency graph events
// are debug logs, hook and start/stop failures are error logs.
type FxXLogger struct {
	logger XLogger
}

func (l *FxXLogger) LogEvent(event fxevent.Event) {
	if l == nil || l.logger == nil {
		return
	}

	switch e := event.(type) {
	case *fxevent.OnStartExecuted:
		if e.Err != nil {
			l.logger.Error(e.Err, "HOOK OnStart failed",
				zap.String("function", e.FunctionName),
				zap.String("caller", e.CallerName),
			)
			return
		}
		l.logger.Debug("HOOK OnStart",
			zap.String("function", e.FunctionName),
			zap.Duration("in", e.Runtime),
		)
	case *fxevent.OnStopExecuted:
		if e.Err != nil {
			l.logger.Error(e.Err, "HOOK OnStop failed",
				zap.String("function", e.FunctionName),
				zap.String("caller", e.CallerName),
			)
			return
		}
		l.logger.Debug("HOOK OnStop",
			zap.String("function", e.FunctionName),
			zap.Duration("in", e.Runtime),
		)
	case *fxevent.Supplied:
		if e.Err != nil {
			l.logger.Error(e.Err, "SUPPLY failed", zap.String("type", e.TypeName))
			return
		}
		l.logger.Debug("SUPPLY", zap.String("type", e.TypeName))
	case *fxevent.Provided:
		if e.Err != nil {
			l.logger.Error(e.Err, "PROVIDE failed",
				zap.String("constructor", e.ConstructorName),
				zap.Strings("stacktrace", e.StackTrace),
			)
			return
		}
		l.logger.Debug("PROVIDE",
			zap.Strings("types", e.OutputTypeNames),
			zap.String("constructor", e.ConstructorName),
		)
	case *fxevent.Invoking:
		l.logger.Debug("INVOKING", zap.String("function", e.FunctionName))
	case *fxevent.Invoked:
		if e.Err != nil {
			l.logger.Error(e.Err, "INVOKE failed",
				zap.String("function", e.FunctionName),
				zap.String("trace", e.Trace),
			)
		}
	case *fxevent.Stopping:
		l.logger.Info("STOPPING", zap.String("signal", e.Signal.String()))
	case *fxevent.Stopped:
		if e.Err != nil {
			l.logger.Error(e.Err, "Failed to stop cleanly")
		}
	case *fxevent.RollingBack:
		l.logger.Error(e.StartErr, "Start failed, rolling back")
	case *fxevent.RolledBack:
		if e.Err != nil {
			l.logger.Error(e.Err, "Couldn't roll back cleanly")
		}
	case *fxevent.Started:
		if e.Err != nil {
			l.logger.Error(e.Err, "Failed to start")
			return
		}
		l.logger.Debug("RUNNING")
	case *fxevent.LoggerInitialized:
		if e.Err != nil {
			l.logger.Error(e.Err, "Failed to initialize custom logger")
			return
		}
		l.logger.Debug("LOGGER initialized", zap.String("constructor", e.ConstructorName))
	default:
	}
}

func NewFxXLogger(logger XLogger) *FxXLogger {
	if logger == nil {
		return &FxXLogger{}
	}
	return &FxXLogger{logger: logger.Named("Fx")}
}
