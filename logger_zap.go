package respkit

import "go.uber.org/zap"

// zapLogger adapts a *zap.Logger to the Logger interface (spec §6). This
// is the default structured-logging implementation named in SPEC_FULL.md's
// ambient stack — the teacher's bare *log.Logger has no severity concept
// beyond a single stream, which the spec's {debug, warning, critical}
// requirement needs.
type zapLogger struct {
	z *zap.Logger
}

// NewZapLogger wraps z as a respkit Logger. Pass zap.NewProduction() (or
// zap.NewDevelopment() for local debugging) to get one.
func NewZapLogger(z *zap.Logger) Logger {
	return &zapLogger{z: z}
}

func (l *zapLogger) Log(level LogLevel, msg string, fields ...Field) {
	zf := make([]zap.Field, len(fields))
	for i, f := range fields {
		zf[i] = zap.Any(f.Key, f.Value)
	}
	switch level {
	case LevelDebug:
		l.z.Debug(msg, zf...)
	case LevelWarning:
		l.z.Warn(msg, zf...)
	case LevelCritical:
		l.z.Error(msg, zf...)
	default:
		l.z.Info(msg, zf...)
	}
}
