// Package logging is a small leveled logger with printf helpers, backed by zap.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents severity.
type LogLevel int32

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[string]LogLevel{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

var zapLevels = map[LogLevel]zapcore.Level{
	LevelDebug: zapcore.DebugLevel,
	LevelInfo:  zapcore.InfoLevel,
	LevelWarn:  zapcore.WarnLevel,
	LevelError: zapcore.ErrorLevel,
}

var (
	mu          sync.Mutex
	atomicLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	base        = newLogger(zapcore.Lock(os.Stderr))
)

func newLogger(ws zapcore.WriteSyncer) *zap.SugaredLogger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeTime = zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05.000000")
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), ws, atomicLevel)
	return zap.New(core).Sugar()
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	base = newLogger(zapcore.AddSync(w))
}

// ParseLevel reports whether s names a known level.
func ParseLevel(s string) (LogLevel, bool) {
	l, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]
	return l, ok
}

// SetLogLevel parses and sets global log level. Unknown names are ignored.
func SetLogLevel(s string) {
	l, ok := ParseLevel(s)
	if !ok {
		return
	}
	atomicLevel.SetLevel(zapLevels[l])
}

// GetLogLevel returns current global log level.
func GetLogLevel() LogLevel {
	switch atomicLevel.Level() {
	case zapcore.DebugLevel:
		return LevelDebug
	case zapcore.WarnLevel:
		return LevelWarn
	case zapcore.ErrorLevel:
		return LevelError
	}
	return LevelInfo
}

func logger() *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	return base
}

func logf(l LogLevel, format string, args ...interface{}) {
	lg := logger()
	// Without args the message is logged verbatim so a literal % is not
	// run through fmt (which would yield %!x(MISSING)).
	if len(args) == 0 {
		switch l {
		case LevelDebug:
			lg.Debug(format)
		case LevelWarn:
			lg.Warn(format)
		case LevelError:
			lg.Error(format)
		default:
			lg.Info(format)
		}
		return
	}
	switch l {
	case LevelDebug:
		lg.Debugf(format, args...)
	case LevelWarn:
		lg.Warnf(format, args...)
	case LevelError:
		lg.Errorf(format, args...)
	default:
		lg.Infof(format, args...)
	}
}

// Public helpers
func Debugf(format string, a ...interface{}) { logf(LevelDebug, format, a...) }
func Infof(format string, a ...interface{})  { logf(LevelInfo, format, a...) }
func Warnf(format string, a ...interface{})  { logf(LevelWarn, format, a...) }
func Errorf(format string, a ...interface{}) { logf(LevelError, format, a...) }

// Sync flushes buffered output.
func Sync() { _ = logger().Sync() }

// TimeTrack logs the elapsed time of a step at debug level.
func TimeTrack(start time.Time, label string) {
	dur := time.Since(start)
	Debugf("%s took %s", label, dur)
}
