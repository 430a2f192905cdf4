package util

import (
	"context"
	"log/slog"
	"sync/atomic"
)

var GLOBAL_LOG_LEVEL = LogLevelInfo
var GLOBAL_LOG_CATEGORIES = LogVoxel | LogIO | LogSystem | LogShader

type LogLevel int

const (
	LogLevelError LogLevel = 1 << iota
	LogLevelWarning
	LogLevelInfo
	LogLevelDebug
)

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LogLevelError:
		return slog.LevelError
	case LogLevelWarning:
		return slog.LevelWarn
	case LogLevelDebug:
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func ParseLogLevel(name string) LogLevel {
	switch name {
	case "error":
		return LogLevelError
	case "warn", "warning":
		return LogLevelWarning
	case "debug":
		return LogLevelDebug
	}
	return LogLevelInfo
}

type LogCategory int

const (
	LogVoxel LogCategory = 1 << iota
	LogSystem
	LogIO
	LogShader
)

func (c LogCategory) String() string {
	switch c {
	case LogVoxel:
		return "voxel"
	case LogSystem:
		return "system"
	case LogIO:
		return "io"
	case LogShader:
		return "shader"
	}
	return "misc"
}

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger routes all log output to l. Nil silences logging again.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

func Logger() *slog.Logger {
	return loggerPtr.Load()
}

func log(cat LogCategory, lvl LogLevel, txt string) {
	if lvl > GLOBAL_LOG_LEVEL {
		return
	}
	if GLOBAL_LOG_CATEGORIES&cat == 0 {
		return
	}
	Logger().Log(context.Background(), lvl.slogLevel(), txt, slog.String("category", cat.String()))
}

func LogVoxelInfo(txt string) {
	log(LogVoxel, LogLevelInfo, txt)
}

func LogVoxelDebug(txt string) {
	log(LogVoxel, LogLevelDebug, txt)
}

func LogVoxelError(txt string) {
	log(LogVoxel, LogLevelError, txt)
}

func LogSystemInfo(txt string) {
	log(LogSystem, LogLevelInfo, txt)
}

func LogSystemDebug(txt string) {
	log(LogSystem, LogLevelDebug, txt)
}

func LogSystemWarning(txt string) {
	log(LogSystem, LogLevelWarning, txt)
}

func LogSystemError(txt string) {
	log(LogSystem, LogLevelError, txt)
}

func LogIOInfo(txt string) {
	log(LogIO, LogLevelInfo, txt)
}

func LogIODebug(txt string) {
	log(LogIO, LogLevelDebug, txt)
}

func LogIOError(txt string) {
	log(LogIO, LogLevelError, txt)
}

func LogShaderDebug(txt string) {
	log(LogShader, LogLevelDebug, txt)
}

func LogShaderError(txt string) {
	log(LogShader, LogLevelError, txt)
}
