// Package logger is the process wide structured logger. Loggers carried by a context (see
// [WithContext]) inherit the attributes of their parent, so packages log with the
// *Context functions and let callers decide what the records are tagged with.
//
// nolint: sloglint
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"
)

// Keys for log attributes.
const (
	ErrorKey           = "error"
	ErrorVerboseKey    = "error_verbose"
	ErrorStackTraceKey = "error_stacktrace"
)

// Levels above [slog.LevelError].
const (
	LevelCritical = slog.Level(12)
	LevelPanic    = slog.Level(14)
	LevelFatal    = slog.Level(16)
)

// Config is the logger configuration.
type Config struct {
	// Output is the log format: TEXT (default), JSON or GCP (Cloud Logging structured JSON).
	Output string `mapstructure:"output"`

	// Debug enables debug level, source locations and error stack traces.
	Debug bool `mapstructure:"debug"`
}

var (
	output io.Writer = os.Stdout

	lvl    = new(slog.LevelVar)
	logger = slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level:       lvl,
		ReplaceAttr: replaceLevelName,
	}))
)

func init() {
	lvl.Set(slog.LevelDebug)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(slog.LevelDebug)
}

// Init replaces the global logger (and the slog default) with one built from cfg.
func Init(cfg Config) error {
	options := &slog.HandlerOptions{
		Level:       lvl,
		ReplaceAttr: chainReplacers(replaceLevelName, replaceError),
	}
	var hooks []hook

	lvl.Set(slog.LevelInfo)
	if cfg.Debug {
		lvl.Set(slog.LevelDebug)
		options.AddSource = true
		hooks = append(hooks, errorDetailsHook)
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Output) {
	case "json":
		handler = slog.NewJSONHandler(output, options)
	case "gcp":
		handler = newGCPHandler(output, options)
	default:
		handler = slog.NewTextHandler(output, options)
	}

	logger = slog.New(&hookHandler{Handler: handler, hooks: hooks})
	slog.SetDefault(logger)
	return nil
}

// SetLevel sets the minimum level of the global logger and returns the previous one.
func SetLevel(level slog.Level) (old slog.Level) {
	old = lvl.Level()
	lvl.Set(level)
	return old
}

// With returns the global logger with the given attributes.
func With(args ...any) *slog.Logger {
	return logger.With(args...)
}

func Debug(msg string, args ...any) {
	log(context.Background(), logger, slog.LevelDebug, msg, args...)
}

func Info(msg string, args ...any) {
	log(context.Background(), logger, slog.LevelInfo, msg, args...)
}

func Warn(msg string, args ...any) {
	log(context.Background(), logger, slog.LevelWarn, msg, args...)
}

func Error(msg string, args ...any) {
	log(context.Background(), logger, slog.LevelError, msg, args...)
}

// Panic logs at [LevelPanic] and then panics.
func Panic(msg string, args ...any) {
	log(context.Background(), logger, LevelPanic, msg, args...)
	panic(msg)
}

// LogAttrs logs the attributes with the logger of ctx.
func LogAttrs(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	l := FromContext(ctx)
	if !l.Enabled(ctx, level) {
		return
	}
	r := slog.NewRecord(time.Now(), level, msg, callerPC(0))
	r.AddAttrs(attrs...)
	_ = l.Handler().Handle(ctx, r)
}

// log must be called directly by an exported function, the source location is taken at a fixed depth.
func log(ctx context.Context, l *slog.Logger, level slog.Level, msg string, args ...any) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.Enabled(ctx, level) {
		return
	}
	r := slog.NewRecord(time.Now(), level, msg, callerPC(1))
	r.Add(args...)
	_ = l.Handler().Handle(ctx, r)
}

// callerPC returns the pc of a caller of the function calling callerPC, skip=0 is its direct caller.
func callerPC(skip int) uintptr {
	var pcs [1]uintptr
	runtime.Callers(3+skip, pcs[:])
	return pcs[0]
}
