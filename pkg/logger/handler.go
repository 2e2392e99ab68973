package logger

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors/errbase"
)

type replacer = func(groups []string, attr slog.Attr) slog.Attr

func chainReplacers(replacers ...replacer) replacer {
	return func(groups []string, attr slog.Attr) slog.Attr {
		for _, r := range replacers {
			if r != nil {
				attr = r(groups, attr)
			}
		}
		return attr
	}
}

// replaceLevelName names the levels above error, e.g. "CRITICAL" instead of "ERROR+4".
func replaceLevelName(groups []string, attr slog.Attr) slog.Attr {
	if len(groups) > 0 || attr.Key != slog.LevelKey {
		return attr
	}
	level, ok := attr.Value.Any().(slog.Level)
	if !ok || level < LevelCritical {
		return attr
	}
	name, base := "CRITICAL", LevelCritical
	switch {
	case level >= LevelFatal:
		name, base = "FATAL", LevelFatal
	case level >= LevelPanic:
		name, base = "PANIC", LevelPanic
	}
	if level != base {
		name = fmt.Sprintf("%s%+d", name, level-base)
	}
	return slog.String(attr.Key, name)
}

// replaceError renders errors with their message only.
func replaceError(groups []string, attr slog.Attr) slog.Attr {
	if len(groups) > 0 || attr.Key != ErrorKey {
		return attr
	}
	if err, ok := attr.Value.Any().(error); ok && err != nil {
		return slog.String(attr.Key, err.Error())
	}
	return attr
}

// hook may add attributes to a record before it is handled.
type hook func(ctx context.Context, rec *slog.Record)

type hookHandler struct {
	slog.Handler
	hooks []hook
}

func (h *hookHandler) Handle(ctx context.Context, rec slog.Record) error {
	for _, hook := range h.hooks {
		hook(ctx, &rec)
	}
	return h.Handler.Handle(ctx, rec) //nolint: wrapcheck
}

func (h *hookHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &hookHandler{Handler: h.Handler.WithAttrs(attrs), hooks: h.hooks}
}

func (h *hookHandler) WithGroup(name string) slog.Handler {
	return &hookHandler{Handler: h.Handler.WithGroup(name), hooks: h.hooks}
}

// errorDetailsHook adds the verbose message and the stack trace of logged errors.
func errorDetailsHook(_ context.Context, rec *slog.Record) {
	var details []slog.Attr
	rec.Attrs(func(attr slog.Attr) bool {
		if attr.Key != ErrorKey {
			return true
		}
		err, ok := attr.Value.Any().(error)
		if !ok || err == nil {
			return true
		}
		details = append(details, slog.String(ErrorVerboseKey, fmt.Sprintf("%+v", err)))
		if provider, ok := err.(errbase.StackTraceProvider); ok {
			details = append(details, slog.Any(ErrorStackTraceKey, stackFrames(provider.StackTrace())))
		}
		return true
	})
	rec.AddAttrs(details...)
}

// stackFrames renders the frames of st as "function file:line", innermost first,
// without the runtime frames at the bottom of the stack.
func stackFrames(st errbase.StackTrace) []string {
	frames := make([]string, 0, len(st))
	skipping := true
	for i := len(st) - 1; i >= 0; i-- {
		pc := uintptr(st[i]) - 1
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			frames = append(frames, "unknown")
			skipping = false
			continue
		}
		if skipping && strings.HasPrefix(fn.Name(), "runtime.") {
			continue
		}
		skipping = false
		file, line := fn.FileLine(pc)
		frames = append(frames, fmt.Sprintf("%s %s:%d", fn.Name(), file, line))
	}
	return frames
}
