package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	log  *slog.Logger
	once sync.Once
)

// Init configures the process logger. Safe to call more than once; the first
// call wins.
func Init(level string) {
	once.Do(func() {
		var lvl slog.Level
		switch strings.ToLower(level) {
		case "debug":
			lvl = slog.LevelDebug
		case "warn":
			lvl = slog.LevelWarn
		case "error":
			lvl = slog.LevelError
		default:
			lvl = slog.LevelInfo
		}
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	})
}

func get() *slog.Logger {
	if log == nil {
		Init("info")
	}
	return log
}

// normalize turns loosely-shaped variadic args into slog attrs. A bare error
// becomes the "error" attribute; a dangling last value gets the "detail" key.
func normalize(args []any) []any {
	out := make([]any, 0, len(args)+2)
	i := 0
	for i < len(args) {
		if err, ok := args[i].(error); ok {
			out = append(out, "error", err.Error())
			i++
			continue
		}
		if i+1 < len(args) {
			out = append(out, args[i], args[i+1])
			i += 2
			continue
		}
		out = append(out, "detail", args[i])
		i++
	}
	return out
}

func Debug(msg string, args ...any) {
	get().Debug(msg, normalize(args)...)
}

func Info(msg string, args ...any) {
	get().Info(msg, normalize(args)...)
}

func Warn(msg string, args ...any) {
	get().Warn(msg, normalize(args)...)
}

func Error(msg string, args ...any) {
	get().Error(msg, normalize(args)...)
}
